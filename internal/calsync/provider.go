package calsync

import (
	"context"
	"time"

	"github.com/coachly/call-scheduler/internal/models"
)

// Provider empurra/retira o espelho de um evento confirmado num
// calendário externo. externalID vazio = primeiro push; preenchido
// = atualização idempotente.
type Provider interface {
	Name() string

	Push(
		ctx context.Context,
		ev *models.SchedulableEvent,
		cred *models.IntegrationCredential,
		externalID string,
	) (string, error)

	Retract(
		ctx context.Context,
		ev *models.SchedulableEvent,
		cred *models.IntegrationCredential,
		externalID string,
	) error
}

// Result é o desfecho por provedor. A falha de um nunca contamina
// outro nem a confirmação da reserva em si.
type Result struct {
	Provider   string    `json:"provider"`
	ExternalID string    `json:"external_id,omitempty"`
	SyncedAt   time.Time `json:"synced_at"`
	Err        error     `json:"-"`
	ErrMessage string    `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Err == nil
}
