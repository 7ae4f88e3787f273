package calsync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// External Calendar Sync Adapter
// ======================================================
//
// Fan-out best-effort para os provedores conectados da organização.
// Cada provedor roda em goroutine própria com timeout próprio; um
// coletor junta os resultados. Nada aqui falha a confirmação.

type Adapter struct {
	store     CredentialStore
	providers map[string]Provider
	timeout   time.Duration
}

func NewAdapter(store CredentialStore, timeout time.Duration, providers ...Provider) *Adapter {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Adapter{
		store:     store,
		providers: byName,
		timeout:   timeout,
	}
}

// SyncConfirmed espelha o evento em todos os provedores conectados.
// Idempotente: re-push de evento já sincronizado atualiza, chaveado
// pelo ExternalEventRef.
func (a *Adapter) SyncConfirmed(ctx context.Context, ev *models.SchedulableEvent) []Result {
	return a.fanOut(ctx, ev, a.pushOne)
}

// SyncCancelled retira o espelho; provedor sem espelho é sucesso.
func (a *Adapter) SyncCancelled(ctx context.Context, ev *models.SchedulableEvent) []Result {
	return a.fanOut(ctx, ev, a.retractOne)
}

type task func(ctx context.Context, ev *models.SchedulableEvent, cred models.IntegrationCredential) Result

func (a *Adapter) fanOut(ctx context.Context, ev *models.SchedulableEvent, run task) []Result {
	creds, err := a.store.ListCredentials(ctx, ev.OrganizationID)
	if err != nil {
		log.Printf("calsync: listing credentials for org %d: %v", ev.OrganizationID, err)
		return nil
	}
	if len(creds) == 0 {
		return nil
	}

	out := make(chan Result, len(creds))
	for _, cred := range creds {
		cred := cred
		go func() {
			taskCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			out <- run(taskCtx, ev, cred)
		}()
	}

	results := make([]Result, 0, len(creds))
	for range creds {
		results = append(results, <-out)
	}
	return results
}

func (a *Adapter) pushOne(ctx context.Context, ev *models.SchedulableEvent, cred models.IntegrationCredential) Result {
	provider, ok := a.providers[cred.Provider]
	if !ok {
		return failure(cred.Provider, fmt.Errorf("unknown provider %q", cred.Provider))
	}

	var externalID string
	if ref, err := a.store.GetExternalRef(ctx, ev.ID, cred.Provider); err == nil && ref != nil {
		externalID = ref.ProviderEventID
	}

	newID, err := provider.Push(ctx, ev, &cred, externalID)
	if err != nil {
		return failure(cred.Provider, err)
	}

	if err := a.store.UpsertExternalRef(ctx, &models.ExternalEventRef{
		EventID:         ev.ID,
		Provider:        cred.Provider,
		ProviderEventID: newID,
	}); err != nil {
		return failure(cred.Provider, err)
	}

	return Result{Provider: cred.Provider, ExternalID: newID, SyncedAt: time.Now().UTC()}
}

func (a *Adapter) retractOne(ctx context.Context, ev *models.SchedulableEvent, cred models.IntegrationCredential) Result {
	provider, ok := a.providers[cred.Provider]
	if !ok {
		return failure(cred.Provider, fmt.Errorf("unknown provider %q", cred.Provider))
	}

	ref, err := a.store.GetExternalRef(ctx, ev.ID, cred.Provider)
	if err != nil || ref == nil || ref.ProviderEventID == "" {
		// nunca foi espelhado neste provedor
		return Result{Provider: cred.Provider, SyncedAt: time.Now().UTC()}
	}

	if err := provider.Retract(ctx, ev, &cred, ref.ProviderEventID); err != nil {
		return failure(cred.Provider, err)
	}

	if err := a.store.DeleteExternalRef(ctx, ev.ID, cred.Provider); err != nil {
		return failure(cred.Provider, err)
	}

	return Result{Provider: cred.Provider, SyncedAt: time.Now().UTC()}
}

func failure(provider string, err error) Result {
	return Result{
		Provider:   provider,
		SyncedAt:   time.Now().UTC(),
		Err:        err,
		ErrMessage: err.Error(),
	}
}

// LogResults registra o desfecho por provedor. Falha de sync vira
// aviso para o coach, nunca falha de reserva.
func LogResults(action string, eventID uint, results []Result) {
	for _, res := range results {
		if res.OK() {
			log.Printf("calsync: %s event=%d provider=%s ok", action, eventID, res.Provider)
		} else {
			log.Printf("calsync: %s event=%d provider=%s failed: %v", action, eventID, res.Provider, res.Err)
		}
	}
}
