package scheduling

import (
	"context"

	"github.com/coachly/call-scheduler/internal/audit"
	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// CANCEL EVENT
// ======================================================

type CancelEventInput struct {
	ActorID uint
	EventID uint
	Reason  string
}

type CancelEvent struct {
	repo   domain.Repository
	syncer Syncer
	audit  *audit.Dispatcher
	clock  clock.Clock
}

func NewCancelEvent(
	repo domain.Repository,
	syncer Syncer,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
) *CancelEvent {
	return &CancelEvent{
		repo:   repo,
		syncer: syncer,
		audit:  auditDisp,
		clock:  clk,
	}
}

// Execute cancela a partir de qualquer estado não-terminal.
// Idempotente: evento já cancelado devolve sucesso sem tocar em
// nada. Os lembretes pendentes morrem na mesma transação do status,
// ANTES do sucesso ser reportado ao chamador.
func (uc *CancelEvent) Execute(
	ctx context.Context,
	in CancelEventInput,
) (*models.SchedulableEvent, error) {

	ev, err := uc.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanTransact(ev, in.ActorID); err != nil {
		return nil, err
	}

	note, changed, err := domain.Cancel(ev, in.ActorID, uc.clock.Now(), in.Reason)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ev, nil
	}

	if err := uc.repo.CancelEventAndDeleteJobs(ctx, ev, note); err != nil {
		return nil, err
	}

	// retirada do espelho externo é best-effort
	go func() {
		results := uc.syncer.SyncCancelled(context.Background(), ev)
		calsync.LogResults("retract", ev.ID, results)
	}()

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ev.OrganizationID,
		UserID:         &in.ActorID,
		Action:         "event_cancelled",
		Entity:         "schedulable_event",
		EntityID:       &ev.ID,
	})

	return ev, nil
}
