package scheduling

import (
	"context"
	"time"

	"github.com/coachly/call-scheduler/internal/audit"
	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// RESCHEDULE EVENT
// ======================================================

type RescheduleEventInput struct {
	ActorID uint
	EventID uint

	NewStart           time.Time
	NewDurationMinutes int
	Note               string
}

type RescheduleEvent struct {
	repo   domain.Repository
	syncer Syncer
	audit  *audit.Dispatcher
	clock  clock.Clock
}

func NewRescheduleEvent(
	repo domain.Repository,
	syncer Syncer,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
) *RescheduleEvent {
	return &RescheduleEvent{
		repo:   repo,
		syncer: syncer,
		audit:  auditDisp,
		clock:  clk,
	}
}

// Execute reabre a negociação de um evento confirmado: volta para
// proposed com o novo horário e entrega à contraparte
// (pending_response). O horário antigo deixa de existir — lembretes
// caem na mesma transação e o espelho externo é retirado.
func (uc *RescheduleEvent) Execute(
	ctx context.Context,
	in RescheduleEventInput,
) (*models.SchedulableEvent, error) {

	if in.NewStart.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	ev, err := uc.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanTransact(ev, in.ActorID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	reopened, err := domain.Transition(ev, in.ActorID, domain.StatusProposed, now, in.Note)
	if err != nil {
		return nil, err
	}

	duration := in.NewDurationMinutes
	if duration <= 0 {
		duration = ev.DurationMinutes
	}
	domain.SetTimes(ev, in.NewStart.UTC(), duration)

	delivered, err := domain.Transition(ev, in.ActorID, domain.StatusPendingResponse, now, "")
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReopenEventAndDeleteJobs(ctx, ev, []models.SchedulingNote{*reopened, *delivered}); err != nil {
		return nil, err
	}

	go func() {
		results := uc.syncer.SyncCancelled(context.Background(), ev)
		calsync.LogResults("retract", ev.ID, results)
	}()

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ev.OrganizationID,
		UserID:         &in.ActorID,
		Action:         "event_rescheduled",
		Entity:         "schedulable_event",
		EntityID:       &ev.ID,
	})

	return ev, nil
}
