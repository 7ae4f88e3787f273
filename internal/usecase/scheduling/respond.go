package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coachly/call-scheduler/internal/audit"
	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
	"github.com/coachly/call-scheduler/internal/timezone"
)

// ======================================================
// RESPOND EVENT (accept / counter / decline)
// ======================================================

const (
	RespondAccept  = "accept"
	RespondCounter = "counter"
	RespondDecline = "decline"
)

type RespondEventInput struct {
	ActorID uint
	EventID uint

	Action string

	// Apenas para counter.
	NewStart           *time.Time
	NewDurationMinutes int

	Note string
}

type RespondEvent struct {
	getProfile *GetProfile
	repo       domain.Repository
	claimer    Claimer
	planner    ReminderPlanner
	syncer     Syncer
	audit      *audit.Dispatcher
	clock      clock.Clock
}

func NewRespondEvent(
	repo domain.Repository,
	claimer Claimer,
	planner ReminderPlanner,
	syncer Syncer,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
) *RespondEvent {
	return &RespondEvent{
		getProfile: NewGetProfile(repo),
		repo:       repo,
		claimer:    claimer,
		planner:    planner,
		syncer:     syncer,
		audit:      auditDisp,
		clock:      clk,
	}
}

// Execute re-valida contra o estado atual: resposta atrasada a um
// evento que já mudou de estado falha com invalid_transition em vez
// de sobrescrever.
func (uc *RespondEvent) Execute(
	ctx context.Context,
	in RespondEventInput,
) (*models.SchedulableEvent, error) {

	ev, err := uc.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanTransact(ev, in.ActorID); err != nil {
		return nil, err
	}

	switch in.Action {
	case RespondAccept:
		return uc.accept(ctx, ev, in)
	case RespondCounter:
		return uc.counter(ctx, ev, in)
	case RespondDecline:
		return uc.decline(ctx, ev, in)
	default:
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
}

// --------------------------------------------------
// ACCEPT → confirmação
// --------------------------------------------------

func (uc *RespondEvent) accept(
	ctx context.Context,
	ev *models.SchedulableEvent,
	in RespondEventInput,
) (*models.SchedulableEvent, error) {

	now := uc.clock.Now()

	profile, err := uc.getProfile.Execute(ctx, ev.HostUserID)
	if err != nil {
		return nil, err
	}

	// antecedência mínima; o próprio coach é isento
	if in.ActorID != ev.HostUserID && profile.MinimumNoticeMinutes > 0 {
		minStart := now.Add(time.Duration(profile.MinimumNoticeMinutes) * time.Minute)
		if ev.StartDateTime.Before(minStart) {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
	}

	if err := uc.assertRangeBookable(ctx, ev, profile); err != nil {
		return nil, err
	}

	note, err := domain.Transition(ev, in.ActorID, domain.StatusConfirmed, now, in.Note)
	if err != nil {
		return nil, err
	}

	jobs := uc.planner.BuildJobs(ev)
	token := &models.BookingToken{
		ID:                uuid.NewString(),
		EventID:           ev.ID,
		ExpiresAt:         ev.EndDateTime,
		AllowCancellation: true,
		AllowReschedule:   true,
	}

	// claim ANTES de persistir: quem perde a corrida sai com
	// slot_conflict e o evento fica no estado anterior
	if err := uc.claimer.Confirm(ctx, ev, note, jobs, token); err != nil {
		return nil, err
	}

	go func() {
		results := uc.syncer.SyncConfirmed(context.Background(), ev)
		calsync.LogResults("push", ev.ID, results)
	}()

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ev.OrganizationID,
		UserID:         &in.ActorID,
		Action:         "event_confirmed",
		Entity:         "schedulable_event",
		EntityID:       &ev.ID,
	})

	return ev, nil
}

// assertRangeBookable aplica o guard (a) da confirmação: o horário
// precisa caber numa janela livre considerando bloqueios e outros
// eventos CONFIRMADOS do coach. Negociações paralelas em aberto não
// vetam — a primeira confirmação vence e a outra morre no claim.
func (uc *RespondEvent) assertRangeBookable(
	ctx context.Context,
	ev *models.SchedulableEvent,
	profile *models.AvailabilityProfile,
) error {

	rangeStart := ev.StartDateTime.AddDate(0, 0, -1)
	rangeEnd := ev.EndDateTime.AddDate(0, 0, 1)

	blocked, err := uc.repo.ListBlockedSlots(ctx, profile.ID, rangeStart, rangeEnd)
	if err != nil {
		return err
	}

	holding, err := uc.repo.ListHoldingEventsForCoach(ctx, ev.HostUserID, rangeStart, rangeEnd)
	if err != nil {
		return err
	}

	var confirmed []models.SchedulableEvent
	for _, other := range holding {
		if other.ID == ev.ID {
			continue
		}
		if domain.Status(other.SchedulingStatus) == domain.StatusConfirmed {
			confirmed = append(confirmed, other)
		}
	}

	free := domain.RangeFree(domain.ResolveInput{
		Windows:  profile.Windows,
		Location: timezone.Location(profile.Timezone),
		Blocked:  blocked,
		Busy:     confirmed,
	}, ev.StartDateTime, ev.EndDateTime)

	if !free {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	return nil
}

// --------------------------------------------------
// COUNTER → nova rodada de negociação
// --------------------------------------------------

func (uc *RespondEvent) counter(
	ctx context.Context,
	ev *models.SchedulableEvent,
	in RespondEventInput,
) (*models.SchedulableEvent, error) {

	if in.NewStart == nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	duration := in.NewDurationMinutes
	if duration <= 0 {
		duration = ev.DurationMinutes
	}

	note, err := domain.Transition(ev, in.ActorID, domain.StatusCounterProposed, uc.clock.Now(), in.Note)
	if err != nil {
		return nil, err
	}

	domain.SetTimes(ev, in.NewStart.UTC(), duration)

	if err := uc.repo.SaveTransition(ctx, ev, note); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ev.OrganizationID,
		UserID:         &in.ActorID,
		Action:         "event_counter_proposed",
		Entity:         "schedulable_event",
		EntityID:       &ev.ID,
	})

	return ev, nil
}

// --------------------------------------------------
// DECLINE → cancelamento
// --------------------------------------------------

func (uc *RespondEvent) decline(
	ctx context.Context,
	ev *models.SchedulableEvent,
	in RespondEventInput,
) (*models.SchedulableEvent, error) {

	note, changed, err := domain.Cancel(ev, in.ActorID, uc.clock.Now(), in.Note)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ev, nil
	}

	if err := uc.repo.CancelEventAndDeleteJobs(ctx, ev, note); err != nil {
		return nil, err
	}

	go func() {
		results := uc.syncer.SyncCancelled(context.Background(), ev)
		calsync.LogResults("retract", ev.ID, results)
	}()

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ev.OrganizationID,
		UserID:         &in.ActorID,
		Action:         "event_declined",
		Entity:         "schedulable_event",
		EntityID:       &ev.ID,
	})

	return ev, nil
}
