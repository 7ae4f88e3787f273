package scheduling

import (
	"context"
	"time"

	"github.com/coachly/call-scheduler/internal/audit"
	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// PROPOSE EVENT
// ======================================================

type ProposeEventInput struct {
	ActorID uint

	HostCoachID uint
	AttendeeIDs []uint

	Title           string
	Start           time.Time
	DurationMinutes int
	MeetingProvider string
	Note            string
}

type ProposeEvent struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock clock.Clock
}

func NewProposeEvent(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
) *ProposeEvent {
	return &ProposeEvent{
		repo:  repo,
		audit: auditDisp,
		clock: clk,
	}
}

// Execute cria o evento já entregue à contraparte: uma operação,
// status inicial pending_response, uma entrada de log.
func (uc *ProposeEvent) Execute(
	ctx context.Context,
	in ProposeEventInput,
) (*models.SchedulableEvent, error) {

	if len(in.AttendeeIDs) == 0 || in.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	// quem propõe precisa ser o coach ou um participante
	actorIsParty := in.ActorID == in.HostCoachID
	for _, id := range in.AttendeeIDs {
		if id == in.ActorID {
			actorIsParty = true
		}
	}
	if !actorIsParty {
		return nil, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}

	host, err := uc.repo.GetUser(ctx, in.HostCoachID)
	if err != nil {
		return nil, err
	}

	provider := in.MeetingProvider
	if provider == "" {
		provider = models.MeetingProviderNative
	}

	now := uc.clock.Now()

	ev := &models.SchedulableEvent{
		OrganizationID:   host.OrganizationID,
		HostUserID:       in.HostCoachID,
		Title:            in.Title,
		SchedulingStatus: string(domain.InitialStatus()),
		MeetingProvider:  provider,
	}
	domain.SetTimes(ev, in.Start.UTC(), in.DurationMinutes)

	for _, id := range in.AttendeeIDs {
		ev.Attendees = append(ev.Attendees, models.EventAttendee{UserID: id})
	}

	note := &models.SchedulingNote{
		OccurredAt: now,
		ActorID:    in.ActorID,
		FromStatus: string(domain.StatusProposed),
		ToStatus:   string(domain.InitialStatus()),
		Note:       in.Note,
	}

	if err := uc.repo.CreateEvent(ctx, ev, note); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ev.OrganizationID,
		UserID:         &in.ActorID,
		Action:         "event_proposed",
		Entity:         "schedulable_event",
		EntityID:       &ev.ID,
	})

	return ev, nil
}
