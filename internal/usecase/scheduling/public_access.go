package scheduling

import (
	"context"
	"time"

	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// PUBLIC TOKEN ACCESS
// ======================================================
//
// O BookingToken é uma capability: quem tem o id (não adivinhável)
// enxerga/cancela/remarca UM evento específico, sem login. Expiração
// é verificada em todo acesso e nunca liberada silenciosamente.

type BookingSummary struct {
	EventID          uint      `json:"event_id"`
	Title            string    `json:"title"`
	SchedulingStatus string    `json:"scheduling_status"`
	StartDateTime    time.Time `json:"start_date_time"`
	EndDateTime      time.Time `json:"end_date_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	MeetingProvider  string    `json:"meeting_provider"`

	CoachName        string `json:"coach_name"`
	OrganizationName string `json:"organization_name"`

	AllowCancellation bool `json:"allow_cancellation"`
	AllowReschedule   bool `json:"allow_reschedule"`
}

type PublicBookingAccess struct {
	repo       domain.Repository
	cancel     *CancelEvent
	reschedule *RescheduleEvent
	clock      clock.Clock
}

func NewPublicBookingAccess(
	repo domain.Repository,
	cancel *CancelEvent,
	reschedule *RescheduleEvent,
	clk clock.Clock,
) *PublicBookingAccess {
	return &PublicBookingAccess{
		repo:       repo,
		cancel:     cancel,
		reschedule: reschedule,
		clock:      clk,
	}
}

// resolveToken valida existência e expiração. Token vencido rejeita
// com token_expired ("este link expirou").
func (uc *PublicBookingAccess) resolveToken(
	ctx context.Context,
	tokenID string,
) (*models.BookingToken, *models.SchedulableEvent, error) {

	token, err := uc.repo.GetBookingToken(ctx, tokenID)
	if err != nil {
		return nil, nil, err
	}

	if !uc.clock.Now().Before(token.ExpiresAt) {
		return nil, nil, httperr.ErrBusiness(httperr.CodeTokenExpired)
	}

	ev, err := uc.repo.GetEvent(ctx, token.EventID)
	if err != nil {
		return nil, nil, err
	}

	return token, ev, nil
}

func (uc *PublicBookingAccess) View(
	ctx context.Context,
	tokenID string,
) (*BookingSummary, error) {

	token, ev, err := uc.resolveToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	coach, err := uc.repo.GetUser(ctx, ev.HostUserID)
	if err != nil {
		return nil, err
	}
	org, err := uc.repo.GetOrganizationByID(ctx, ev.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &BookingSummary{
		EventID:           ev.ID,
		Title:             ev.Title,
		SchedulingStatus:  ev.SchedulingStatus,
		StartDateTime:     ev.StartDateTime,
		EndDateTime:       ev.EndDateTime,
		DurationMinutes:   ev.DurationMinutes,
		MeetingProvider:   ev.MeetingProvider,
		CoachName:         coach.Name,
		OrganizationName:  org.Name,
		AllowCancellation: token.AllowCancellation,
		AllowReschedule:   token.AllowReschedule,
	}, nil
}

func (uc *PublicBookingAccess) Cancel(
	ctx context.Context,
	tokenID string,
	reason string,
) (*models.SchedulableEvent, error) {

	token, ev, err := uc.resolveToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !token.AllowCancellation {
		return nil, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}

	actor, err := externalActor(ev)
	if err != nil {
		return nil, err
	}

	return uc.cancel.Execute(ctx, CancelEventInput{
		ActorID: actor,
		EventID: ev.ID,
		Reason:  reason,
	})
}

func (uc *PublicBookingAccess) Reschedule(
	ctx context.Context,
	tokenID string,
	newStart time.Time,
	note string,
) (*models.SchedulableEvent, error) {

	token, ev, err := uc.resolveToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !token.AllowReschedule {
		return nil, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}

	actor, err := externalActor(ev)
	if err != nil {
		return nil, err
	}

	return uc.reschedule.Execute(ctx, RescheduleEventInput{
		ActorID:  actor,
		EventID:  ev.ID,
		NewStart: newStart,
		Note:     note,
	})
}

// externalActor é o participante em nome de quem o token age.
func externalActor(ev *models.SchedulableEvent) (uint, error) {
	if len(ev.Attendees) == 0 {
		return 0, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}
	return ev.Attendees[0].UserID, nil
}
