package scheduling

import (
	"context"
	"time"

	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/timezone"
)

// ======================================================
// GET AVAILABILITY
// ======================================================

type GetAvailabilityInput struct {
	CoachID uint
	ActorID uint

	// Intervalo de datas inclusivo.
	From time.Time
	To   time.Time

	// 0 usa a duração padrão do perfil.
	DurationMinutes int
}

type AvailabilityOutput struct {
	CoachID  uint          `json:"coach_id"`
	Timezone string        `json:"timezone"`
	Slots    []domain.Slot `json:"slots"`
}

type GetAvailability struct {
	getProfile *GetProfile
	repo       domain.Repository
	clock      clock.Clock
}

func NewGetAvailability(repo domain.Repository, clk clock.Clock) *GetAvailability {
	return &GetAvailability{
		getProfile: NewGetProfile(repo),
		repo:       repo,
		clock:      clk,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) (*AvailabilityOutput, error) {

	if in.From.After(in.To) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	profile, err := uc.getProfile.Execute(ctx, in.CoachID)
	if err != nil {
		return nil, err
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = profile.DefaultSlotDurationMinutes
	}

	loc := timezone.Location(profile.Timezone)

	// margem de um dia dos dois lados cobre janelas locais que
	// cruzam o dia UTC
	rangeStart := in.From.AddDate(0, 0, -1)
	rangeEnd := in.To.AddDate(0, 0, 2)

	blocked, err := uc.repo.ListBlockedSlots(ctx, profile.ID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	busy, err := uc.repo.ListHoldingEventsForCoach(ctx, in.CoachID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	slots := domain.Resolve(domain.ResolveInput{
		Windows:              profile.Windows,
		Location:             loc,
		Blocked:              blocked,
		Busy:                 busy,
		From:                 in.From,
		To:                   in.To,
		DurationMinutes:      duration,
		MinimumNoticeMinutes: profile.MinimumNoticeMinutes,
		Now:                  uc.clock.Now(),
		CoachInitiated:       in.ActorID == in.CoachID,
	})

	return &AvailabilityOutput{
		CoachID:  in.CoachID,
		Timezone: profile.Timezone,
		Slots:    slots,
	}, nil
}
