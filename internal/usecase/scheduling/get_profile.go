package scheduling

import (
	"context"

	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
	"github.com/coachly/call-scheduler/internal/timezone"
)

// ======================================================
// GET PROFILE
// ======================================================

// Grade padrão de primeiro acesso: horário comercial seg–sex,
// no timezone detectado do coach.
var defaultWindows = []models.AvailabilityWindow{
	{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
	{Weekday: 2, StartTime: "09:00", EndTime: "17:00"},
	{Weekday: 3, StartTime: "09:00", EndTime: "17:00"},
	{Weekday: 4, StartTime: "09:00", EndTime: "17:00"},
	{Weekday: 5, StartTime: "09:00", EndTime: "17:00"},
}

type GetProfile struct {
	repo domain.Repository
}

func NewGetProfile(repo domain.Repository) *GetProfile {
	return &GetProfile{repo: repo}
}

// Execute nunca falha para um coach válido: no primeiro acesso o
// perfil padrão é criado na hora.
func (uc *GetProfile) Execute(
	ctx context.Context,
	coachID uint,
) (*models.AvailabilityProfile, error) {

	profile, err := uc.repo.GetProfileByCoach(ctx, coachID)
	if err == nil {
		return profile, nil
	}
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		return nil, err
	}

	coach, err := uc.repo.GetUser(ctx, coachID)
	if err != nil {
		return nil, err
	}

	tz := coach.Timezone
	if !timezone.IsValid(tz) {
		tz = timezone.DefaultTimezone
	}

	windows := make([]models.AvailabilityWindow, len(defaultWindows))
	copy(windows, defaultWindows)

	created := &models.AvailabilityProfile{
		CoachID:                    coachID,
		Timezone:                   tz,
		MinimumNoticeMinutes:       60,
		DefaultSlotDurationMinutes: 30,
		Windows:                    windows,
	}

	if err := uc.repo.CreateProfile(ctx, created); err != nil {
		return nil, err
	}

	return created, nil
}
