package scheduling

import (
	"context"
	"sort"
	"time"

	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
	"github.com/coachly/call-scheduler/internal/timezone"
)

// ======================================================
// UPDATE PROFILE
// ======================================================

type WindowInput struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Merge parcial: campo nil mantém o valor atual. Last-writer-wins
// no documento do perfil.
type UpdateProfileInput struct {
	CoachID uint

	Timezone                   *string
	MinimumNoticeMinutes       *int
	DefaultSlotDurationMinutes *int
	Windows                    *[]WindowInput
}

type UpdateProfile struct {
	getProfile *GetProfile
	repo       domain.Repository
}

func NewUpdateProfile(repo domain.Repository) *UpdateProfile {
	return &UpdateProfile{
		getProfile: NewGetProfile(repo),
		repo:       repo,
	}
}

func (uc *UpdateProfile) Execute(
	ctx context.Context,
	in UpdateProfileInput,
) (*models.AvailabilityProfile, error) {

	profile, err := uc.getProfile.Execute(ctx, in.CoachID)
	if err != nil {
		return nil, err
	}

	if in.Timezone != nil {
		if !timezone.IsValid(*in.Timezone) {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		profile.Timezone = *in.Timezone
	}
	if in.MinimumNoticeMinutes != nil {
		if *in.MinimumNoticeMinutes < 0 {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		profile.MinimumNoticeMinutes = *in.MinimumNoticeMinutes
	}
	if in.DefaultSlotDurationMinutes != nil {
		if *in.DefaultSlotDurationMinutes <= 0 {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		profile.DefaultSlotDurationMinutes = *in.DefaultSlotDurationMinutes
	}

	windows := profile.Windows
	if in.Windows != nil {
		windows, err = validateWindows(*in.Windows, profile.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.repo.ReplaceProfileWindows(ctx, profile, windows); err != nil {
		return nil, err
	}

	profile.Windows = windows
	return profile, nil
}

// validateWindows rejeita faixa invertida, formato inválido e
// sobreposição dentro do mesmo dia da semana.
func validateWindows(inputs []WindowInput, profileID uint) ([]models.AvailabilityWindow, error) {
	type span struct {
		start time.Time
		end   time.Time
	}
	byWeekday := map[int][]span{}

	windows := make([]models.AvailabilityWindow, 0, len(inputs))
	for _, w := range inputs {
		if w.Weekday < 0 || w.Weekday > 6 {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}

		start, err1 := time.Parse("15:04", w.StartTime)
		end, err2 := time.Parse("15:04", w.EndTime)
		if err1 != nil || err2 != nil || !start.Before(end) {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}

		byWeekday[w.Weekday] = append(byWeekday[w.Weekday], span{start: start, end: end})
		windows = append(windows, models.AvailabilityWindow{
			ProfileID: profileID,
			Weekday:   w.Weekday,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	for _, spans := range byWeekday {
		sort.Slice(spans, func(i, j int) bool {
			return spans[i].start.Before(spans[j].start)
		})
		for i := 1; i < len(spans); i++ {
			if spans[i].start.Before(spans[i-1].end) {
				return nil, httperr.ErrBusiness(httperr.CodeValidation)
			}
		}
	}

	return windows, nil
}
