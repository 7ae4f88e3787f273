package scheduling

import (
	"context"
	"time"

	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// BLOCKED SLOTS
// ======================================================

type AddBlockedSlotInput struct {
	CoachID uint
	Start   time.Time
	End     time.Time
	Reason  string
}

type AddBlockedSlot struct {
	getProfile *GetProfile
	repo       domain.Repository
}

func NewAddBlockedSlot(repo domain.Repository) *AddBlockedSlot {
	return &AddBlockedSlot{
		getProfile: NewGetProfile(repo),
		repo:       repo,
	}
}

func (uc *AddBlockedSlot) Execute(
	ctx context.Context,
	in AddBlockedSlotInput,
) (*models.BlockedSlot, error) {

	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	profile, err := uc.getProfile.Execute(ctx, in.CoachID)
	if err != nil {
		return nil, err
	}

	block := &models.BlockedSlot{
		ProfileID: profile.ID,
		StartTime: in.Start.UTC(),
		EndTime:   in.End.UTC(),
		Reason:    in.Reason,
	}

	if err := uc.repo.AddBlockedSlot(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

type RemoveBlockedSlot struct {
	getProfile *GetProfile
	repo       domain.Repository
}

func NewRemoveBlockedSlot(repo domain.Repository) *RemoveBlockedSlot {
	return &RemoveBlockedSlot{
		getProfile: NewGetProfile(repo),
		repo:       repo,
	}
}

// Execute é idempotente: remover id inexistente é sucesso.
func (uc *RemoveBlockedSlot) Execute(
	ctx context.Context,
	coachID uint,
	blockID uint,
) error {

	profile, err := uc.getProfile.Execute(ctx, coachID)
	if err != nil {
		return err
	}

	return uc.repo.RemoveBlockedSlot(ctx, profile.ID, blockID)
}
