package scheduling

import (
	"context"
	"time"

	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// LIST EVENTS
// ======================================================

type ListEventsInput struct {
	UserID uint
	From   time.Time
	To     time.Time
}

type ListEvents struct {
	repo domain.Repository
}

func NewListEvents(repo domain.Repository) *ListEvents {
	return &ListEvents{repo: repo}
}

func (uc *ListEvents) Execute(
	ctx context.Context,
	in ListEventsInput,
) ([]models.SchedulableEvent, error) {

	if in.From.After(in.To) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	return uc.repo.ListEventsForUser(ctx, in.UserID, in.From, in.To)
}
