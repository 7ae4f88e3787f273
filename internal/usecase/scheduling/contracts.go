package scheduling

import (
	"context"

	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/models"
)

// Claimer serializa a disputa por um horário do coach. A
// implementação real é o coordenador Redis + CAS transacional.
type Claimer interface {
	Confirm(
		ctx context.Context,
		ev *models.SchedulableEvent,
		note *models.SchedulingNote,
		jobs []models.ReminderJob,
		token *models.BookingToken,
	) error
}

// Syncer espelha o evento nos calendários externos; best-effort,
// nunca no caminho crítico da reserva.
type Syncer interface {
	SyncConfirmed(ctx context.Context, ev *models.SchedulableEvent) []calsync.Result
	SyncCancelled(ctx context.Context, ev *models.SchedulableEvent) []calsync.Result
}

// ReminderPlanner deriva os lembretes do horário confirmado.
type ReminderPlanner interface {
	BuildJobs(ev *models.SchedulableEvent) []models.ReminderJob
}
