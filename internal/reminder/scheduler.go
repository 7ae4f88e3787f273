package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/coachly/call-scheduler/internal/models"
)

// ======================================================
// Reminder Job Scheduler
// ======================================================
//
// Jobs são linhas com hora de vencimento; quem dispara é um gatilho
// externo que varre os vencidos (endpoint interno de sweep). O
// conjunto de jobs de um evento confirmado é determinístico a
// partir dos offsets configurados.

type Store interface {
	ListDueReminderJobs(
		ctx context.Context,
		now time.Time,
		limit int,
	) ([]models.ReminderJob, error)

	MarkReminderJobExecuted(
		ctx context.Context,
		jobID uint,
	) error

	GetEvent(
		ctx context.Context,
		id uint,
	) (*models.SchedulableEvent, error)
}

type Scheduler struct {
	offsetsMinutes []int
}

func NewScheduler(offsetsMinutes []int) *Scheduler {
	if len(offsetsMinutes) == 0 {
		offsetsMinutes = []int{1440, 10}
	}
	return &Scheduler{offsetsMinutes: offsetsMinutes}
}

// BuildJobs deriva os lembretes do horário confirmado. Quem grava
// (junto com a transição para confirmed) é o repositório, na mesma
// transação do claim.
func (s *Scheduler) BuildJobs(ev *models.SchedulableEvent) []models.ReminderJob {
	jobs := make([]models.ReminderJob, 0, len(s.offsetsMinutes))
	for _, offset := range s.offsetsMinutes {
		jobs = append(jobs, models.ReminderJob{
			EventID:       ev.ID,
			RunAt:         ev.StartDateTime.Add(-time.Duration(offset) * time.Minute),
			Kind:          models.ReminderKindUpcoming,
			OffsetMinutes: offset,
		})
	}
	return jobs
}

// Notifier entrega o lembrete em si (push, e-mail...). Fora deste
// núcleo; a implementação padrão só loga.
type Notifier interface {
	Notify(ctx context.Context, ev *models.SchedulableEvent, job models.ReminderJob) error
}

type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev *models.SchedulableEvent, job models.ReminderJob) error {
	log.Printf("reminder: event=%d kind=%s offset=%dm start=%s",
		ev.ID, job.Kind, job.OffsetMinutes, ev.StartDateTime.Format(time.RFC3339))
	return nil
}

// Sweep executa os jobs vencidos e não executados: marca como
// executado e notifica. Erros são isolados por job.
func (s *Scheduler) Sweep(
	ctx context.Context,
	store Store,
	notifier Notifier,
	now time.Time,
	limit int,
) (int, error) {

	if limit <= 0 {
		limit = 100
	}

	due, err := store.ListDueReminderJobs(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("listing due jobs: %w", err)
	}

	fired := 0
	for _, job := range due {
		ev, err := store.GetEvent(ctx, job.EventID)
		if err != nil {
			log.Printf("reminder: job=%d event=%d lookup failed: %v", job.ID, job.EventID, err)
			continue
		}

		if err := store.MarkReminderJobExecuted(ctx, job.ID); err != nil {
			log.Printf("reminder: job=%d mark executed failed: %v", job.ID, err)
			continue
		}

		if err := notifier.Notify(ctx, ev, job); err != nil {
			log.Printf("reminder: job=%d notify failed: %v", job.ID, err)
		}
		fired++
	}

	return fired, nil
}
