package scheduling

import (
	"context"
	"time"

	"github.com/coachly/call-scheduler/internal/models"
)

type Repository interface {
	// -------- User / Organization --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetOrganizationByID(
		ctx context.Context,
		id uint,
	) (*models.Organization, error)

	// -------- Availability Profile --------
	GetProfileByCoach(
		ctx context.Context,
		coachID uint,
	) (*models.AvailabilityProfile, error)

	CreateProfile(
		ctx context.Context,
		profile *models.AvailabilityProfile,
	) error

	// ReplaceProfileWindows troca a grade semanal inteira numa
	// transação (last-writer-wins no perfil).
	ReplaceProfileWindows(
		ctx context.Context,
		profile *models.AvailabilityProfile,
		windows []models.AvailabilityWindow,
	) error

	// -------- Blocked Slots --------
	ListBlockedSlots(
		ctx context.Context,
		profileID uint,
		start time.Time,
		end time.Time,
	) ([]models.BlockedSlot, error)

	AddBlockedSlot(
		ctx context.Context,
		block *models.BlockedSlot,
	) error

	// Remover id inexistente é no-op de sucesso.
	RemoveBlockedSlot(
		ctx context.Context,
		profileID uint,
		blockID uint,
	) error

	// -------- Events --------
	CreateEvent(
		ctx context.Context,
		ev *models.SchedulableEvent,
		note *models.SchedulingNote,
	) error

	GetEvent(
		ctx context.Context,
		id uint,
	) (*models.SchedulableEvent, error)

	ListEventsForUser(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.SchedulableEvent, error)

	// Eventos que seguram horário do coach no período (negociação
	// em andamento + confirmados; cancelados não).
	ListHoldingEventsForCoach(
		ctx context.Context,
		coachID uint,
		start time.Time,
		end time.Time,
	) ([]models.SchedulableEvent, error)

	// SaveTransition persiste status + entrada de log na mesma
	// transação.
	SaveTransition(
		ctx context.Context,
		ev *models.SchedulableEvent,
		note *models.SchedulingNote,
	) error

	// ConfirmEventClaimed é o claim do §coordenador: numa única
	// transação re-lê eventos sobrepostos com lock, falha com
	// slot_conflict se alguém chegou antes, e só então grava a
	// confirmação junto com lembretes e token de acesso.
	ConfirmEventClaimed(
		ctx context.Context,
		ev *models.SchedulableEvent,
		note *models.SchedulingNote,
		jobs []models.ReminderJob,
		token *models.BookingToken,
	) error

	// CancelEventAndDeleteJobs grava o cancelamento e apaga os
	// lembretes pendentes atomicamente.
	CancelEventAndDeleteJobs(
		ctx context.Context,
		ev *models.SchedulableEvent,
		note *models.SchedulingNote,
	) error

	// ReopenEventAndDeleteJobs persiste a reabertura de negociação
	// (remarcação de evento confirmado) junto com a remoção dos
	// lembretes do horário antigo.
	ReopenEventAndDeleteJobs(
		ctx context.Context,
		ev *models.SchedulableEvent,
		notes []models.SchedulingNote,
	) error

	// -------- Reminder Jobs --------
	ListReminderJobs(
		ctx context.Context,
		eventID uint,
	) ([]models.ReminderJob, error)

	CreateReminderJobs(
		ctx context.Context,
		jobs []models.ReminderJob,
	) error

	DeletePendingReminderJobs(
		ctx context.Context,
		eventID uint,
	) (int64, error)

	ListDueReminderJobs(
		ctx context.Context,
		now time.Time,
		limit int,
	) ([]models.ReminderJob, error)

	MarkReminderJobExecuted(
		ctx context.Context,
		jobID uint,
	) error

	// -------- Booking Tokens --------
	GetBookingToken(
		ctx context.Context,
		id string,
	) (*models.BookingToken, error)

	CreateBookingToken(
		ctx context.Context,
		token *models.BookingToken,
	) error
}
