package scheduling

import (
	"time"

	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// CanTransact garante que só host ou participante mexe no evento.
func CanTransact(ev *models.SchedulableEvent, actorID uint) error {
	if ev.HostUserID == actorID {
		return nil
	}
	for _, att := range ev.Attendees {
		if att.UserID == actorID {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeUnauthorized)
}

// Transition aplica a mudança de status e devolve a entrada de log
// correspondente. O log é append-only; quem persiste é o repositório.
func Transition(
	ev *models.SchedulableEvent,
	actorID uint,
	to Status,
	now time.Time,
	note string,
) (*models.SchedulingNote, error) {

	from := Status(ev.SchedulingStatus)
	if err := CanTransition(from, to); err != nil {
		return nil, err
	}

	ev.SchedulingStatus = string(to)
	if to == StatusCancelled {
		ev.CancelledAt = &now
	}

	return &models.SchedulingNote{
		EventID:    ev.ID,
		OccurredAt: now,
		ActorID:    actorID,
		FromStatus: string(from),
		ToStatus:   string(to),
		Note:       note,
	}, nil
}

// Cancel é idempotente: cancelar um evento já cancelado é no-op
// de sucesso, sem nova entrada de log.
func Cancel(
	ev *models.SchedulableEvent,
	actorID uint,
	now time.Time,
	reason string,
) (*models.SchedulingNote, bool, error) {

	if Status(ev.SchedulingStatus) == StatusCancelled {
		return nil, false, nil
	}

	note, err := Transition(ev, actorID, StatusCancelled, now, reason)
	if err != nil {
		return nil, false, err
	}
	return note, true, nil
}

// SetTimes mantém o invariante end = start + duration.
func SetTimes(ev *models.SchedulableEvent, start time.Time, durationMinutes int) {
	ev.StartDateTime = start
	ev.DurationMinutes = durationMinutes
	ev.EndDateTime = start.Add(time.Duration(durationMinutes) * time.Minute)
}

// IsCompleted é derivado: confirmado e já passou do fim.
// Nunca vira status persistido.
func IsCompleted(ev *models.SchedulableEvent, now time.Time) bool {
	return Status(ev.SchedulingStatus) == StatusConfirmed && ev.EndDateTime.Before(now)
}
