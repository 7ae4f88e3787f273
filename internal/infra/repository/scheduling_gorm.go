package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// User / Organization
// --------------------------------------------------

func (r *SchedulingGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *SchedulingGormRepository) GetOrganizationByID(
	ctx context.Context,
	id uint,
) (*models.Organization, error) {

	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &org, nil
}

// --------------------------------------------------
// Availability Profile
// --------------------------------------------------

func (r *SchedulingGormRepository) GetProfileByCoach(
	ctx context.Context,
	coachID uint,
) (*models.AvailabilityProfile, error) {

	var profile models.AvailabilityProfile
	if err := r.db.WithContext(ctx).
		Preload("Windows", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC, start_time ASC")
		}).
		Where("coach_id = ?", coachID).
		First(&profile).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &profile, nil
}

func (r *SchedulingGormRepository) CreateProfile(
	ctx context.Context,
	profile *models.AvailabilityProfile,
) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *SchedulingGormRepository) ReplaceProfileWindows(
	ctx context.Context,
	profile *models.AvailabilityProfile,
	windows []models.AvailabilityWindow,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		if err := tx.
			Where("profile_id = ?", profile.ID).
			Delete(&models.AvailabilityWindow{}).Error; err != nil {
			return err
		}

		if len(windows) == 0 {
			return nil
		}

		for i := range windows {
			windows[i].ID = 0
			windows[i].ProfileID = profile.ID
		}
		return tx.Create(&windows).Error
	})
}

// --------------------------------------------------
// Blocked Slots
// --------------------------------------------------

func (r *SchedulingGormRepository) ListBlockedSlots(
	ctx context.Context,
	profileID uint,
	start time.Time,
	end time.Time,
) ([]models.BlockedSlot, error) {

	var blocks []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where(
			"profile_id = ? AND start_time < ? AND end_time > ?",
			profileID, end, start,
		).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *SchedulingGormRepository) AddBlockedSlot(
	ctx context.Context,
	block *models.BlockedSlot,
) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *SchedulingGormRepository) RemoveBlockedSlot(
	ctx context.Context,
	profileID uint,
	blockID uint,
) error {
	// id inexistente → no-op de sucesso
	return r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", blockID, profileID).
		Delete(&models.BlockedSlot{}).Error
}

// --------------------------------------------------
// Events
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateEvent(
	ctx context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		note.EventID = ev.ID
		return tx.Create(note).Error
	})
}

func (r *SchedulingGormRepository) GetEvent(
	ctx context.Context,
	id uint,
) (*models.SchedulableEvent, error) {

	var ev models.SchedulableEvent
	if err := r.db.WithContext(ctx).
		Preload("Attendees").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC, id ASC")
		}).
		First(&ev, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &ev, nil
}

func (r *SchedulingGormRepository) ListEventsForUser(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.SchedulableEvent, error) {

	var events []models.SchedulableEvent
	if err := r.db.WithContext(ctx).
		Preload("Attendees").
		Joins("LEFT JOIN event_attendees ea ON ea.event_id = schedulable_events.id").
		Where(
			"(schedulable_events.host_user_id = ? OR ea.user_id = ?) AND schedulable_events.start_date_time >= ? AND schedulable_events.start_date_time < ?",
			userID, userID, start, end,
		).
		Group("schedulable_events.id").
		Order("schedulable_events.start_date_time ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *SchedulingGormRepository) ListHoldingEventsForCoach(
	ctx context.Context,
	coachID uint,
	start time.Time,
	end time.Time,
) ([]models.SchedulableEvent, error) {

	var events []models.SchedulableEvent
	if err := r.db.WithContext(ctx).
		Select("id", "host_user_id", "start_date_time", "end_date_time", "scheduling_status").
		Where(
			"host_user_id = ? AND scheduling_status IN ? AND start_date_time < ? AND end_date_time > ?",
			coachID, domain.HoldingStatusStrings(), end, start,
		).
		Order("start_date_time ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *SchedulingGormRepository) SaveTransition(
	ctx context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Attendees", "Notes").Save(ev).Error; err != nil {
			return err
		}
		return tx.Create(note).Error
	})
}

// --------------------------------------------------
// Claim de confirmação
// --------------------------------------------------

// ConfirmEventClaimed re-lê os confirmados sobrepostos com lock
// pessimista imediatamente antes de gravar — o compare-and-set que
// garante no máximo uma confirmação por janela de agenda do coach.
func (r *SchedulingGormRepository) ConfirmEventClaimed(
	ctx context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
	jobs []models.ReminderJob,
	token *models.BookingToken,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.SchedulableEvent{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"host_user_id = ? AND id <> ? AND scheduling_status = ? AND start_date_time < ? AND end_date_time > ?",
				ev.HostUserID,
				ev.ID,
				string(domain.StatusConfirmed),
				ev.EndDateTime,
				ev.StartDateTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}

		if err := tx.Omit("Attendees", "Notes").Save(ev).Error; err != nil {
			return err
		}
		if err := tx.Create(note).Error; err != nil {
			return err
		}

		if len(jobs) > 0 {
			if err := tx.Create(&jobs).Error; err != nil {
				return err
			}
		}
		if token != nil {
			if err := tx.Create(token).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SchedulingGormRepository) CancelEventAndDeleteJobs(
	ctx context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Attendees", "Notes").Save(ev).Error; err != nil {
			return err
		}
		if err := tx.Create(note).Error; err != nil {
			return err
		}

		// nunca pode sobrar job executável de evento cancelado
		return tx.
			Where("event_id = ? AND executed = ?", ev.ID, false).
			Delete(&models.ReminderJob{}).Error
	})
}

func (r *SchedulingGormRepository) ReopenEventAndDeleteJobs(
	ctx context.Context,
	ev *models.SchedulableEvent,
	notes []models.SchedulingNote,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Attendees", "Notes").Save(ev).Error; err != nil {
			return err
		}
		if len(notes) > 0 {
			if err := tx.Create(&notes).Error; err != nil {
				return err
			}
		}

		// o horário antigo deixou de existir; lembretes dele também
		return tx.
			Where("event_id = ? AND executed = ?", ev.ID, false).
			Delete(&models.ReminderJob{}).Error
	})
}

// --------------------------------------------------
// Reminder Jobs
// --------------------------------------------------

func (r *SchedulingGormRepository) ListReminderJobs(
	ctx context.Context,
	eventID uint,
) ([]models.ReminderJob, error) {

	var jobs []models.ReminderJob
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("run_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *SchedulingGormRepository) CreateReminderJobs(
	ctx context.Context,
	jobs []models.ReminderJob,
) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&jobs).Error
}

func (r *SchedulingGormRepository) DeletePendingReminderJobs(
	ctx context.Context,
	eventID uint,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("event_id = ? AND executed = ?", eventID, false).
		Delete(&models.ReminderJob{})
	return res.RowsAffected, res.Error
}

func (r *SchedulingGormRepository) ListDueReminderJobs(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.ReminderJob, error) {

	var jobs []models.ReminderJob
	if err := r.db.WithContext(ctx).
		Where("executed = ? AND run_at <= ?", false, now).
		Order("run_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *SchedulingGormRepository) MarkReminderJobExecuted(
	ctx context.Context,
	jobID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.ReminderJob{}).
		Where("id = ?", jobID).
		Update("executed", true).Error
}

// --------------------------------------------------
// Booking Tokens
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBookingToken(
	ctx context.Context,
	id string,
) (*models.BookingToken, error) {

	var token models.BookingToken
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&token).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &token, nil
}

func (r *SchedulingGormRepository) CreateBookingToken(
	ctx context.Context,
	token *models.BookingToken,
) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
