package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/models"
)

// fakeRepo é um repositório em memória com a mesma semântica
// transacional do gorm: o claim de confirmação re-checa conflito
// sob o mutex, como a transação FOR UPDATE faz no Postgres.
type fakeRepo struct {
	mu sync.Mutex

	users    map[uint]*models.User
	orgs     map[uint]*models.Organization
	profiles map[uint]*models.AvailabilityProfile
	blocked  []models.BlockedSlot
	events   map[uint]*models.SchedulableEvent
	notes    map[uint][]models.SchedulingNote
	jobs     []models.ReminderJob
	tokens   map[string]*models.BookingToken

	nextEventID   uint
	nextJobID     uint
	nextBlockID   uint
	nextProfileID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    map[uint]*models.User{},
		orgs:     map[uint]*models.Organization{},
		profiles: map[uint]*models.AvailabilityProfile{},
		events:   map[uint]*models.SchedulableEvent{},
		notes:    map[uint][]models.SchedulingNote{},
		tokens:   map[string]*models.BookingToken{},
	}
}

func copyEvent(ev *models.SchedulableEvent) *models.SchedulableEvent {
	cp := *ev
	cp.Attendees = append([]models.EventAttendee(nil), ev.Attendees...)
	cp.Notes = append([]models.SchedulingNote(nil), ev.Notes...)
	return &cp
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// -------- User / Organization --------

func (r *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetOrganizationByID(_ context.Context, id uint) (*models.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orgs[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	cp := *o
	return &cp, nil
}

// -------- Availability Profile --------

func (r *fakeRepo) GetProfileByCoach(_ context.Context, coachID uint) (*models.AvailabilityProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[coachID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	cp := *p
	cp.Windows = append([]models.AvailabilityWindow(nil), p.Windows...)
	return &cp, nil
}

func (r *fakeRepo) CreateProfile(_ context.Context, profile *models.AvailabilityProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextProfileID++
	profile.ID = r.nextProfileID
	cp := *profile
	cp.Windows = append([]models.AvailabilityWindow(nil), profile.Windows...)
	r.profiles[profile.CoachID] = &cp
	return nil
}

func (r *fakeRepo) ReplaceProfileWindows(
	_ context.Context,
	profile *models.AvailabilityProfile,
	windows []models.AvailabilityWindow,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	cp.Windows = append([]models.AvailabilityWindow(nil), windows...)
	r.profiles[profile.CoachID] = &cp
	return nil
}

// -------- Blocked Slots --------

func (r *fakeRepo) ListBlockedSlots(
	_ context.Context,
	profileID uint,
	start, end time.Time,
) ([]models.BlockedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BlockedSlot
	for _, b := range r.blocked {
		if b.ProfileID == profileID && overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) AddBlockedSlot(_ context.Context, block *models.BlockedSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextBlockID++
	block.ID = r.nextBlockID
	r.blocked = append(r.blocked, *block)
	return nil
}

func (r *fakeRepo) RemoveBlockedSlot(_ context.Context, profileID, blockID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.blocked[:0]
	for _, b := range r.blocked {
		if !(b.ProfileID == profileID && b.ID == blockID) {
			kept = append(kept, b)
		}
	}
	r.blocked = kept
	return nil
}

// -------- Events --------

func (r *fakeRepo) CreateEvent(
	_ context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextEventID++
	ev.ID = r.nextEventID
	for i := range ev.Attendees {
		ev.Attendees[i].EventID = ev.ID
	}
	note.EventID = ev.ID
	r.events[ev.ID] = copyEvent(ev)
	r.notes[ev.ID] = append(r.notes[ev.ID], *note)
	return nil
}

func (r *fakeRepo) GetEvent(_ context.Context, id uint) (*models.SchedulableEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return copyEvent(ev), nil
}

func (r *fakeRepo) ListEventsForUser(
	_ context.Context,
	userID uint,
	start, end time.Time,
) ([]models.SchedulableEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SchedulableEvent
	for _, ev := range r.events {
		party := ev.HostUserID == userID
		for _, att := range ev.Attendees {
			if att.UserID == userID {
				party = true
			}
		}
		if party && overlaps(ev.StartDateTime, ev.EndDateTime, start, end) {
			out = append(out, *copyEvent(ev))
		}
	}
	return out, nil
}

func (r *fakeRepo) ListHoldingEventsForCoach(
	_ context.Context,
	coachID uint,
	start, end time.Time,
) ([]models.SchedulableEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SchedulableEvent
	for _, ev := range r.events {
		if ev.HostUserID != coachID {
			continue
		}
		if ev.SchedulingStatus == "cancelled" {
			continue
		}
		if overlaps(ev.StartDateTime, ev.EndDateTime, start, end) {
			out = append(out, *copyEvent(ev))
		}
	}
	return out, nil
}

func (r *fakeRepo) SaveTransition(
	_ context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.ID] = copyEvent(ev)
	r.notes[ev.ID] = append(r.notes[ev.ID], *note)
	return nil
}

func (r *fakeRepo) ConfirmEventClaimed(
	_ context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
	jobs []models.ReminderJob,
	token *models.BookingToken,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// re-checagem sob lock: só eventos confirmados vetam
	for _, other := range r.events {
		if other.ID == ev.ID || other.HostUserID != ev.HostUserID {
			continue
		}
		if other.SchedulingStatus != "confirmed" {
			continue
		}
		if overlaps(other.StartDateTime, other.EndDateTime, ev.StartDateTime, ev.EndDateTime) {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}
	}

	r.events[ev.ID] = copyEvent(ev)
	r.notes[ev.ID] = append(r.notes[ev.ID], *note)
	for _, j := range jobs {
		r.nextJobID++
		j.ID = r.nextJobID
		r.jobs = append(r.jobs, j)
	}
	if token != nil {
		cp := *token
		r.tokens[token.ID] = &cp
	}
	return nil
}

func (r *fakeRepo) CancelEventAndDeleteJobs(
	_ context.Context,
	ev *models.SchedulableEvent,
	note *models.SchedulingNote,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.ID] = copyEvent(ev)
	r.notes[ev.ID] = append(r.notes[ev.ID], *note)
	r.deletePendingLocked(ev.ID)
	return nil
}

func (r *fakeRepo) ReopenEventAndDeleteJobs(
	_ context.Context,
	ev *models.SchedulableEvent,
	notes []models.SchedulingNote,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.ID] = copyEvent(ev)
	r.notes[ev.ID] = append(r.notes[ev.ID], notes...)
	r.deletePendingLocked(ev.ID)
	return nil
}

// -------- Reminder Jobs --------

func (r *fakeRepo) deletePendingLocked(eventID uint) int64 {
	var removed int64
	kept := r.jobs[:0]
	for _, j := range r.jobs {
		if j.EventID == eventID && !j.Executed {
			removed++
			continue
		}
		kept = append(kept, j)
	}
	r.jobs = kept
	return removed
}

func (r *fakeRepo) ListReminderJobs(_ context.Context, eventID uint) ([]models.ReminderJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ReminderJob
	for _, j := range r.jobs {
		if j.EventID == eventID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateReminderJobs(_ context.Context, jobs []models.ReminderJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range jobs {
		r.nextJobID++
		j.ID = r.nextJobID
		r.jobs = append(r.jobs, j)
	}
	return nil
}

func (r *fakeRepo) DeletePendingReminderJobs(_ context.Context, eventID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletePendingLocked(eventID), nil
}

func (r *fakeRepo) ListDueReminderJobs(
	_ context.Context,
	now time.Time,
	limit int,
) ([]models.ReminderJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ReminderJob
	for _, j := range r.jobs {
		if !j.Executed && !j.RunAt.After(now) {
			out = append(out, j)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkReminderJobExecuted(_ context.Context, jobID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == jobID {
			r.jobs[i].Executed = true
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

// -------- Booking Tokens --------

func (r *fakeRepo) GetBookingToken(_ context.Context, id string) (*models.BookingToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	cp := *tok
	return &cp, nil
}

func (r *fakeRepo) CreateBookingToken(_ context.Context, token *models.BookingToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.ID] = &cp
	return nil
}
