package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/call-scheduler/internal/audit"
	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/clock"
	domain "github.com/coachly/call-scheduler/internal/domain/scheduling"
	"github.com/coachly/call-scheduler/internal/httperr"
	"github.com/coachly/call-scheduler/internal/infra/claim"
	"github.com/coachly/call-scheduler/internal/models"
	"github.com/coachly/call-scheduler/internal/reminder"
)

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// FIXTURE
// ======================================================

const (
	coachID  = uint(1)
	clientID = uint(2)
)

// Segunda-feira, 2 de março de 2026, 08:00 UTC.
var mondayMorning = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fakeSyncer struct {
	mu        sync.Mutex
	confirmed []uint
	cancelled []uint
}

func (s *fakeSyncer) SyncConfirmed(_ context.Context, ev *models.SchedulableEvent) []calsync.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, ev.ID)
	return nil
}

func (s *fakeSyncer) SyncCancelled(_ context.Context, ev *models.SchedulableEvent) []calsync.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, ev.ID)
	return nil
}

type fixture struct {
	repo   *fakeRepo
	syncer *fakeSyncer

	propose    *ProposeEvent
	respond    *RespondEvent
	cancel     *CancelEvent
	reschedule *RescheduleEvent
	avail      *GetAvailability
}

func newFixture(now time.Time) *fixture {
	repo := newFakeRepo()
	clk := clock.FixedAt(now)
	disp := audit.NewDispatcher(audit.New(nil))
	syncer := &fakeSyncer{}
	planner := reminder.NewScheduler([]int{1440, 10})
	claimer := claim.NewCoordinator(repo, nil)

	repo.orgs[1] = &models.Organization{ID: 1, Name: "Coachly"}
	repo.users[coachID] = &models.User{
		ID: coachID, OrganizationID: 1, Name: "Coach", Role: models.RoleCoach, Timezone: "UTC",
	}
	repo.users[clientID] = &models.User{
		ID: clientID, OrganizationID: 1, Name: "Client", Role: models.RoleClient, Timezone: "UTC",
	}
	repo.profiles[coachID] = &models.AvailabilityProfile{
		ID:                         1,
		CoachID:                    coachID,
		Timezone:                   "UTC",
		MinimumNoticeMinutes:       60,
		DefaultSlotDurationMinutes: 30,
		Windows: []models.AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		},
	}
	repo.nextProfileID = 1

	return &fixture{
		repo:       repo,
		syncer:     syncer,
		propose:    NewProposeEvent(repo, disp, clk),
		respond:    NewRespondEvent(repo, claimer, planner, syncer, disp, clk),
		cancel:     NewCancelEvent(repo, syncer, disp, clk),
		reschedule: NewRescheduleEvent(repo, syncer, disp, clk),
		avail:      NewGetAvailability(repo, clk),
	}
}

func (f *fixture) proposeAt(t *testing.T, actorID uint, start time.Time) *models.SchedulableEvent {
	t.Helper()
	ev, err := f.propose.Execute(context.Background(), ProposeEventInput{
		ActorID:         actorID,
		HostCoachID:     coachID,
		AttendeeIDs:     []uint{clientID},
		Title:           "Sessão de coaching",
		Start:           start,
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	return ev
}

// ======================================================
// PROPOSE → ACCEPT
// ======================================================

func TestProposeThenAccept(t *testing.T) {
	f := newFixture(mondayMorning)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	ev := f.proposeAt(t, clientID, start)
	assert.Equal(t, "pending_response", ev.SchedulingStatus)
	assert.Equal(t, start.Add(30*time.Minute), ev.EndDateTime)

	confirmed, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: coachID,
		EventID: ev.ID,
		Action:  RespondAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.SchedulingStatus)

	// lembretes derivados dos offsets, amarrados ao evento
	jobs, err := f.repo.ListReminderJobs(context.Background(), ev.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, start.Add(-24*time.Hour), jobs[0].RunAt)
	assert.Equal(t, start.Add(-10*time.Minute), jobs[1].RunAt)

	// token de acesso externo expira no fim da call
	require.Len(t, f.repo.tokens, 1)
	for _, tok := range f.repo.tokens {
		assert.Equal(t, ev.ID, tok.EventID)
		assert.Equal(t, confirmed.EndDateTime, tok.ExpiresAt)
		assert.True(t, tok.AllowCancellation)
		assert.True(t, tok.AllowReschedule)
	}

	// duas entradas de log: proposta e confirmação
	notes := f.repo.notes[ev.ID]
	require.Len(t, notes, 2)
	assert.Equal(t, "proposed", notes[0].FromStatus)
	assert.Equal(t, "pending_response", notes[0].ToStatus)
	assert.Equal(t, "pending_response", notes[1].FromStatus)
	assert.Equal(t, "confirmed", notes[1].ToStatus)
}

func TestAccept_ClientRespectsMinimumNotice(t *testing.T) {
	f := newFixture(mondayMorning)

	// 08:30 está a menos de 60 minutos do agora (08:00)
	ev := f.proposeAt(t, coachID, time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC))

	_, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: clientID,
		EventID: ev.ID,
		Action:  RespondAccept,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}

func TestAccept_OutsideWindowIsConflict(t *testing.T) {
	f := newFixture(mondayMorning)

	// 14:00 cai fora da janela 09:00–12:00
	ev := f.proposeAt(t, clientID, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))

	_, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: coachID,
		EventID: ev.ID,
		Action:  RespondAccept,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict))
}

func TestAccept_OfCancelledIsInvalidTransition(t *testing.T) {
	f := newFixture(mondayMorning)
	ev := f.proposeAt(t, clientID, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	_, err := f.cancel.Execute(context.Background(), CancelEventInput{ActorID: clientID, EventID: ev.ID})
	require.NoError(t, err)

	_, err = f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: coachID,
		EventID: ev.ID,
		Action:  RespondAccept,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
}

func TestRespond_StrangerIsUnauthorized(t *testing.T) {
	f := newFixture(mondayMorning)
	ev := f.proposeAt(t, clientID, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	_, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: 99,
		EventID: ev.ID,
		Action:  RespondAccept,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))
}

// ======================================================
// COUNTER → ACCEPT
// ======================================================

func TestCounterFlow_ThreeNotes(t *testing.T) {
	f := newFixture(mondayMorning)

	ev := f.proposeAt(t, clientID, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	newStart := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	countered, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID:  coachID,
		EventID:  ev.ID,
		Action:   RespondCounter,
		NewStart: &newStart,
		Note:     "melhor às 11h",
	})
	require.NoError(t, err)
	assert.Equal(t, "counter_proposed", countered.SchedulingStatus)
	assert.Equal(t, newStart, countered.StartDateTime)
	assert.Equal(t, newStart.Add(30*time.Minute), countered.EndDateTime)

	confirmed, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: clientID,
		EventID: ev.ID,
		Action:  RespondAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.SchedulingStatus)
	assert.Equal(t, newStart, confirmed.StartDateTime)

	notes := f.repo.notes[ev.ID]
	require.Len(t, notes, 3)
	assert.Equal(t, "pending_response", notes[1].FromStatus)
	assert.Equal(t, "counter_proposed", notes[1].ToStatus)
	assert.Equal(t, "melhor às 11h", notes[1].Note)
	assert.Equal(t, "counter_proposed", notes[2].FromStatus)
	assert.Equal(t, "confirmed", notes[2].ToStatus)
}

func TestCounter_WithoutNewStartFails(t *testing.T) {
	f := newFixture(mondayMorning)
	ev := f.proposeAt(t, clientID, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	_, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: coachID,
		EventID: ev.ID,
		Action:  RespondCounter,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}

// ======================================================
// DECLINE
// ======================================================

func TestDecline_CancelsEvent(t *testing.T) {
	f := newFixture(mondayMorning)
	ev := f.proposeAt(t, clientID, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	declined, err := f.respond.Execute(context.Background(), RespondEventInput{
		ActorID: coachID,
		EventID: ev.ID,
		Action:  RespondDecline,
		Note:    "agenda cheia",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", declined.SchedulingStatus)
	require.NotNil(t, declined.CancelledAt)
}

// ======================================================
// CLAIM — duas confirmações concorrentes
// ======================================================

func TestConcurrentAccepts_ExactlyOneWins(t *testing.T) {
	f := newFixture(mondayMorning)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// dois clientes negociando o mesmo horário do mesmo coach
	f.repo.users[3] = &models.User{ID: 3, OrganizationID: 1, Name: "Other", Role: models.RoleClient, Timezone: "UTC"}

	evA := f.proposeAt(t, clientID, start)
	evB, err := f.propose.Execute(context.Background(), ProposeEventInput{
		ActorID:         3,
		HostCoachID:     coachID,
		AttendeeIDs:     []uint{3},
		Title:           "Mesma vaga",
		Start:           start,
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []uint{evA.ID, evB.ID} {
		wg.Add(1)
		go func(eventID uint) {
			defer wg.Done()
			_, err := f.respond.Execute(context.Background(), RespondEventInput{
				ActorID: coachID,
				EventID: eventID,
				Action:  RespondAccept,
			})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var confirmed, conflicts int
	for err := range errs {
		if err == nil {
			confirmed++
			continue
		}
		if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
			conflicts++
		}
	}
	assert.Equal(t, 1, confirmed, "exatamente uma confirmação vence")
	assert.Equal(t, 1, conflicts, "a outra sai com slot_conflict")

	// o perdedor permanece no estado anterior, não cancelado
	states := map[string]int{}
	for _, id := range []uint{evA.ID, evB.ID} {
		ev, err := f.repo.GetEvent(context.Background(), id)
		require.NoError(t, err)
		states[ev.SchedulingStatus]++
	}
	assert.Equal(t, 1, states["confirmed"])
	assert.Equal(t, 1, states["pending_response"])
}
