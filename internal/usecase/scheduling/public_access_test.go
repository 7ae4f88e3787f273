package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/call-scheduler/internal/clock"
	"github.com/coachly/call-scheduler/internal/httperr"
)

func issuedToken(t *testing.T, f *fixture) (string, uint) {
	t.Helper()
	eventID := confirmEvent(t, f, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	require.Len(t, f.repo.tokens, 1)
	for id := range f.repo.tokens {
		return id, eventID
	}
	return "", 0
}

func publicAccessAt(f *fixture, now time.Time) *PublicBookingAccess {
	clk := clock.FixedAt(now)
	return NewPublicBookingAccess(f.repo, f.cancel, f.reschedule, clk)
}

func TestPublicView(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, eventID := issuedToken(t, f)

	access := publicAccessAt(f, mondayMorning)

	summary, err := access.View(context.Background(), tokenID)
	require.NoError(t, err)
	assert.Equal(t, eventID, summary.EventID)
	assert.Equal(t, "confirmed", summary.SchedulingStatus)
	assert.Equal(t, "Coach", summary.CoachName)
	assert.Equal(t, "Coachly", summary.OrganizationName)
	assert.True(t, summary.AllowCancellation)
}

func TestPublicView_ExpiredToken(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, _ := issuedToken(t, f)

	// depois do fim da call o token morre
	access := publicAccessAt(f, time.Date(2026, 3, 2, 10, 31, 0, 0, time.UTC))

	_, err := access.View(context.Background(), tokenID)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeTokenExpired))
}

func TestPublicView_UnknownToken(t *testing.T) {
	f := newFixture(mondayMorning)
	access := publicAccessAt(f, mondayMorning)

	_, err := access.View(context.Background(), "nao-existe")
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestPublicCancel(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, eventID := issuedToken(t, f)

	access := publicAccessAt(f, mondayMorning)

	ev, err := access.Cancel(context.Background(), tokenID, "não posso comparecer")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", ev.SchedulingStatus)
	assert.Equal(t, eventID, ev.ID)
}

func TestPublicCancel_Forbidden(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, _ := issuedToken(t, f)

	f.repo.tokens[tokenID].AllowCancellation = false

	access := publicAccessAt(f, mondayMorning)

	_, err := access.Cancel(context.Background(), tokenID, "")
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))
}

func TestPublicReschedule(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, eventID := issuedToken(t, f)

	access := publicAccessAt(f, mondayMorning)

	newStart := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	ev, err := access.Reschedule(context.Background(), tokenID, newStart, "surgiu um conflito")
	require.NoError(t, err)
	assert.Equal(t, eventID, ev.ID)
	assert.Equal(t, "pending_response", ev.SchedulingStatus)
	assert.Equal(t, newStart, ev.StartDateTime)

	// a nota registra o participante como autor
	notes := f.repo.notes[eventID]
	require.NotEmpty(t, notes)
	assert.Equal(t, clientID, notes[len(notes)-2].ActorID)
}

func TestPublicReschedule_ExpiredToken(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, _ := issuedToken(t, f)

	access := publicAccessAt(f, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))

	_, err := access.Reschedule(
		context.Background(),
		tokenID,
		time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		"",
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeTokenExpired))
}

func TestBookingTokenIsImmutableRecord(t *testing.T) {
	f := newFixture(mondayMorning)
	tokenID, eventID := issuedToken(t, f)

	tok, err := f.repo.GetBookingToken(context.Background(), tokenID)
	require.NoError(t, err)

	ev, err := f.repo.GetEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, ev.EndDateTime, tok.ExpiresAt)
	assert.Len(t, tok.ID, 36, "uuid como capability")
}
