package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/call-scheduler/internal/models"
)

// Segunda-feira, 2 de março de 2026.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mondayMorning() ResolveInput {
	return ResolveInput{
		Windows: []models.AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		},
		Location:        time.UTC,
		From:            monday,
		To:              monday,
		DurationMinutes: 30,
		Now:             monday,
	}
}

func TestResolve_TilesWindow(t *testing.T) {
	slots := Resolve(mondayMorning())

	require.Len(t, slots, 6)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), slots[0].End)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC), slots[5].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), slots[5].End)
}

func TestResolve_SubtractsHoldingEvents(t *testing.T) {
	in := mondayMorning()
	in.Busy = []models.SchedulableEvent{
		{
			SchedulingStatus: string(StatusConfirmed),
			StartDateTime:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			EndDateTime:      time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		},
	}

	slots := Resolve(in)

	require.Len(t, slots, 5)
	for _, s := range slots {
		assert.NotEqual(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), s.Start)
	}
}

func TestResolve_NegotiationHoldsSlotLikeConfirmation(t *testing.T) {
	for _, status := range []Status{StatusProposed, StatusPendingResponse, StatusCounterProposed} {
		in := mondayMorning()
		in.Busy = []models.SchedulableEvent{
			{
				SchedulingStatus: string(status),
				StartDateTime:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				EndDateTime:      time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
			},
		}

		slots := Resolve(in)
		assert.Len(t, slots, 5, "status %s", status)
	}
}

func TestResolve_CancelledDoesNotHold(t *testing.T) {
	in := mondayMorning()
	in.Busy = []models.SchedulableEvent{
		{
			SchedulingStatus: string(StatusCancelled),
			StartDateTime:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndDateTime:      time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	slots := Resolve(in)
	assert.Len(t, slots, 6)
}

func TestResolve_PartialOverlapRetiles(t *testing.T) {
	// bloqueio 09:15–09:45 derruba as duas primeiras fatias; o
	// fatiamento recomeça em 09:45
	in := mondayMorning()
	in.Blocked = []models.BlockedSlot{
		{
			StartTime: time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC),
		},
	}

	slots := Resolve(in)

	// a sobra de 15 minutos antes do bloqueio não vira slot de 30
	require.Len(t, slots, 4)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 15, 0, 0, time.UTC), slots[3].Start)
}

func TestResolve_MinimumNoticeBoundaryInclusive(t *testing.T) {
	in := mondayMorning()
	in.MinimumNoticeMinutes = 60
	// agora = 08:00 → fronteira em 09:00: o slot das 09:00 entra
	in.Now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	slots := Resolve(in)
	require.Len(t, slots, 6)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), slots[0].Start)

	// um minuto depois a fronteira passa das 09:00 e o slot cai
	in.Now = in.Now.Add(time.Minute)
	slots = Resolve(in)
	require.Len(t, slots, 5)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), slots[0].Start)
}

func TestResolve_CoachSkipsNotice(t *testing.T) {
	in := mondayMorning()
	in.MinimumNoticeMinutes = 60
	in.Now = time.Date(2026, 3, 2, 8, 1, 0, 0, time.UTC)
	in.CoachInitiated = true

	slots := Resolve(in)
	assert.Len(t, slots, 6, "coach enxerga a grade completa")
}

func TestResolve_DSTSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 8 de março de 2026: início do horário de verão nos EUA.
	// A janela continua às 09:00 locais; o offset UTC muda.
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)

	in := ResolveInput{
		Windows: []models.AvailabilityWindow{
			{Weekday: 0, StartTime: "09:00", EndTime: "11:00"},
		},
		Location:        loc,
		From:            day,
		To:              day,
		DurationMinutes: 60,
		Now:             day,
	}

	slots := Resolve(in)
	require.Len(t, slots, 2)

	// 09:00 EDT (UTC-4) = 13:00 UTC
	assert.Equal(t, time.Date(2026, 3, 8, 13, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, "09:00", slots[0].Start.In(loc).Format("15:04"))
}

func TestResolve_EmptyNeverNil(t *testing.T) {
	in := mondayMorning()
	in.Windows = nil

	slots := Resolve(in)
	require.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestRangeFree_Containment(t *testing.T) {
	in := mondayMorning()

	// contra-proposta fora da grade de fatias, mas dentro da janela
	start := time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)
	assert.True(t, RangeFree(in, start, start.Add(30*time.Minute)))

	// atravessa o fim da janela
	late := time.Date(2026, 3, 2, 11, 45, 0, 0, time.UTC)
	assert.False(t, RangeFree(in, late, late.Add(30*time.Minute)))

	// colide com evento que segura horário
	in.Busy = []models.SchedulableEvent{
		{
			SchedulingStatus: string(StatusConfirmed),
			StartDateTime:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndDateTime:      time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}
	assert.False(t, RangeFree(in, start, start.Add(30*time.Minute)))
}
