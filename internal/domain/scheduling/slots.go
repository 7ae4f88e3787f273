package scheduling

import (
	"sort"
	"time"

	"github.com/coachly/call-scheduler/internal/models"
)

// ===============================
// Slot Resolver
// ===============================

// Função pura: não toca em estado, pode ser chamada repetida e
// concorrentemente. A corrida entre dois confirms sobre o mesmo
// slot é problema do coordenador de claims, não do resolver.

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ResolveInput struct {
	Windows  []models.AvailabilityWindow
	Location *time.Location
	Blocked  []models.BlockedSlot
	Busy     []models.SchedulableEvent

	// Intervalo de datas inclusivo, interpretado no timezone do coach.
	From time.Time
	To   time.Time

	DurationMinutes      int
	MinimumNoticeMinutes int
	Now                  time.Time
	CoachInitiated       bool
}

type interval struct {
	start time.Time
	end   time.Time
}

func Resolve(in ResolveInput) []Slot {
	if in.DurationMinutes <= 0 || len(in.Windows) == 0 {
		return []Slot{}
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	byWeekday := map[int][]models.AvailabilityWindow{}
	for _, w := range in.Windows {
		byWeekday[w.Weekday] = append(byWeekday[w.Weekday], w)
	}

	busy := collectBusy(in.Blocked, in.Busy)

	duration := time.Duration(in.DurationMinutes) * time.Minute

	var slots []Slot

	fromDay := time.Date(in.From.In(loc).Year(), in.From.In(loc).Month(), in.From.In(loc).Day(), 0, 0, 0, 0, loc)
	toDay := time.Date(in.To.In(loc).Year(), in.To.In(loc).Month(), in.To.In(loc).Day(), 0, 0, 0, 0, loc)

	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		for _, w := range byWeekday[int(day.Weekday())] {
			win, ok := windowInstants(day, w, loc)
			if !ok {
				continue
			}

			// subtrai bloqueios e eventos que seguram horário
			for _, free := range subtract(win, busy) {
				// fatia a partir do início da janela livre; nenhum
				// slot passa do fim
				for cur := free.start; !cur.Add(duration).After(free.end); cur = cur.Add(duration) {
					slots = append(slots, Slot{
						Start: cur.UTC(),
						End:   cur.Add(duration).UTC(),
					})
				}
			}
		}
	}

	if !in.CoachInitiated && in.MinimumNoticeMinutes > 0 {
		minStart := in.Now.Add(time.Duration(in.MinimumNoticeMinutes) * time.Minute)
		filtered := slots[:0]
		for _, s := range slots {
			// exatamente na fronteira da antecedência é permitido
			if !s.Start.Before(minStart) {
				filtered = append(filtered, s)
			}
		}
		slots = filtered
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	if slots == nil {
		slots = []Slot{}
	}
	return slots
}

// windowInstants converte a janela local ("15:04") em instantes
// absolutos do dia, respeitando o timezone na fronteira de DST em
// vez de aplicar offset fixo.
func windowInstants(day time.Time, w models.AvailabilityWindow, loc *time.Location) (interval, bool) {
	start, err1 := time.Parse("15:04", w.StartTime)
	end, err2 := time.Parse("15:04", w.EndTime)
	if err1 != nil || err2 != nil {
		return interval{}, false
	}

	winStart := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, loc)
	winEnd := time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, loc)

	if !winStart.Before(winEnd) {
		return interval{}, false
	}
	return interval{start: winStart, end: winEnd}, true
}

func collectBusy(blocked []models.BlockedSlot, events []models.SchedulableEvent) []interval {
	var busy []interval

	for _, b := range blocked {
		if b.StartTime.Before(b.EndTime) {
			busy = append(busy, interval{start: b.StartTime, end: b.EndTime})
		}
	}
	for _, ev := range events {
		if !IsHolding(Status(ev.SchedulingStatus)) {
			continue
		}
		if ev.StartDateTime.Before(ev.EndDateTime) {
			busy = append(busy, interval{start: ev.StartDateTime, end: ev.EndDateTime})
		}
	}

	sort.Slice(busy, func(i, j int) bool {
		return busy[i].start.Before(busy[j].start)
	})
	return busy
}

// RangeFree responde se [start, end) cabe inteiro numa janela
// livre do coach. Usado pelo guard de confirmação: contra-propostas
// podem cair fora da grade de fatias exibida, então o teste é de
// contenção no intervalo livre, não de igualdade com um slot.
func RangeFree(in ResolveInput, start, end time.Time) bool {
	if !start.Before(end) {
		return false
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	busy := collectBusy(in.Blocked, in.Busy)

	day := start.In(loc)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	for _, w := range in.Windows {
		if w.Weekday != int(dayStart.Weekday()) {
			continue
		}
		win, ok := windowInstants(dayStart, w, loc)
		if !ok {
			continue
		}
		for _, free := range subtract(win, busy) {
			if !start.Before(free.start) && !end.After(free.end) {
				return true
			}
		}
	}
	return false
}

// subtract remove de win todos os intervalos ocupados que se
// sobrepõem, devolvendo as janelas livres restantes em ordem.
func subtract(win interval, busy []interval) []interval {
	free := []interval{win}

	for _, b := range busy {
		var next []interval
		for _, f := range free {
			if !b.start.Before(f.end) || !b.end.After(f.start) {
				next = append(next, f)
				continue
			}
			if b.start.After(f.start) {
				next = append(next, interval{start: f.start, end: b.start})
			}
			if b.end.Before(f.end) {
				next = append(next, interval{start: b.end, end: f.end})
			}
		}
		free = next
	}

	return free
}
