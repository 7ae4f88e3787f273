package handlers

import (
	"time"

	"github.com/coachly/call-scheduler/internal/timezone"
)

// Datas chegam como string no timezone do perfil do coach e viram
// instantes absolutos aqui na borda.

func parseDateIn(tz string, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(tz),
	)
}

func parseDateTimeIn(tz string, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(
		"2006-01-02 15:04",
		value,
		timezone.Location(tz),
	)
}
