package models

import "time"

const (
	ReminderKindUpcoming = "upcoming_call"
)

// Lembrete adiado amarrado a um evento confirmado. Um job não
// executado de evento cancelado nunca pode rodar: o cancelamento
// apaga os jobs pendentes na mesma transação do status.
type ReminderJob struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"index" json:"event_id"`

	RunAt    time.Time `gorm:"index" json:"run_at"`
	Executed bool      `gorm:"default:false" json:"executed"`
	Kind     string    `gorm:"size:40" json:"kind"`

	// Minutos antes do início que este lembrete representa.
	OffsetMinutes int `json:"offset_minutes"`

	CreatedAt time.Time `json:"created_at"`
}
