package models

import "time"

// Capability que dá a um participante externo (sem login) acesso
// de leitura/cancelamento/remarcação a um único evento. Imutável:
// nunca é alterado, apenas expira.
type BookingToken struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	EventID uint   `gorm:"index" json:"event_id"`

	ExpiresAt         time.Time `json:"expires_at"`
	AllowCancellation bool      `json:"allow_cancellation"`
	AllowReschedule   bool      `json:"allow_reschedule"`

	CreatedAt time.Time `json:"created_at"`
}
