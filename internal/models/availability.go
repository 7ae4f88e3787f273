package models

import "time"

// Perfil de disponibilidade do coach (1:1). Nunca é removido,
// apenas sobrescrito pelo próprio coach.
type AvailabilityProfile struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	CoachID uint `gorm:"uniqueIndex" json:"coach_id"`

	Timezone                   string `gorm:"size:64;not null" json:"timezone"`
	MinimumNoticeMinutes       int    `gorm:"default:60" json:"minimum_notice_minutes"`
	DefaultSlotDurationMinutes int    `gorm:"default:30" json:"default_slot_duration_minutes"`

	Windows []AvailabilityWindow `gorm:"foreignKey:ProfileID" json:"windows"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Janela semanal recorrente em hora local do coach ("15:04").
// Por dia da semana as janelas são disjuntas e start < end.
type AvailabilityWindow struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index" json:"profile_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bloqueio pontual em instantes absolutos (UTC). Ciclo de vida
// independente da grade semanal.
type BlockedSlot struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index" json:"profile_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
