package models

import "time"

const (
	MeetingProviderNative     = "native"
	MeetingProviderZoom       = "zoom"
	MeetingProviderGoogleMeet = "google_meet"
	MeetingProviderOther      = "other"
)

// Evento agendável: a unidade negociada entre coach e participantes.
// Nunca é removido fisicamente; só muda de status.
type SchedulableEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrganizationID uint         `json:"organization_id"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	HostUserID uint `gorm:"index" json:"host_user_id"`
	Host       User `gorm:"foreignKey:HostUserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Title string `gorm:"size:150" json:"title"`

	StartDateTime   time.Time `json:"start_date_time"`
	EndDateTime     time.Time `json:"end_date_time"`
	DurationMinutes int       `json:"duration_minutes"`

	SchedulingStatus string `gorm:"size:20;index;default:'pending_response'" json:"scheduling_status"`
	MeetingProvider  string `gorm:"size:20;default:'native'" json:"meeting_provider"`

	Attendees []EventAttendee  `gorm:"foreignKey:EventID" json:"attendees"`
	Notes     []SchedulingNote `gorm:"foreignKey:EventID" json:"scheduling_notes"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventAttendee struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"index:idx_event_attendee,unique" json:"event_id"`
	UserID  uint `gorm:"index:idx_event_attendee,unique" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

// Registro tipado e ordenado do histórico de negociação.
// Append-only: o núcleo nunca trunca este log.
type SchedulingNote struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"index" json:"event_id"`

	OccurredAt time.Time `json:"occurred_at"`
	ActorID    uint      `json:"actor_id"`
	FromStatus string    `gorm:"size:20" json:"from_status"`
	ToStatus   string    `gorm:"size:20" json:"to_status"`
	Note       string    `gorm:"size:500" json:"note"`
}
