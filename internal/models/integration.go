package models

import "time"

const (
	CalendarProviderGoogle  = "google"
	CalendarProviderOutlook = "outlook"
)

// Credencial OAuth2 de um provedor de calendário conectado pela
// organização. O núcleo lê a credencial e só escreve de volta no
// refresh do token.
type IntegrationCredential struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"index:idx_org_provider,unique" json:"organization_id"`
	Provider       string `gorm:"size:20;index:idx_org_provider,unique" json:"provider"`

	AccessToken  string    `gorm:"size:2048" json:"-"`
	RefreshToken string    `gorm:"size:2048" json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`

	// Agenda de destino no provedor ("primary" por padrão).
	CalendarID string `gorm:"size:255;default:'primary'" json:"calendar_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Referência do evento no provedor externo; chave da idempotência
// do sync (re-push atualiza em vez de duplicar).
type ExternalEventRef struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	EventID  uint   `gorm:"index:idx_event_provider,unique" json:"event_id"`
	Provider string `gorm:"size:20;index:idx_event_provider,unique" json:"provider"`

	ProviderEventID string `gorm:"size:255" json:"provider_event_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
