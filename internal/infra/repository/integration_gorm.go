package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachly/call-scheduler/internal/calsync"
	"github.com/coachly/call-scheduler/internal/models"
)

// Colaborador de integração consumido pelo sync adapter: leitura
// das credenciais + callback de refresh + referências externas.
type IntegrationGormRepository struct {
	db *gorm.DB
}

func NewIntegrationGormRepository(db *gorm.DB) *IntegrationGormRepository {
	return &IntegrationGormRepository{db: db}
}

func (r *IntegrationGormRepository) ListCredentials(
	ctx context.Context,
	organizationID uint,
) ([]models.IntegrationCredential, error) {

	var creds []models.IntegrationCredential
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("provider ASC").
		Find(&creds).Error; err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *IntegrationGormRepository) UpdateCredentialToken(
	ctx context.Context,
	cred *models.IntegrationCredential,
) error {
	return r.db.WithContext(ctx).
		Model(&models.IntegrationCredential{}).
		Where("id = ?", cred.ID).
		Updates(map[string]any{
			"access_token":  cred.AccessToken,
			"refresh_token": cred.RefreshToken,
			"token_expiry":  cred.TokenExpiry,
		}).Error
}

func (r *IntegrationGormRepository) GetExternalRef(
	ctx context.Context,
	eventID uint,
	provider string,
) (*models.ExternalEventRef, error) {

	var ref models.ExternalEventRef
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND provider = ?", eventID, provider).
		First(&ref).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *IntegrationGormRepository) UpsertExternalRef(
	ctx context.Context,
	ref *models.ExternalEventRef,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{"provider_event_id", "updated_at"}),
		}).
		Create(ref).Error
}

func (r *IntegrationGormRepository) DeleteExternalRef(
	ctx context.Context,
	eventID uint,
	provider string,
) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND provider = ?", eventID, provider).
		Delete(&models.ExternalEventRef{}).Error
}

// Compile-time check
var _ calsync.CredentialStore = (*IntegrationGormRepository)(nil)
