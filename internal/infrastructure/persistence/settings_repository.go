package persistence

import (
	"context"
	"errors"

	"github.com/primeapparel/backend/internal/domain/settings"
	"github.com/primeapparel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings, or nil when none have been saved
func (r *GormSettingsRepository) Get(ctx context.Context) (*settings.CompanySettings, error) {
	var model models.CompanySettingsModel
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.CompanySettings) error {
	model := models.CompanySettingsModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}
