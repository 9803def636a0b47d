package repository

import (
	"portostore/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get() (*model.StoreSettings, error)
	Upsert(settings *model.StoreSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) Get() (*model.StoreSettings, error) {
	var settings model.StoreSettings
	err := r.db.First(&settings, "id = ?", model.StoreSettingsID).Error
	return &settings, err
}

// Upsert writes the singleton row, creating it on first save.
func (r *settingsRepo) Upsert(settings *model.StoreSettings) error {
	settings.ID = model.StoreSettingsID
	var existing model.StoreSettings
	err := r.db.First(&existing, "id = ?", model.StoreSettingsID).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(settings).Error
	}
	if err != nil {
		return err
	}
	return r.db.Save(settings).Error
}
