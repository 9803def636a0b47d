package repository

import (
	"portostore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Create(unit *model.MeasurementUnit) error
	FindAll() ([]model.MeasurementUnit, error)
	FindByID(id uuid.UUID) (*model.MeasurementUnit, error)
	Delete(id uuid.UUID) error
	SeedDefaults() error
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) Create(unit *model.MeasurementUnit) error {
	return r.db.Create(unit).Error
}

func (r *unitRepo) FindAll() ([]model.MeasurementUnit, error) {
	var units []model.MeasurementUnit
	err := r.db.Order("name ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) FindByID(id uuid.UUID) (*model.MeasurementUnit, error) {
	var unit model.MeasurementUnit
	err := r.db.First(&unit, "id = ?", id).Error
	return &unit, err
}

func (r *unitRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.MeasurementUnit{}, "id = ?", id).Error
}

// SeedDefaults creates the starter measurement units if they don't exist
func (r *unitRepo) SeedDefaults() error {
	for _, name := range []string{"Prenda", "Par", "Accesorio"} {
		var existing model.MeasurementUnit
		if err := r.db.Where("name = ?", name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&model.MeasurementUnit{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
