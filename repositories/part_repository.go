package repositories

import (
	"github.com/muims-dev/muims/models"
	"gorm.io/gorm"
)

type PartRepo interface {
	Create(part *models.Part) error
	FindAll() ([]models.Part, error)
	FindByIDs(ids []uint) ([]models.Part, error)
	ExistsByNameInsensitive(name string) (bool, error)
}

type DBPartRepo struct {
	db *gorm.DB
}

func NewPartRepo(db *gorm.DB) *DBPartRepo {
	return &DBPartRepo{db: db}
}

func (r *DBPartRepo) Create(part *models.Part) error {
	return r.db.Create(part).Error
}

func (r *DBPartRepo) FindAll() ([]models.Part, error) {
	var parts []models.Part
	err := r.db.Order("name ASC").Find(&parts).Error
	return parts, err
}

func (r *DBPartRepo) FindByIDs(ids []uint) ([]models.Part, error) {
	var parts []models.Part
	if len(ids) == 0 {
		return parts, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&parts).Error
	return parts, err
}

func (r *DBPartRepo) ExistsByNameInsensitive(name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Part{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count > 0, err
}
