package repositories

import (
	"time"

	"github.com/muims-dev/muims/models"
	"gorm.io/gorm"
)

// IncidentCriteria is the compiled filter set applied to incident listings
// and exports. Nil / empty members are not applied. By the time a criteria
// reaches the repository the severity has already been checked against the
// known values and the date bounds have been parsed.
type IncidentCriteria struct {
	Query       string
	Customer    string
	Severity    string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type IncidentRepo interface {
	Create(incident *models.Incident) error
	FindByID(id uint) (*models.Incident, error)
	Update(incident *models.Incident) error
	List(criteria IncidentCriteria, page, perPage int) ([]models.Incident, int64, error)
	ListAll(criteria IncidentCriteria) ([]models.Incident, error)
	Count() (int64, error)
	CountByStatus(status models.IncidentStatus) (int64, error)
	CountBySeverity(severity models.IncidentSeverity) (int64, error)
	Recent(limit int) ([]models.Incident, error)
}

type DBIncidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) *DBIncidentRepo {
	return &DBIncidentRepo{db: db}
}

func (r *DBIncidentRepo) Create(incident *models.Incident) error {
	return r.db.Create(incident).Error
}

func (r *DBIncidentRepo) FindByID(id uint) (*models.Incident, error) {
	var incident models.Incident
	err := r.db.Preload("Parts").First(&incident, id).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *DBIncidentRepo) Update(incident *models.Incident) error {
	return r.db.Save(incident).Error
}

func (r *DBIncidentRepo) applyCriteria(criteria IncidentCriteria) *gorm.DB {
	query := r.db.Model(&models.Incident{})

	if criteria.Query != "" {
		pattern := "%" + criteria.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if criteria.Customer != "" {
		query = query.Where("customer_name = ?", criteria.Customer)
	}
	if criteria.Severity != "" {
		query = query.Where("severity = ?", criteria.Severity)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *criteria.CreatedFrom)
	}
	if criteria.CreatedTo != nil {
		query = query.Where("created_at <= ?", *criteria.CreatedTo)
	}

	return query
}

// List returns one page of matching incidents ordered most recent first,
// along with the total match count. Pages past the end come back empty.
func (r *DBIncidentRepo) List(criteria IncidentCriteria, page, perPage int) ([]models.Incident, int64, error) {
	query := r.applyCriteria(criteria)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var incidents []models.Incident
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&incidents).Error
	return incidents, total, err
}

func (r *DBIncidentRepo) ListAll(criteria IncidentCriteria) ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.applyCriteria(criteria).Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

func (r *DBIncidentRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Incident{}).Count(&count).Error
	return count, err
}

func (r *DBIncidentRepo) CountByStatus(status models.IncidentStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Incident{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *DBIncidentRepo) CountBySeverity(severity models.IncidentSeverity) (int64, error) {
	var count int64
	err := r.db.Model(&models.Incident{}).Where("severity = ?", severity).Count(&count).Error
	return count, err
}

func (r *DBIncidentRepo) Recent(limit int) ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.db.Order("created_at DESC").Limit(limit).Find(&incidents).Error
	return incidents, err
}
