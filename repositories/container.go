package repositories

import "gorm.io/gorm"

type Repos struct {
	Incident IncidentRepo
	Part     PartRepo
	Audit    AuditRepo
}

func New(db *gorm.DB) *Repos {
	return &Repos{
		Incident: NewIncidentRepo(db),
		Part:     NewPartRepo(db),
		Audit:    NewAuditRepo(db),
	}
}
