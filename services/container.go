package services

import (
	"github.com/muims-dev/muims/refdata"
	"github.com/muims-dev/muims/repositories"
)

type Services struct {
	Incident *IncidentService
	Part     *PartService
	Audit    *AuditService
}

func New(repos *repositories.Repos, tables *refdata.Tables) *Services {
	return &Services{
		Incident: NewIncidentService(repos, tables),
		Part:     NewPartService(repos),
		Audit:    NewAuditService(repos),
	}
}
