package handlers

import "github.com/muims-dev/muims/services"

type Handlers struct {
	Incident *IncidentHandler
	Part     *PartHandler
	Audit    *AuditHandler
}

func New(svc *services.Services) *Handlers {
	return &Handlers{
		Incident: NewIncidentHandler(svc.Incident),
		Part:     NewPartHandler(svc.Part),
		Audit:    NewAuditHandler(svc.Audit),
	}
}
