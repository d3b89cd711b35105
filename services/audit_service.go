package services

import (
	"github.com/muims-dev/muims/models"
	"github.com/muims-dev/muims/repositories"
)

type AuditService struct {
	repos *repositories.Repos
}

func NewAuditService(repos *repositories.Repos) *AuditService {
	return &AuditService{repos: repos}
}

func (s *AuditService) QueryAuditLogs(params repositories.AuditQueryParams) ([]models.AuditLog, error) {
	return s.repos.Audit.GetAuditLogs(params)
}
