package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/dto"
	"github.com/muims-dev/muims/models"
	"github.com/muims-dev/muims/refdata"
	"github.com/muims-dev/muims/repositories"
	"github.com/muims-dev/muims/utils"
	"github.com/muims-dev/muims/validation"
)

var ErrInvalidStatus = errors.New("invalid status value")

// Layouts accepted for the date_from/date_to filter bounds. Anything that
// matches none of them is silently skipped, never surfaced to the caller.
var filterTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

var exportHeader = []string{
	"ID", "Title", "Customer", "Severity", "Status", "Created At",
	"Site", "Model", "Serial", "Fault Code",
}

type IncidentService struct {
	repos  *repositories.Repos
	tables *refdata.Tables
}

func NewIncidentService(repos *repositories.Repos, tables *refdata.Tables) *IncidentService {
	return &IncidentService{repos: repos, tables: tables}
}

// CreateIncident validates input against the reference tables and persists
// it. A validation.Errors return means nothing was stored.
func (s *IncidentService) CreateIncident(c *gin.Context, input dto.IncidentInputDTO) (*models.Incident, error) {
	sub, errs := s.validateInput(input)
	if errs != nil {
		return nil, errs
	}

	incident := &models.Incident{
		Title:                 sub.Title,
		Description:           input.Description,
		CustomerName:          sub.CustomerName,
		SiteName:              sub.SiteName,
		Location:              sub.Location,
		MachineModel:          sub.MachineModel,
		MachineSerial:         sub.MachineSerial,
		FaultCode:             sub.FaultCode,
		FaultDescription:      sub.FaultDescription,
		StartTime:             sub.StartTime,
		EndTime:               sub.EndTime,
		PreventiveMaintenance: input.PreventiveMaintenance,
		PartsUsed:             input.PartsUsed,
		Category:              categoryOrDefault(input.Category),
		Severity:              severityOrDefault(input.Severity),
		Status:                statusOrDefault(input.Status),
	}

	if len(input.PartIDs) > 0 {
		parts, err := s.repos.Part.FindByIDs(input.PartIDs)
		if err != nil {
			return nil, err
		}
		incident.Parts = parts
	}

	if err := s.repos.Incident.Create(incident); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "create", "incident", strconv.Itoa(int(incident.ID)), nil, incident, "Incident reported", s.repos.Audit)
	return incident, nil
}

// UpdateIncident replaces the stored field set after re-running the same
// validation as creation. No partial application: a validation failure
// leaves the record untouched.
func (s *IncidentService) UpdateIncident(c *gin.Context, id uint, input dto.IncidentInputDTO) (*models.Incident, error) {
	incident, err := s.repos.Incident.FindByID(id)
	if err != nil {
		return nil, err
	}

	sub, errs := s.validateInput(input)
	if errs != nil {
		return nil, errs
	}

	old := *incident

	incident.Title = sub.Title
	incident.Description = input.Description
	incident.CustomerName = sub.CustomerName
	incident.SiteName = sub.SiteName
	incident.Location = sub.Location
	incident.MachineModel = sub.MachineModel
	incident.MachineSerial = sub.MachineSerial
	incident.FaultCode = sub.FaultCode
	incident.FaultDescription = sub.FaultDescription
	incident.StartTime = sub.StartTime
	incident.EndTime = sub.EndTime
	incident.PreventiveMaintenance = input.PreventiveMaintenance
	incident.PartsUsed = input.PartsUsed
	incident.Category = categoryOrDefault(input.Category)
	incident.Severity = severityOrDefault(input.Severity)
	incident.Status = statusOrDefault(input.Status)

	if err := s.repos.Incident.Update(incident); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "update", "incident", strconv.Itoa(int(incident.ID)), &old, incident, "Incident updated", s.repos.Audit)
	return incident, nil
}

func (s *IncidentService) validateInput(input dto.IncidentInputDTO) (validation.Submission, validation.Errors) {
	sub := validation.Submission{
		Title:            input.Title,
		CustomerName:     input.CustomerName,
		SiteName:         input.SiteName,
		Location:         input.Location,
		MachineModel:     input.MachineModel,
		MachineSerial:    input.MachineSerial,
		FaultCode:        input.FaultCode,
		FaultDescription: input.FaultDescription,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
	}

	sub, errs := validation.Validate(sub, s.tables)

	// Enum fields are outside the cascading rules but share the same
	// field-scoped error contract.
	if errs == nil {
		errs = validation.Errors{}
	}
	if input.Category != "" && !models.ValidIncidentCategory(input.Category) {
		errs["category"] = "Invalid category selection."
	}
	if input.Severity != "" && !models.ValidIncidentSeverity(input.Severity) {
		errs["severity"] = "Invalid severity selection."
	}
	if input.Status != "" && !models.ValidIncidentStatus(input.Status) {
		errs["status"] = "Invalid status selection."
	}

	if len(errs) > 0 {
		return sub, errs
	}
	return sub, nil
}

func (s *IncidentService) GetIncident(id uint) (*models.Incident, error) {
	return s.repos.Incident.FindByID(id)
}

// SetStatus applies an arbitrary status change, including reverting a
// Resolved incident back to an earlier state.
func (s *IncidentService) SetStatus(c *gin.Context, id uint, status string) (*models.Incident, error) {
	if !models.ValidIncidentStatus(status) {
		return nil, ErrInvalidStatus
	}

	incident, err := s.repos.Incident.FindByID(id)
	if err != nil {
		return nil, err
	}

	old := *incident
	incident.Status = models.IncidentStatus(status)
	if err := s.repos.Incident.Update(incident); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "status", "incident", strconv.Itoa(int(incident.ID)), &old, incident, "Status set to "+status, s.repos.Audit)
	return incident, nil
}

func (s *IncidentService) StartIncident(c *gin.Context, id uint) (*models.Incident, error) {
	return s.SetStatus(c, id, string(models.IncidentStatusInProgress))
}

func (s *IncidentService) ResolveIncident(c *gin.Context, id uint) (*models.Incident, error) {
	return s.SetStatus(c, id, string(models.IncidentStatusResolved))
}

// ListIncidents returns one page of matching incidents, most recent first,
// plus the total match count.
func (s *IncidentService) ListIncidents(filter dto.IncidentFilterDTO, page dto.PaginationDTO) ([]models.Incident, int64, error) {
	p, perPage := page.Page, page.PerPage
	if p < 1 {
		p = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.repos.Incident.List(buildCriteria(filter), p, perPage)
}

// ExportIncidents serializes the full filtered set as CSV: a header row plus
// one row per incident in descending creation order.
func (s *IncidentService) ExportIncidents(filter dto.IncidentFilterDTO) ([]byte, error) {
	incidents, err := s.repos.Incident.ListAll(buildCriteria(filter))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, i := range incidents {
		record := []string{
			strconv.Itoa(int(i.ID)),
			i.Title,
			i.CustomerName,
			string(i.Severity),
			string(i.Status),
			i.CreatedAt.Format("2006-01-02 15:04:05"),
			i.SiteName,
			i.MachineModel,
			i.MachineSerial,
			i.FaultCode,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type IncidentStats struct {
	Total        int64             `json:"total"`
	Open         int64             `json:"open"`
	HighSeverity int64             `json:"high_severity"`
	Recent       []models.Incident `json:"recent"`
}

func (s *IncidentService) GetStats() (*IncidentStats, error) {
	total, err := s.repos.Incident.Count()
	if err != nil {
		return nil, err
	}
	open, err := s.repos.Incident.CountByStatus(models.IncidentStatusOpen)
	if err != nil {
		return nil, err
	}
	high, err := s.repos.Incident.CountBySeverity(models.IncidentSeverityHigh)
	if err != nil {
		return nil, err
	}
	recent, err := s.repos.Incident.Recent(5)
	if err != nil {
		return nil, err
	}
	return &IncidentStats{Total: total, Open: open, HighSeverity: high, Recent: recent}, nil
}

// AllowedChoices exposes the dependent choice lists for the current
// selection so the form layer never mutates choices in place.
func (s *IncidentService) AllowedChoices(customer, site, faultCode string) refdata.Choices {
	return s.tables.AllowedChoices(refdata.Selection{
		Customer:  customer,
		Site:      site,
		FaultCode: faultCode,
	})
}

// buildCriteria compiles the raw filter input, dropping whatever cannot be
// applied: an unknown severity value and unparseable date bounds are skipped
// rather than reported.
func buildCriteria(filter dto.IncidentFilterDTO) repositories.IncidentCriteria {
	criteria := repositories.IncidentCriteria{
		Query:    filter.Query,
		Customer: filter.Customer,
		Status:   filter.Status,
	}

	if models.ValidIncidentSeverity(filter.Severity) {
		criteria.Severity = filter.Severity
	}

	criteria.CreatedFrom = parseFilterTime(filter.DateFrom)
	criteria.CreatedTo = parseFilterTime(filter.DateTo)
	return criteria
}

func categoryOrDefault(value string) models.IncidentCategory {
	if value == "" {
		return models.IncidentCategoryMechanical
	}
	return models.IncidentCategory(value)
}

func severityOrDefault(value string) models.IncidentSeverity {
	if value == "" {
		return models.IncidentSeverityMedium
	}
	return models.IncidentSeverity(value)
}

func statusOrDefault(value string) models.IncidentStatus {
	if value == "" {
		return models.IncidentStatusOpen
	}
	return models.IncidentStatus(value)
}

func parseFilterTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range filterTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
