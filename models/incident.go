package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "Open"
	IncidentStatusInProgress IncidentStatus = "In Progress"
	IncidentStatusResolved   IncidentStatus = "Resolved"
)

func ValidIncidentStatus(s string) bool {
	switch IncidentStatus(s) {
	case IncidentStatusOpen, IncidentStatusInProgress, IncidentStatusResolved:
		return true
	}
	return false
}

type IncidentSeverity string

const (
	IncidentSeverityLow    IncidentSeverity = "Low"
	IncidentSeverityMedium IncidentSeverity = "Medium"
	IncidentSeverityHigh   IncidentSeverity = "High"
)

func ValidIncidentSeverity(s string) bool {
	switch IncidentSeverity(s) {
	case IncidentSeverityLow, IncidentSeverityMedium, IncidentSeverityHigh:
		return true
	}
	return false
}

type IncidentCategory string

const (
	IncidentCategoryMechanical IncidentCategory = "mechanical"
	IncidentCategoryElectrical IncidentCategory = "electrical"
	IncidentCategorySoftware   IncidentCategory = "software"
)

func ValidIncidentCategory(s string) bool {
	switch IncidentCategory(s) {
	case IncidentCategoryMechanical, IncidentCategoryElectrical, IncidentCategorySoftware:
		return true
	}
	return false
}

// Incident is one recorded machine fault or maintenance event.
type Incident struct {
	gorm.Model
	Title                 string           `json:"title" gorm:"size:140;not null"`
	Description           string           `json:"description" gorm:"type:text"`
	CustomerName          string           `json:"customer_name" gorm:"size:100"`
	SiteName              string           `json:"site_name" gorm:"size:150"`
	Location              string           `json:"location" gorm:"size:100"`
	MachineModel          string           `json:"machine_model" gorm:"size:150"`
	MachineSerial         string           `json:"machine_serial" gorm:"size:150"`
	FaultCode             string           `json:"fault_code" gorm:"size:20"`
	FaultDescription      string           `json:"fault_description" gorm:"size:255"`
	StartTime             *time.Time       `json:"start_time"`
	EndTime               *time.Time       `json:"end_time"`
	PreventiveMaintenance bool             `json:"preventive_maintenance" gorm:"default:false"`
	PartsUsed             string           `json:"parts_used" gorm:"type:text"`
	Category              IncidentCategory `json:"category" gorm:"type:incident_category;default:'mechanical'"`
	Severity              IncidentSeverity `json:"severity" gorm:"type:incident_severity;default:'Medium'"`
	Status                IncidentStatus   `json:"status" gorm:"type:incident_status;default:'Open'"`
	Parts                 []Part           `json:"parts" gorm:"many2many:incident_parts"`
}

// DurationMinutes returns the elapsed whole minutes between start time and
// end time (or now when the incident is still open). Nil when there is no
// start time, or when the effective end precedes start.
func (i *Incident) DurationMinutes() *int {
	return i.durationMinutesAt(time.Now().UTC())
}

func (i *Incident) durationMinutesAt(now time.Time) *int {
	if i.StartTime == nil {
		return nil
	}

	start := i.StartTime.UTC()
	end := now
	if i.EndTime != nil {
		end = i.EndTime.UTC()
	}

	if end.Before(start) {
		return nil
	}

	mins := int(end.Sub(start).Minutes())
	return &mins
}

// HumanDuration renders the duration as "45m", "2h 5m" or "2h", or "N/A"
// when no duration is computable.
func (i *Incident) HumanDuration() string {
	return FormatDuration(i.DurationMinutes())
}

func FormatDuration(mins *int) string {
	if mins == nil {
		return "N/A"
	}
	m := *mins
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	h, r := m/60, m%60
	if r == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, r)
}
