package dto

import "time"

type IncidentInputDTO struct {
	Title                 string     `json:"title" binding:"required"`
	Description           string     `json:"description"`
	CustomerName          string     `json:"customer_name" binding:"required"`
	SiteName              string     `json:"site_name"`
	Location              string     `json:"location"`
	MachineModel          string     `json:"machine_model"`
	MachineSerial         string     `json:"machine_serial"`
	FaultCode             string     `json:"fault_code"`
	FaultDescription      string     `json:"fault_description"`
	StartTime             *time.Time `json:"start_time"`
	EndTime               *time.Time `json:"end_time"`
	PreventiveMaintenance bool       `json:"preventive_maintenance"`
	PartsUsed             string     `json:"parts_used"`
	Category              string     `json:"category"`
	Severity              string     `json:"severity"`
	Status                string     `json:"status"`
	PartIDs               []uint     `json:"part_ids"`
}

type UpdateIncidentStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
