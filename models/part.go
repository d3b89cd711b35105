package models

import "time"

// Part is a named replaceable component that can be attached to incidents.
type Part struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:120;not null;unique"`
	CreatedAt time.Time  `json:"created_at"`
	Incidents []Incident `json:"-" gorm:"many2many:incident_parts"`
}
