package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/muims-dev/muims/config"
	"github.com/muims-dev/muims/db"
	"github.com/muims-dev/muims/models"
	"github.com/muims-dev/muims/repositories"
	"github.com/muims-dev/muims/services"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: muimsctl <command>

commands:
  reset-db             drop and recreate all tables
  seed                 load demo incidents
  seed-parts [file]    load part names from a flat file (one per line)`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	config.LoadConfig()
	db.Init()

	switch os.Args[1] {
	case "reset-db":
		resetDB()
	case "seed":
		seed()
	case "seed-parts":
		path := config.PartsFilePath
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		seedParts(path)
	default:
		usage()
	}
}

func resetDB() {
	for _, table := range []string{"incident_parts", "incidents", "parts", "audit_logs"} {
		if err := db.DB.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			log.Fatalf("drop %s: %v", table, err)
		}
	}
	if err := db.Migrate(db.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	fmt.Println("DB reset.")
}

func seed() {
	if err := db.DB.Where("1 = 1").Delete(&models.Incident{}).Error; err != nil {
		log.Fatalf("clear incidents: %v", err)
	}

	now := time.Now().UTC()
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	incidents := []models.Incident{
		{
			Title: "Conveyor Belt Malfunction",
			Description: "Main conveyor belt stopped unexpectedly.\nUnusual grinding noises reported before shutdown.\nMaintenance team investigated motor assembly.",
			CustomerName: "VLTX",
			SiteName: "Birmingham",
			Location: "United Kingdom",
			MachineModel: "7000",
			MachineSerial: "BIRM27",
			FaultDescription: "Stacker Module Mechanical",
			FaultCode: "3M",
			StartTime: ago(56 * time.Hour),
			EndTime: ago(54*time.Hour + 30*time.Minute),
			Category: models.IncidentCategoryMechanical,
			Severity: models.IncidentSeverityHigh,
			Status: models.IncidentStatusResolved,
		},
		{
			Title: "Server Rack Power Alert",
			Description: "Critical power supply fault in Server Rack B.\nMultiple servers showing unstable power readings.",
			CustomerName: "Bol",
			SiteName: "Belfast",
			Location: "United Kingdom",
			MachineModel: "7000",
			FaultDescription: "System Electrical",
			FaultCode: "5E",
			StartTime: ago(4 * time.Hour),
			Category: models.IncidentCategoryElectrical,
			Severity: models.IncidentSeverityHigh,
			Status: models.IncidentStatusOpen,
		},
		{
			Title: "PLC Programming Error",
			Description: "Assembly line control system showing erratic behavior.\nRandom stops and starts affecting production schedule.",
			CustomerName: "Bank Muscat",
			SiteName: "Muscat",
			Location: "Oman",
			MachineModel: "V-Series",
			FaultDescription: "Software Error Message",
			FaultCode: "10E",
			StartTime: ago(6*time.Hour + 20*time.Minute),
			Category: models.IncidentCategorySoftware,
			Severity: models.IncidentSeverityMedium,
			Status: models.IncidentStatusInProgress,
		},
		{
			Title: "Cooling Fan Noise",
			Description: "Unusual noise from cooling fan unit.\nNo performance impact observed yet.",
			CustomerName: "TransG",
			SiteName: "Dubai",
			Location: "UAE",
			MachineModel: "7000",
			FaultDescription: "Feedscan Module Mechanical",
			FaultCode: "1M",
			StartTime: ago(27 * time.Hour),
			EndTime: ago(26*time.Hour + 45*time.Minute),
			Category: models.IncidentCategoryMechanical,
			Severity: models.IncidentSeverityLow,
			Status: models.IncidentStatusResolved,
		},
		{
			Title: "Scheduled Hydraulic System Check",
			Description: "Routine preventive maintenance check revealed potential issues.\nHydraulic pressure slightly below optimal range.",
			CustomerName: "VLTX",
			SiteName: "London Kings Cross",
			Location: "United Kingdom",
			MachineModel: "Cobra",
			FaultDescription: "PM (Foreign Object Found)",
			FaultCode: "9FO",
			StartTime: ago(30 * time.Minute),
			PreventiveMaintenance: true,
			Category: models.IncidentCategoryMechanical,
			Severity: models.IncidentSeverityMedium,
			Status: models.IncidentStatusOpen,
		},
	}

	for i := range incidents {
		if err := db.DB.Create(&incidents[i]).Error; err != nil {
			log.Fatalf("seed incident %q: %v", incidents[i].Title, err)
		}
	}
	fmt.Printf("Seeded %d demo incidents with mixed severities and statuses.\n", len(incidents))
}

func seedParts(path string) {
	repos := repositories.New(db.DB)
	svc := services.NewPartService(repos)

	added, err := svc.SeedFromFile(path)
	if err != nil {
		log.Fatalf("seed parts: %v", err)
	}
	fmt.Printf("Seeded %d parts.\n", added)
}
