package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/config"
	"github.com/muims-dev/muims/db"
	"github.com/muims-dev/muims/middleware"
	"github.com/muims-dev/muims/refdata"
	"github.com/muims-dev/muims/routes"
)

// @title MUIMS API
// @version 1.0
// @description Machine Uptime Issues Management System
// @BasePath /
func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()

	// Initialize database connection and migrate schemas
	db.Init()

	// Reference tables are read-only after this point
	tables, err := refdata.Load(config.ReferenceDataPath)
	if err != nil {
		log.Fatalf("Failed to load reference data: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	routes.RegisterRoutes(router, db.DB, tables)

	port := ":" + config.ServerPort
	log.Printf("Starting API server on %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}
