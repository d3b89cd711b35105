package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/muims-dev/muims/docs"
	"github.com/muims-dev/muims/handlers"
	"github.com/muims-dev/muims/refdata"
	"github.com/muims-dev/muims/repositories"
	"github.com/muims-dev/muims/services"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, tables *refdata.Tables) {

	// init
	repos_instance := repositories.New(db)
	services_instance := services.New(repos_instance, tables)
	handlers_instance := handlers.New(services_instance)

	// setup
	r.GET("/health", handlers.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	incidents := r.Group("/incidents")
	{
		incidents.GET("", handlers_instance.Incident.ListIncidents)
		incidents.GET("/export", handlers_instance.Incident.ExportIncidents)
		incidents.GET("/stats", handlers_instance.Incident.GetStats)
		incidents.GET("/choices", handlers_instance.Incident.GetChoices)
		incidents.GET("/:id", handlers_instance.Incident.GetIncident)
		incidents.POST("", handlers_instance.Incident.CreateIncident)
		incidents.PUT("/:id", handlers_instance.Incident.UpdateIncident)
		incidents.PUT("/:id/status", handlers_instance.Incident.UpdateStatus)
		incidents.POST("/:id/start", handlers_instance.Incident.StartIncident)
		incidents.POST("/:id/resolve", handlers_instance.Incident.ResolveIncident)
	}

	parts := r.Group("/parts")
	{
		parts.GET("", handlers_instance.Part.ListParts)
	}

	r.GET("/audit-logs", handlers_instance.Audit.GetAuditLogs)
}
