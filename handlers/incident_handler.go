package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/dto"
	"github.com/muims-dev/muims/response"
	"github.com/muims-dev/muims/services"
	"github.com/muims-dev/muims/utils"
	"github.com/muims-dev/muims/validation"
	"gorm.io/gorm"
)

type IncidentHandler struct {
	service *services.IncidentService
}

func NewIncidentHandler(service *services.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// CreateIncident godoc
// @Summary Report a new incident
// @Tags incidents
// @Accept json
// @Produce json
// @Param incident body dto.IncidentInputDTO true "Incident fields"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /incidents [post]
func (h *IncidentHandler) CreateIncident(c *gin.Context) {
	var input dto.IncidentInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	incident, err := h.service.CreateIncident(c, input)
	if err != nil {
		respondIncidentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessResponse{Data: incident})
}

// ListIncidents godoc
// @Summary List incidents with optional filters and pagination
// @Tags incidents
// @Produce json
// @Param q query string false "Case-insensitive search over title and description"
// @Param customer query string false "Exact customer match"
// @Param severity query string false "Low, Medium or High; other values are ignored"
// @Param status query string false "Exact status match"
// @Param date_from query string false "Inclusive creation-time lower bound"
// @Param date_to query string false "Inclusive creation-time upper bound"
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 10)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /incidents [get]
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	var filter dto.IncidentFilterDTO
	var page dto.PaginationDTO
	_ = c.ShouldBindQuery(&filter)
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	incidents, total, err := h.service.ListIncidents(filter, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.PaginatedResponse{
		Items:      incidents,
		TotalCount: total,
		Page:       page.Page,
		PerPage:    page.PerPage,
	})
}

// ExportIncidents godoc
// @Summary Export the filtered incident list as CSV
// @Tags incidents
// @Produce text/csv
// @Param q query string false "Case-insensitive search over title and description"
// @Param customer query string false "Exact customer match"
// @Param severity query string false "Low, Medium or High; other values are ignored"
// @Param status query string false "Exact status match"
// @Param date_from query string false "Inclusive creation-time lower bound"
// @Param date_to query string false "Inclusive creation-time upper bound"
// @Success 200 {string} string "CSV payload"
// @Failure 500 {object} response.ErrorResponse
// @Router /incidents/export [get]
func (h *IncidentHandler) ExportIncidents(c *gin.Context) {
	var filter dto.IncidentFilterDTO
	_ = c.ShouldBindQuery(&filter)

	blob, err := h.service.ExportIncidents(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	filename := fmt.Sprintf("incidents-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", blob)
}

// GetStats godoc
// @Summary Dashboard summary: totals and recent incidents
// @Tags incidents
// @Produce json
// @Success 200 {object} services.IncidentStats
// @Failure 500 {object} response.ErrorResponse
// @Router /incidents/stats [get]
func (h *IncidentHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetChoices godoc
// @Summary Allowed choice lists for the current form selection
// @Tags incidents
// @Produce json
// @Param customer query string false "Chosen customer"
// @Param site query string false "Chosen site"
// @Param fault_code query string false "Chosen fault code"
// @Success 200 {object} refdata.Choices
// @Router /incidents/choices [get]
func (h *IncidentHandler) GetChoices(c *gin.Context) {
	choices := h.service.AllowedChoices(
		c.Query("customer"),
		c.Query("site"),
		c.Query("fault_code"),
	)
	c.JSON(http.StatusOK, choices)
}

// GetIncident godoc
// @Summary Incident detail including parts and derived duration
// @Tags incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /incidents/{id} [get]
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ID"})
		return
	}

	incident, err := h.service.GetIncident(id)
	if err != nil {
		respondIncidentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":             incident,
		"duration_minutes": incident.DurationMinutes(),
		"human_duration":   incident.HumanDuration(),
	})
}

// UpdateIncident godoc
// @Summary Edit an incident; re-validated like creation
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param incident body dto.IncidentInputDTO true "Incident fields"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /incidents/{id} [put]
func (h *IncidentHandler) UpdateIncident(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ID"})
		return
	}

	var input dto.IncidentInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	incident, err := h.service.UpdateIncident(c, id, input)
	if err != nil {
		respondIncidentError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Data: incident})
}

// UpdateStatus godoc
// @Summary Set incident status to any of Open, In Progress, Resolved
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param status body dto.UpdateIncidentStatusDTO true "New status"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /incidents/{id}/status [put]
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ID"})
		return
	}

	var input dto.UpdateIncidentStatusDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	incident, err := h.service.SetStatus(c, id, input.Status)
	if err != nil {
		respondIncidentError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Data: incident})
}

// StartIncident godoc
// @Summary Mark an incident as In Progress
// @Tags incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /incidents/{id}/start [post]
func (h *IncidentHandler) StartIncident(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ID"})
		return
	}

	incident, err := h.service.StartIncident(c, id)
	if err != nil {
		respondIncidentError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Data: incident})
}

// ResolveIncident godoc
// @Summary Mark an incident as Resolved
// @Tags incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /incidents/{id}/resolve [post]
func (h *IncidentHandler) ResolveIncident(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid ID"})
		return
	}

	incident, err := h.service.ResolveIncident(c, id)
	if err != nil {
		respondIncidentError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{Data: incident})
}

func respondIncidentError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, response.ValidationErrorResponse{Errors: fieldErrs})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "incident not found"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
	}
}
