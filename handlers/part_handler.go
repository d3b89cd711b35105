package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/response"
	"github.com/muims-dev/muims/services"
)

type PartHandler struct {
	service *services.PartService
}

func NewPartHandler(service *services.PartService) *PartHandler {
	return &PartHandler{service: service}
}

// ListParts godoc
// @Summary List replaceable parts
// @Tags parts
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /parts [get]
func (h *PartHandler) ListParts(c *gin.Context) {
	parts, err := h.service.ListParts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Data: parts})
}
