package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/response"
)

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.MessageResponse{Message: "ok"})
}
