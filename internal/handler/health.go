package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports liveness and which record store backs the dashboard. Does not query the store.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	store := "none"
	if h.lambda != nil {
		store = h.lambda.Backend()
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Store: store})
}
