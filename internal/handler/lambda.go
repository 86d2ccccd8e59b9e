package handler

import (
	"errors"
	"net/http"

	"lambdaf-dashboard/internal/service"
	"lambdaf-dashboard/internal/view"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetDashboard godoc
// @Summary      Current λF dashboard
// @Description  Returns the latest λF score, delta, status badge, chart series and table rows. Store failures are reported in the warning field.
// @Tags         lambda-f
// @Produce      json
// @Success      200  {object}  view.Dashboard
// @Failure      503  {object}  map[string]string
// @Router       /api/lambda-f [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	if h.lambda == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lambda-f service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()

	snap := h.lambda.Snapshot(ctx)
	span.SetAttributes(attribute.Int("samples", len(snap.Series)))

	c.JSON(http.StatusOK, view.Build(snap))
}

// GetSeries godoc
// @Summary      Normalized λF series
// @Description  Returns the ascending series, per-sample contributions, latest classification and delta
// @Tags         lambda-f
// @Produce      json
// @Success      200  {object}  service.Snapshot
// @Failure      503  {object}  map[string]string
// @Router       /api/lambda-f/series [get]
func (h *Handler) GetSeries(c *gin.Context) {
	if h.lambda == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lambda-f service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-series")
	defer span.End()

	c.JSON(http.StatusOK, h.lambda.Snapshot(ctx))
}

// Refresh godoc
// @Summary      Refresh λF data
// @Description  Clears the cached fetch result and returns a freshly fetched dashboard
// @Tags         lambda-f
// @Produce      json
// @Success      200  {object}  view.Dashboard
// @Failure      429  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/lambda-f/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	if h.lambda == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lambda-f service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh")
	defer span.End()

	if err := h.lambda.Refresh(ctx); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrRefreshThrottled) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view.Build(h.lambda.Snapshot(ctx)))
}
