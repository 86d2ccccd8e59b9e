package handler

import (
	"context"

	"lambdaf-dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type LambdaReader interface {
	Backend() string
	Snapshot(ctx context.Context) service.Snapshot
	Refresh(ctx context.Context) error
}

type Handler struct {
	tracer trace.Tracer
	lambda LambdaReader
}

func New(tracer trace.Tracer, lambda LambdaReader) *Handler {
	return &Handler{
		tracer: tracer,
		lambda: lambda,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/lambda-f", NoStore())
	api.GET("", h.GetDashboard)
	api.GET("/series", h.GetSeries)
	api.POST("/refresh", h.Refresh)
}
