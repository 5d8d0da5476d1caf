package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/service"
)

// Handlers holds all HTTP handlers for the orders service.
type Handlers struct {
	orderService     *service.OrderService
	analyticsService *service.AnalyticsService
	config           *config.Config
	logger           *logging.LoggerV2
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	orderService *service.OrderService,
	analyticsService *service.AnalyticsService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		orderService:     orderService,
		analyticsService: analyticsService,
		config:           cfg,
		logger:           logging.NewLoggerV2("handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	if err == apperrors.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if validationErr, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
