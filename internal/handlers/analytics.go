package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AnalyticsDashboard handles GET /api/v1/analytics/dashboard.
// Requires restaurant_id, from and to (RFC 3339); the range is half-open
// [from, to).
func (h *Handlers) AnalyticsDashboard(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id is required"})
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected RFC 3339"})
		return
	}

	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected RFC 3339"})
		return
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), restaurantID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
