package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise-orders-service/internal/models"
)

// PriceCartRequest is the body for POST /api/v1/cart/price.
type PriceCartRequest struct {
	RestaurantID string            `json:"restaurant_id"`
	Lines        []models.CartLine `json:"lines"`
	DeliveryFee  float64           `json:"delivery_fee"`
	Tip          float64           `json:"tip"`
	DriverTip    float64           `json:"driver_tip"`
}

// PriceCart handles POST /api/v1/cart/price. It returns the full calculation
// for a cart without creating an order, so storefronts can show a live total.
func (h *Handlers) PriceCart(c *gin.Context) {
	var req PriceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.RestaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id is required"})
		return
	}

	calc, err := h.orderService.PriceCart(c.Request.Context(), req.RestaurantID, req.Lines, req.DeliveryFee, req.Tip, req.DriverTip)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, calc)
}
