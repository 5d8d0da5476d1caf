package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/platewise/platewise-orders-service/internal/clients"
	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/events"
	"github.com/platewise/platewise-orders-service/internal/models"
	"github.com/platewise/platewise-orders-service/internal/repository"
	"github.com/platewise/platewise-orders-service/internal/service"
)

func newTestRouter() (*gin.Engine, *repository.MockOrderRepository) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Pricing: config.PricingConfig{
			PlatformFeeUSD: 1.95,
			CurrencyCode:   "USD",
			CurrencySymbol: "$",
			DefaultTaxName: "Sales Tax",
			DefaultTaxRate: 0.09,
		},
		Features: config.FeatureFlags{
			EnableOrderCaching: true,
			EnableOrderEvents:  true,
		},
	}

	orderRepo := repository.NewMockOrderRepository()
	customerRepo := repository.NewMockCustomerRepository()

	orderService := service.NewOrderService(
		orderRepo,
		customerRepo,
		repository.NewMockOrderCache(),
		repository.NewMockRateCache(),
		nil,
		clients.NewMockPaymentClient(),
		events.NewMockEventPublisher(),
		service.NewStaticSettingsProvider(cfg.Pricing),
		cfg,
	)
	analyticsService := service.NewAnalyticsService(orderRepo, customerRepo)

	h := NewHandlers(orderService, analyticsService, cfg)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		api.POST("/cart/price", h.PriceCart)
		api.POST("/orders", h.Checkout)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.PATCH("/orders/:id/status", h.UpdateOrderStatus)
		api.POST("/orders/:id/cancel", h.CancelOrder)
		api.POST("/orders/:id/refund", h.RefundOrder)
		api.GET("/analytics/dashboard", h.AnalyticsDashboard)
	}
	router.GET("/health", h.Health)

	return router, orderRepo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestPriceCartEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/price", PriceCartRequest{
		RestaurantID: "rest_1",
		Lines: []models.CartLine{
			{MenuItemID: "item_burger", BasePrice: 10.00, Quantity: 2},
		},
		DeliveryFee: 4.99,
		Tip:         3.00,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var calc models.OrderCalculation
	if err := json.Unmarshal(w.Body.Bytes(), &calc); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if calc.Subtotal != 20.00 {
		t.Errorf("Subtotal = %v, want 20.00", calc.Subtotal)
	}
	// 20.00 + 1.80 + 4.99 + 1.95 + 3.00
	if calc.Total != 31.74 {
		t.Errorf("Total = %v, want 31.74", calc.Total)
	}
}

func TestPriceCartEndpoint_MissingRestaurant(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/price", PriceCartRequest{
		Lines: []models.CartLine{{MenuItemID: "x", BasePrice: 1, Quantity: 1}},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	router, repo := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/orders", models.CheckoutRequest{
		RestaurantID: "rest_1",
		CustomerID:   "cust_1",
		CustomerName: "Ada",
		Type:         models.OrderTypePickup,
		Lines: []models.CartLine{
			{MenuItemID: "item_burger", BasePrice: 10.00, Quantity: 1},
		},
		Tip: 2.00,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if order.ID == "" {
		t.Error("order ID not set")
	}
	if order.Calculation.Total == 0 {
		t.Error("calculation not frozen on order")
	}
	if _, ok := repo.Orders[order.ID]; !ok {
		t.Error("order not persisted")
	}
}

func TestCheckoutEndpoint_ValidationError(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/orders", models.CheckoutRequest{
		RestaurantID: "rest_1",
		Type:         models.OrderTypePickup,
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["field"] != "lines" {
		t.Errorf("field = %v, want lines", resp["field"])
	}
}

func TestGetOrderEndpoint_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/orders/ord_missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestUpdateOrderStatusEndpoint_InvalidTransition(t *testing.T) {
	router, repo := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/orders", models.CheckoutRequest{
		RestaurantID: "rest_1",
		Type:         models.OrderTypePickup,
		Lines:        []models.CartLine{{MenuItemID: "x", BasePrice: 5, Quantity: 1}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout failed: %d", w.Code)
	}
	var order models.Order
	json.Unmarshal(w.Body.Bytes(), &order)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", models.UpdateOrderStatusRequest{
		Status: models.OrderStatusCompleted,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for pending -> completed, got %d", w.Code)
	}

	if repo.Orders[order.ID].Status != models.OrderStatusPending {
		t.Error("status changed despite invalid transition")
	}
}

func TestUpdateOrderStatusEndpoint_UnknownStatus(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPatch, "/api/v1/orders/ord_x/status", map[string]string{
		"status": "teleported",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCancelOrderEndpoint_RequiresReason(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/orders/ord_x/cancel", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestAnalyticsDashboardEndpoint_ParamValidation(t *testing.T) {
	router, _ := newTestRouter()

	tests := []struct {
		name string
		path string
	}{
		{"missing restaurant", "/api/v1/analytics/dashboard?from=2024-03-01T00:00:00Z&to=2024-03-08T00:00:00Z"},
		{"bad from", "/api/v1/analytics/dashboard?restaurant_id=rest_1&from=yesterday&to=2024-03-08T00:00:00Z"},
		{"missing to", "/api/v1/analytics/dashboard?restaurant_id=rest_1&from=2024-03-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestAnalyticsDashboardEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet,
		"/api/v1/analytics/dashboard?restaurant_id=rest_1&from=2024-03-01T00:00:00Z&to=2024-03-08T00:00:00Z", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["restaurant_id"] != "rest_1" {
		t.Errorf("restaurant_id = %v, want rest_1", resp["restaurant_id"])
	}
}

func TestListOrdersEndpoint_BadDate(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/orders?from=notadate", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
