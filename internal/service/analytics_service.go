package service

import (
	"context"
	"time"

	"github.com/platewise/platewise-orders-service/internal/analytics"
	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/models"
	"github.com/platewise/platewise-orders-service/internal/pricing"
	"github.com/platewise/platewise-orders-service/internal/repository"
)

// Dashboard is the full analytics view for a restaurant over one period.
type Dashboard struct {
	RestaurantID string                                           `json:"restaurant_id"`
	From         time.Time                                        `json:"from"`
	To           time.Time                                        `json:"to"`
	Revenue      analytics.RevenueSummary                         `json:"revenue"`
	Orders       analytics.OrderSummary                           `json:"orders"`
	ByType       map[models.OrderType]analytics.Breakdown         `json:"by_type"`
	ByStatus     map[models.OrderStatus]analytics.Breakdown       `json:"by_status"`
	Customers    analytics.CustomerSummary                        `json:"customers"`
	TopCustomers []*models.Customer                               `json:"top_customers"`
	RevenueDelta float64                                          `json:"revenue_delta"`
	OrdersDelta  int                                              `json:"orders_delta"`
}

// AnalyticsService builds dashboards from stored orders and customers.
type AnalyticsService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	logger       *logging.LoggerV2
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository) *AnalyticsService {
	return &AnalyticsService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		logger:       logging.NewLoggerV2("analytics-service"),
	}
}

// PriorPeriod returns the equal-length period immediately preceding [from, to).
func PriorPeriod(from, to time.Time) (time.Time, time.Time) {
	length := to.Sub(from)
	return from.Add(-length), from
}

// Dashboard aggregates orders in [from, to) for a restaurant, with deltas
// against the preceding period of the same length.
func (s *AnalyticsService) Dashboard(ctx context.Context, restaurantID string, from, to time.Time) (*Dashboard, error) {
	if !to.After(from) {
		return nil, apperrors.NewValidationError("to", "period end must be after start")
	}

	s.logger.Debug("Building dashboard", logging.Fields{
		"restaurant_id": restaurantID,
		"from":          from,
		"to":            to,
	})

	orders, err := s.orderRepo.ListByDateRange(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}

	priorFrom, priorTo := PriorPeriod(from, to)
	priorOrders, err := s.orderRepo.ListByDateRange(ctx, restaurantID, priorFrom, priorTo)
	if err != nil {
		return nil, err
	}

	customers, err := s.customerRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	revenue := analytics.RevenueMetrics(orders)
	priorRevenue := analytics.RevenueMetrics(priorOrders)

	dashboard := &Dashboard{
		RestaurantID: restaurantID,
		From:         from,
		To:           to,
		Revenue:      revenue,
		Orders:       analytics.OrderMetrics(orders),
		ByType:       analytics.OrdersByType(orders),
		ByStatus:     analytics.OrdersByStatus(orders),
		Customers:    analytics.CustomerMetrics(customers, from, to),
		TopCustomers: analytics.TopCustomers(customers, 10),
		RevenueDelta: pricing.Round2(revenue.Total - priorRevenue.Total),
		OrdersDelta:  len(orders) - len(priorOrders),
	}

	s.logger.Info("Dashboard built", logging.Fields{
		"restaurant_id": restaurantID,
		"orders":        len(orders),
		"revenue":       revenue.Total,
	})

	return dashboard, nil
}
