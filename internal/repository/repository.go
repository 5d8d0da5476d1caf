package repository

import (
	"context"
	"time"

	"github.com/platewise/platewise-orders-service/internal/models"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
	ListByDateRange(ctx context.Context, restaurantID string, from, to time.Time) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	SetPayment(ctx context.Context, id, paymentID string, status models.PaymentStatus) error
}

// CustomerRepository defines persistence operations for customer records
// and their rolled-up order statistics.
type CustomerRepository interface {
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*models.Customer, error)
	UpsertOrderStats(ctx context.Context, customer *models.Customer, orderTotal float64, orderedAt time.Time) error
}

// OrderCache defines caching operations for orders.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}

// RateCache stores exchange rate tables between provider refreshes.
type RateCache interface {
	GetRates(ctx context.Context) (map[string]float64, error)
	SetRates(ctx context.Context, rates map[string]float64) error
}
