package repository

import (
	"context"
	"time"

	"github.com/platewise/platewise-orders-service/internal/models"
)

// In-memory mock implementations for tests.

type MockOrderRepository struct {
	Orders map[string]*models.Order
}

var _ OrderRepository = (*MockOrderRepository)(nil)

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders: make(map[string]*models.Order),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	m.Orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if order, ok := m.Orders[id]; ok {
		return order, nil
	}
	return nil, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	orders := make([]*models.Order, 0)
	for _, order := range m.Orders {
		if filter.RestaurantID != "" && order.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.CustomerID != "" && order.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, len(orders), nil
}

func (m *MockOrderRepository) ListByDateRange(ctx context.Context, restaurantID string, from, to time.Time) ([]*models.Order, error) {
	orders := make([]*models.Order, 0)
	for _, order := range m.Orders {
		if order.RestaurantID != restaurantID {
			continue
		}
		if order.CreatedAt.Before(from) || !order.CreatedAt.Before(to) {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	order, ok := m.Orders[id]
	if !ok {
		return nil
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	if status == models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}
	return nil
}

func (m *MockOrderRepository) SetPayment(ctx context.Context, id, paymentID string, status models.PaymentStatus) error {
	order, ok := m.Orders[id]
	if !ok {
		return nil
	}
	if paymentID != "" {
		order.PaymentID = paymentID
	}
	order.Payment = status
	return nil
}

type MockCustomerRepository struct {
	Customers map[string]*models.Customer
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		Customers: make(map[string]*models.Customer),
	}
}

func (m *MockCustomerRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*models.Customer, error) {
	customers := make([]*models.Customer, 0)
	for _, c := range m.Customers {
		if c.RestaurantID == restaurantID {
			customers = append(customers, c)
		}
	}
	return customers, nil
}

func (m *MockCustomerRepository) UpsertOrderStats(ctx context.Context, customer *models.Customer, orderTotal float64, orderedAt time.Time) error {
	existing, ok := m.Customers[customer.ID]
	if !ok {
		m.Customers[customer.ID] = &models.Customer{
			ID:            customer.ID,
			RestaurantID:  customer.RestaurantID,
			Name:          customer.Name,
			Email:         customer.Email,
			OrderCount:    1,
			TotalSpent:    orderTotal,
			CreatedAt:     orderedAt,
			LastOrderDate: &orderedAt,
		}
		return nil
	}
	existing.OrderCount++
	existing.TotalSpent += orderTotal
	existing.LastOrderDate = &orderedAt
	return nil
}

type MockOrderCache struct {
	Data map[string]*models.Order
}

var _ OrderCache = (*MockOrderCache)(nil)

func NewMockOrderCache() *MockOrderCache {
	return &MockOrderCache{Data: make(map[string]*models.Order)}
}

func (m *MockOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	return m.Data[id], nil
}

func (m *MockOrderCache) Set(ctx context.Context, order *models.Order) error {
	m.Data[order.ID] = order
	return nil
}

func (m *MockOrderCache) Delete(ctx context.Context, id string) error {
	delete(m.Data, id)
	return nil
}

type MockRateCache struct {
	Rates map[string]float64
}

var _ RateCache = (*MockRateCache)(nil)

func NewMockRateCache() *MockRateCache {
	return &MockRateCache{}
}

func (m *MockRateCache) GetRates(ctx context.Context) (map[string]float64, error) {
	return m.Rates, nil
}

func (m *MockRateCache) SetRates(ctx context.Context, rates map[string]float64) error {
	m.Rates = rates
	return nil
}
