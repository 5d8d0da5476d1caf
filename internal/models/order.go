package models

import "time"

// OrderType distinguishes how the order is fulfilled.
type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeDineIn   OrderType = "dine_in"
)

// OrderStatus is the kitchen-facing lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// PaymentStatus tracks the payment state independently of kitchen status.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is a persisted order. Calculation is the frozen pricing snapshot
// produced at checkout; it is never recomputed afterwards so analytics can
// reproduce historical totals exactly.
type Order struct {
	ID           string           `json:"id"`
	RestaurantID string           `json:"restaurant_id"`
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	Type         OrderType        `json:"type"`
	Status       OrderStatus      `json:"status"`
	Payment      PaymentStatus    `json:"payment_status"`
	Lines        []CartLine       `json:"lines"`
	Calculation  OrderCalculation `json:"calculation"`
	PaymentID    string           `json:"payment_id,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
	OrderStatusCompleted: {OrderStatusRefunded},
	OrderStatusCancelled: {},
	OrderStatusRefunded:  {},
}

// CanTransitionTo reports whether the status change is allowed.
func (o *Order) CanTransitionTo(to OrderStatus) bool {
	allowed, ok := validTransitions[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() bool {
	return o.CanTransitionTo(OrderStatusCancelled)
}

// CanRefund reports whether the order may be refunded.
func (o *Order) CanRefund() bool {
	return o.Status == OrderStatusCompleted && o.PaymentID != ""
}

// CheckoutRequest is the payload that turns a cart into an order. The
// caller supplies zero delivery fee and driver tip for pickup and dine-in
// order types; the engine does not infer order type.
type CheckoutRequest struct {
	RestaurantID string     `json:"restaurant_id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Type         OrderType  `json:"type"`
	Lines        []CartLine `json:"lines"`
	DeliveryFee  float64    `json:"delivery_fee"`
	Tip          float64    `json:"tip"`
	DriverTip    float64    `json:"driver_tip"`
	Notes        string     `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest changes an order's kitchen status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
	Notes  string      `json:"notes,omitempty"`
}

// OrderListFilter selects orders for listing and analytics. Zero From/To
// leave the corresponding bound open.
type OrderListFilter struct {
	RestaurantID string       `json:"restaurant_id"`
	CustomerID   string       `json:"customer_id"`
	Status       *OrderStatus `json:"status,omitempty"`
	From         time.Time    `json:"from,omitempty"`
	To           time.Time    `json:"to,omitempty"`
	Limit        int          `json:"limit"`
	Offset       int          `json:"offset"`
}
