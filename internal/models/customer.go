package models

import "time"

// Customer is the analytics-facing customer record maintained by checkout.
type Customer struct {
	ID            string     `json:"id"`
	RestaurantID  string     `json:"restaurant_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	OrderCount    int        `json:"order_count"`
	TotalSpent    float64    `json:"total_spent"`
	CreatedAt     time.Time  `json:"created_at"`
	LastOrderDate *time.Time `json:"last_order_date,omitempty"`
}
