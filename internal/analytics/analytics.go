// Package analytics reproduces revenue, order and customer rollups from
// persisted order records. It consumes the frozen calculation snapshots
// produced at checkout, so historical totals come back byte for byte; it
// never re-prices anything.
//
// All functions are pure and range-agnostic. Pairing a period with the
// equal-length period before it is the service layer's job.
package analytics

import (
	"sort"
	"time"

	"github.com/platewise/platewise-orders-service/internal/models"
	"github.com/platewise/platewise-orders-service/internal/pricing"
)

// RevenueSummary sums the monetary components of paid orders. Unpaid
// orders carry no revenue; they still count toward volume metrics.
type RevenueSummary struct {
	Total       float64 `json:"total"`
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	Tip         float64 `json:"tip"`
	DeliveryFee float64 `json:"delivery_fee"`
	PlatformFee float64 `json:"platform_fee"`
	PaidOrders  int     `json:"paid_orders"`
}

// RevenueMetrics sums calculation components across paid orders.
func RevenueMetrics(orders []*models.Order) RevenueSummary {
	var s RevenueSummary
	for _, o := range orders {
		if o.Payment != models.PaymentStatusPaid {
			continue
		}
		calc := o.Calculation
		s.Total += calc.Total
		s.Subtotal += calc.Subtotal
		s.Tax += calc.TaxTotal
		s.Tip += calc.Tip + calc.DriverTip
		s.DeliveryFee += calc.DeliveryFee
		s.PlatformFee += calc.PlatformFee
		s.PaidOrders++
	}
	s.Total = pricing.Round2(s.Total)
	s.Subtotal = pricing.Round2(s.Subtotal)
	s.Tax = pricing.Round2(s.Tax)
	s.Tip = pricing.Round2(s.Tip)
	s.DeliveryFee = pricing.Round2(s.DeliveryFee)
	s.PlatformFee = pricing.Round2(s.PlatformFee)
	return s
}

// OrderSummary counts orders and derives the average paid order value.
type OrderSummary struct {
	TotalOrders       int                        `json:"total_orders"`
	PaidOrders        int                        `json:"paid_orders"`
	ByStatus          map[models.OrderStatus]int `json:"by_status"`
	AverageOrderValue float64                    `json:"average_order_value"`
}

// OrderMetrics counts orders by status. Average order value divides paid
// revenue by paid order count and is zero when nothing is paid.
func OrderMetrics(orders []*models.Order) OrderSummary {
	s := OrderSummary{ByStatus: make(map[models.OrderStatus]int)}
	var paidRevenue float64
	for _, o := range orders {
		s.TotalOrders++
		s.ByStatus[o.Status]++
		if o.Payment == models.PaymentStatusPaid {
			s.PaidOrders++
			paidRevenue += o.Calculation.Total
		}
	}
	if s.PaidOrders > 0 {
		s.AverageOrderValue = pricing.Round2(paidRevenue / float64(s.PaidOrders))
	}
	return s
}

// Breakdown is a count plus paid revenue for one grouping bucket.
type Breakdown struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// OrdersByType groups order counts and paid revenue by fulfillment type.
func OrdersByType(orders []*models.Order) map[models.OrderType]Breakdown {
	out := make(map[models.OrderType]Breakdown)
	for _, o := range orders {
		b := out[o.Type]
		b.Count++
		if o.Payment == models.PaymentStatusPaid {
			b.Revenue = pricing.Round2(b.Revenue + o.Calculation.Total)
		}
		out[o.Type] = b
	}
	return out
}

// OrdersByStatus groups order counts and paid revenue by kitchen status.
func OrdersByStatus(orders []*models.Order) map[models.OrderStatus]Breakdown {
	out := make(map[models.OrderStatus]Breakdown)
	for _, o := range orders {
		b := out[o.Status]
		b.Count++
		if o.Payment == models.PaymentStatusPaid {
			b.Revenue = pricing.Round2(b.Revenue + o.Calculation.Total)
		}
		out[o.Status] = b
	}
	return out
}

// CustomerSummary splits customers active in a range into new vs returning.
type CustomerSummary struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Returning int `json:"returning"`
}

// CustomerMetrics counts customers whose creation or last order falls in
// [from, to). A customer created in the range is new; one created earlier
// who ordered in the range is returning.
func CustomerMetrics(customers []*models.Customer, from, to time.Time) CustomerSummary {
	var s CustomerSummary
	for _, c := range customers {
		createdIn := inRange(c.CreatedAt, from, to)
		orderedIn := c.LastOrderDate != nil && inRange(*c.LastOrderDate, from, to)
		if !createdIn && !orderedIn {
			continue
		}
		s.Total++
		if createdIn {
			s.New++
		} else {
			s.Returning++
		}
	}
	return s
}

// TopCustomers returns the n biggest spenders, descending by total spent
// with a stable name tie-break.
func TopCustomers(customers []*models.Customer, n int) []*models.Customer {
	ranked := make([]*models.Customer, len(customers))
	copy(ranked, customers)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalSpent != ranked[j].TotalSpent {
			return ranked[i].TotalSpent > ranked[j].TotalSpent
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
