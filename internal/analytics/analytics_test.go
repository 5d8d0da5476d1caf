package analytics

import (
	"testing"
	"time"

	"github.com/platewise/platewise-orders-service/internal/models"
)

func paidOrder(total float64, orderType models.OrderType, status models.OrderStatus) *models.Order {
	return &models.Order{
		Type:    orderType,
		Status:  status,
		Payment: models.PaymentStatusPaid,
		Calculation: models.OrderCalculation{
			Currency: "USD",
			Subtotal: total,
			Total:    total,
		},
	}
}

func unpaidOrder(total float64, orderType models.OrderType, status models.OrderStatus) *models.Order {
	o := paidOrder(total, orderType, status)
	o.Payment = models.PaymentStatusPending
	return o
}

func TestRevenueMetrics_ExcludesUnpaid(t *testing.T) {
	// 6 paid totaling 250.00, 4 unpaid totaling 80.00.
	orders := []*models.Order{
		paidOrder(50.00, models.OrderTypeDelivery, models.OrderStatusCompleted),
		paidOrder(40.00, models.OrderTypePickup, models.OrderStatusCompleted),
		paidOrder(45.00, models.OrderTypePickup, models.OrderStatusCompleted),
		paidOrder(35.00, models.OrderTypeDineIn, models.OrderStatusCompleted),
		paidOrder(30.00, models.OrderTypeDelivery, models.OrderStatusCompleted),
		paidOrder(50.00, models.OrderTypeDelivery, models.OrderStatusCompleted),
		unpaidOrder(20.00, models.OrderTypePickup, models.OrderStatusPending),
		unpaidOrder(20.00, models.OrderTypePickup, models.OrderStatusPending),
		unpaidOrder(20.00, models.OrderTypeDelivery, models.OrderStatusCancelled),
		unpaidOrder(20.00, models.OrderTypeDineIn, models.OrderStatusPending),
	}

	revenue := RevenueMetrics(orders)
	if revenue.Total != 250.00 {
		t.Errorf("revenue Total = %v, want 250.00", revenue.Total)
	}
	if revenue.PaidOrders != 6 {
		t.Errorf("PaidOrders = %d, want 6", revenue.PaidOrders)
	}

	summary := OrderMetrics(orders)
	if summary.TotalOrders != 10 {
		t.Errorf("TotalOrders = %d, want 10 (unpaid still count toward volume)", summary.TotalOrders)
	}
	if summary.AverageOrderValue != 41.67 {
		t.Errorf("AverageOrderValue = %v, want 41.67", summary.AverageOrderValue)
	}
}

func TestRevenueMetrics_SumsComponents(t *testing.T) {
	orders := []*models.Order{
		{
			Payment: models.PaymentStatusPaid,
			Calculation: models.OrderCalculation{
				Subtotal:    40.00,
				TaxTotal:    3.60,
				DeliveryFee: 4.99,
				PlatformFee: 1.95,
				Tip:         5.00,
				DriverTip:   2.00,
				Total:       57.54,
			},
		},
		{
			Payment: models.PaymentStatusPaid,
			Calculation: models.OrderCalculation{
				Subtotal:    20.00,
				TaxTotal:    1.80,
				PlatformFee: 1.95,
				Total:       23.75,
			},
		},
	}

	got := RevenueMetrics(orders)
	if got.Subtotal != 60.00 {
		t.Errorf("Subtotal = %v, want 60.00", got.Subtotal)
	}
	if got.Tax != 5.40 {
		t.Errorf("Tax = %v, want 5.40", got.Tax)
	}
	if got.Tip != 7.00 {
		t.Errorf("Tip = %v, want 7.00 (tip + driver tip)", got.Tip)
	}
	if got.DeliveryFee != 4.99 {
		t.Errorf("DeliveryFee = %v, want 4.99", got.DeliveryFee)
	}
	if got.PlatformFee != 3.90 {
		t.Errorf("PlatformFee = %v, want 3.90", got.PlatformFee)
	}
	if got.Total != 81.29 {
		t.Errorf("Total = %v, want 81.29", got.Total)
	}
}

func TestOrderMetrics_NoPaidOrders(t *testing.T) {
	orders := []*models.Order{
		unpaidOrder(10, models.OrderTypePickup, models.OrderStatusPending),
	}

	got := OrderMetrics(orders)
	if got.AverageOrderValue != 0 {
		t.Errorf("AverageOrderValue = %v, want 0 when nothing is paid", got.AverageOrderValue)
	}
}

func TestOrderMetrics_Empty(t *testing.T) {
	got := OrderMetrics(nil)
	if got.TotalOrders != 0 || got.AverageOrderValue != 0 {
		t.Errorf("empty input: %+v, want zeros", got)
	}
}

func TestOrdersByType(t *testing.T) {
	orders := []*models.Order{
		paidOrder(30.00, models.OrderTypeDelivery, models.OrderStatusCompleted),
		paidOrder(20.00, models.OrderTypeDelivery, models.OrderStatusCompleted),
		paidOrder(15.00, models.OrderTypePickup, models.OrderStatusCompleted),
		unpaidOrder(99.00, models.OrderTypeDineIn, models.OrderStatusPending),
	}

	got := OrdersByType(orders)

	if b := got[models.OrderTypeDelivery]; b.Count != 2 || b.Revenue != 50.00 {
		t.Errorf("delivery = %+v, want count 2 revenue 50.00", b)
	}
	if b := got[models.OrderTypePickup]; b.Count != 1 || b.Revenue != 15.00 {
		t.Errorf("pickup = %+v, want count 1 revenue 15.00", b)
	}
	if b := got[models.OrderTypeDineIn]; b.Count != 1 || b.Revenue != 0 {
		t.Errorf("dine_in = %+v, want count 1 revenue 0 (unpaid)", b)
	}
}

func TestOrdersByStatus(t *testing.T) {
	orders := []*models.Order{
		paidOrder(30.00, models.OrderTypeDelivery, models.OrderStatusCompleted),
		unpaidOrder(10.00, models.OrderTypePickup, models.OrderStatusPending),
		unpaidOrder(12.00, models.OrderTypePickup, models.OrderStatusPending),
	}

	got := OrdersByStatus(orders)
	if b := got[models.OrderStatusPending]; b.Count != 2 || b.Revenue != 0 {
		t.Errorf("pending = %+v, want count 2 revenue 0", b)
	}
	if b := got[models.OrderStatusCompleted]; b.Count != 1 || b.Revenue != 30.00 {
		t.Errorf("completed = %+v, want count 1 revenue 30.00", b)
	}
}

func TestCustomerMetrics(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	inRangeDate := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	before := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	customers := []*models.Customer{
		{Name: "new in range", CreatedAt: inRangeDate},
		{Name: "returning", CreatedAt: before, LastOrderDate: &inRangeDate},
		{Name: "inactive", CreatedAt: before, LastOrderDate: &before},
		{Name: "boundary start", CreatedAt: from},
		{Name: "boundary end", CreatedAt: to}, // [from, to): excluded
	}

	got := CustomerMetrics(customers, from, to)
	if got.New != 2 {
		t.Errorf("New = %d, want 2", got.New)
	}
	if got.Returning != 1 {
		t.Errorf("Returning = %d, want 1", got.Returning)
	}
	if got.Total != 3 {
		t.Errorf("Total = %d, want 3", got.Total)
	}
}

func TestTopCustomers(t *testing.T) {
	customers := []*models.Customer{
		{Name: "bob", TotalSpent: 100},
		{Name: "alice", TotalSpent: 250},
		{Name: "carol", TotalSpent: 100},
		{Name: "dave", TotalSpent: 500},
	}

	got := TopCustomers(customers, 3)
	if len(got) != 3 {
		t.Fatalf("got %d customers, want 3", len(got))
	}
	if got[0].Name != "dave" || got[1].Name != "alice" {
		t.Errorf("order = %s, %s; want dave, alice", got[0].Name, got[1].Name)
	}
	// Equal spenders tie-break by name.
	if got[2].Name != "bob" {
		t.Errorf("got[2] = %s, want bob (name tie-break over carol)", got[2].Name)
	}
}

func TestTopCustomers_DoesNotMutateInput(t *testing.T) {
	customers := []*models.Customer{
		{Name: "b", TotalSpent: 1},
		{Name: "a", TotalSpent: 2},
	}

	TopCustomers(customers, 2)
	if customers[0].Name != "b" {
		t.Error("input slice was reordered")
	}
}

func TestTopCustomers_Bounds(t *testing.T) {
	customers := []*models.Customer{{Name: "a", TotalSpent: 1}}

	if got := TopCustomers(customers, 5); len(got) != 1 {
		t.Errorf("n beyond len: got %d, want 1", len(got))
	}
	if got := TopCustomers(customers, 0); len(got) != 0 {
		t.Errorf("n=0: got %d, want 0", len(got))
	}
	if got := TopCustomers(customers, -1); len(got) != 0 {
		t.Errorf("n=-1: got %d, want 0", len(got))
	}
}

func BenchmarkRevenueMetrics(b *testing.B) {
	orders := make([]*models.Order, 1000)
	for i := range orders {
		orders[i] = paidOrder(float64(i), models.OrderTypeDelivery, models.OrderStatusCompleted)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RevenueMetrics(orders)
	}
}
