package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/models"
)

var _ OrderRepository = (*PostgresOrderRepository)(nil)
var _ CustomerRepository = (*PostgresCustomerRepository)(nil)

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, restaurant_id, customer_id, customer_name, order_type, status,
	payment_status, lines, calculation, payment_id, notes,
	created_at, updated_at, completed_at
`

// Create persists a new order. Lines and the priced calculation are stored
// as JSON snapshots; the calculation is never recomputed after checkout.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.logger.Debug("Creating new order", logging.Fields{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
	})

	linesJSON, err := json.Marshal(order.Lines)
	if err != nil {
		return err
	}

	calcJSON, err := json.Marshal(order.Calculation)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			id, restaurant_id, customer_id, customer_name, order_type, status,
			payment_status, lines, calculation, payment_id, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.RestaurantID,
		order.CustomerID,
		order.CustomerName,
		order.Type,
		order.Status,
		order.Payment,
		linesJSON,
		calcJSON,
		order.PaymentID,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	r.logger.Info("Order created", logging.Fields{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"total":         order.Calculation.Total,
	})

	return nil
}

// GetByID retrieves an order by its unique identifier.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.logger.Debug("Fetching order by ID", logging.Fields{"order_id": id})

	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1"

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	return order, nil
}

// List retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	r.logger.Debug("Listing orders", logging.Fields{
		"restaurant_id": filter.RestaurantID,
		"customer_id":   filter.CustomerID,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	baseQuery := " FROM orders WHERE 1=1"
	args := make([]interface{}, 0)

	if filter.RestaurantID != "" {
		args = append(args, filter.RestaurantID)
		baseQuery += " AND restaurant_id = $" + strconv.Itoa(len(args))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		baseQuery += " AND customer_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += " AND status = $" + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		baseQuery += " AND created_at >= $" + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		baseQuery += " AND created_at < $" + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitClause := " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	limitClause += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+baseQuery+limitClause, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	r.logger.Info("Orders listed", logging.Fields{
		"count": len(orders),
		"total": total,
	})

	return orders, total, nil
}

// ListByDateRange retrieves every order a restaurant received in [from, to).
// Used by the analytics dashboard, so no pagination.
func (r *PostgresOrderRepository) ListByDateRange(ctx context.Context, restaurantID string, from, to time.Time) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + `
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, restaurantID, from, to)
	if err != nil {
		r.logger.Error("Failed to list orders by date range", logging.Fields{
			"restaurant_id": restaurantID,
			"error":         err.Error(),
		})
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus updates the status of an order. Completed orders get a
// completion timestamp.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.logger.Debug("Updating order status", logging.Fields{
		"order_id":   id,
		"new_status": status,
	})

	now := time.Now()

	var completedAt *time.Time
	if status == models.OrderStatusCompleted {
		completedAt = &now
	}

	query := `
		UPDATE orders
		SET status = $2, updated_at = $3,
		    completed_at = COALESCE($4, completed_at)
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, now, completedAt)
	if err != nil {
		r.logger.Error("Failed to update order status", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Info("Order status updated", logging.Fields{
		"order_id":   id,
		"new_status": status,
	})

	return nil
}

// SetPayment records the payment reference and payment status for an order.
func (r *PostgresOrderRepository) SetPayment(ctx context.Context, id, paymentID string, status models.PaymentStatus) error {
	r.logger.Debug("Setting payment", logging.Fields{
		"order_id":   id,
		"payment_id": paymentID,
	})

	query := `
		UPDATE orders
		SET payment_id = COALESCE(NULLIF($2, ''), payment_id),
		    payment_status = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, paymentID, status, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Info("Payment recorded", logging.Fields{
		"order_id":       id,
		"payment_status": status,
	})

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var linesJSON, calcJSON []byte
	var paymentID, notes sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.RestaurantID,
		&order.CustomerID,
		&order.CustomerName,
		&order.Type,
		&order.Status,
		&order.Payment,
		&linesJSON,
		&calcJSON,
		&paymentID,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(linesJSON, &order.Lines); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(calcJSON, &order.Calculation); err != nil {
		return nil, err
	}

	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}
	if notes.Valid {
		order.Notes = notes.String
	}
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}

	return &order, nil
}

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL.
type PostgresCustomerRepository struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository.
func NewPostgresCustomerRepository(db *sql.DB, logger *logging.LoggerV2) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:     db,
		logger: logger,
	}
}

// ListByRestaurant retrieves all customer records for a restaurant.
func (r *PostgresCustomerRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*models.Customer, error) {
	query := `
		SELECT id, restaurant_id, name, email, order_count, total_spent,
		       created_at, last_order_date
		FROM customers
		WHERE restaurant_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		r.logger.Error("Failed to list customers", logging.Fields{
			"restaurant_id": restaurantID,
			"error":         err.Error(),
		})
		return nil, err
	}
	defer rows.Close()

	customers := make([]*models.Customer, 0)
	for rows.Next() {
		var c models.Customer
		var email sql.NullString
		var lastOrder sql.NullTime

		err := rows.Scan(
			&c.ID,
			&c.RestaurantID,
			&c.Name,
			&email,
			&c.OrderCount,
			&c.TotalSpent,
			&c.CreatedAt,
			&lastOrder,
		)
		if err != nil {
			return nil, err
		}

		if email.Valid {
			c.Email = email.String
		}
		if lastOrder.Valid {
			c.LastOrderDate = &lastOrder.Time
		}
		customers = append(customers, &c)
	}

	return customers, rows.Err()
}

// UpsertOrderStats creates the customer record on first order and rolls the
// new order into the spend counters on every subsequent one.
func (r *PostgresCustomerRepository) UpsertOrderStats(ctx context.Context, customer *models.Customer, orderTotal float64, orderedAt time.Time) error {
	r.logger.Debug("Upserting customer order stats", logging.Fields{
		"customer_id":   customer.ID,
		"restaurant_id": customer.RestaurantID,
	})

	query := `
		INSERT INTO customers (
			id, restaurant_id, name, email, order_count, total_spent,
			created_at, last_order_date
		) VALUES ($1, $2, $3, $4, 1, $5, $6, $6)
		ON CONFLICT (id, restaurant_id) DO UPDATE SET
			name = EXCLUDED.name,
			order_count = customers.order_count + 1,
			total_spent = customers.total_spent + EXCLUDED.total_spent,
			last_order_date = EXCLUDED.last_order_date
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.RestaurantID,
		customer.Name,
		customer.Email,
		orderTotal,
		orderedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert customer stats", logging.Fields{
			"customer_id": customer.ID,
			"error":       err.Error(),
		})
	}
	return err
}
