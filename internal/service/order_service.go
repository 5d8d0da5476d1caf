package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/clients"
	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/currency"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/metrics"
	"github.com/platewise/platewise-orders-service/internal/models"
	"github.com/platewise/platewise-orders-service/internal/pricing"
	"github.com/platewise/platewise-orders-service/internal/repository"
)

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previousStatus models.OrderStatus) error
	PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error
}

// OrderService handles order business logic: pricing carts, checking out,
// and moving orders through their lifecycle.
type OrderService struct {
	orderRepo      repository.OrderRepository
	customerRepo   repository.CustomerRepository
	orderCache     repository.OrderCache
	rateCache      repository.RateCache
	rateSource     currency.RateSource
	payments       clients.PaymentClient
	eventPublisher EventPublisher
	settings       SettingsProvider
	config         *config.Config
	logger         *logging.LoggerV2
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	orderCache repository.OrderCache,
	rateCache repository.RateCache,
	rateSource currency.RateSource,
	payments clients.PaymentClient,
	eventPublisher EventPublisher,
	settings SettingsProvider,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		customerRepo:   customerRepo,
		orderCache:     orderCache,
		rateCache:      rateCache,
		rateSource:     rateSource,
		payments:       payments,
		eventPublisher: eventPublisher,
		settings:       settings,
		config:         cfg,
		logger:         logging.NewLoggerV2("order-service"),
	}
}

// converter builds the currency converter for this request. With live rates
// enabled the cached provider table is preferred; anything missing degrades
// to the static fallback table inside LoadRates.
func (s *OrderService) converter(ctx context.Context) *currency.Converter {
	if !s.config.Features.EnableLiveRates {
		return currency.NewConverter(nil)
	}

	if rates, err := s.rateCache.GetRates(ctx); err == nil && len(rates) > 0 {
		return currency.NewConverter(rates)
	}

	rates := currency.LoadRates(ctx, s.rateSource, s.config.ExchangeService.Timeout, s.logger)
	if err := s.rateCache.SetRates(ctx, rates); err != nil {
		s.logger.Error("Failed to cache rates", logging.Fields{"error": err.Error()})
	}
	return currency.NewConverter(rates)
}

// PriceCart prices a cart without creating an order. Used by the storefront
// to show a live total while the customer is still editing.
func (s *OrderService) PriceCart(ctx context.Context, restaurantID string, lines []models.CartLine, deliveryFee, tip, driverTip float64) (*models.OrderCalculation, error) {
	s.logger.Debug("Pricing cart", logging.Fields{
		"restaurant_id": restaurantID,
		"line_count":    len(lines),
	})

	settings, err := s.settings.SettingsFor(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	calculator := pricing.NewCalculator(settings, s.converter(ctx))
	calc, err := calculator.PriceCart(lines, deliveryFee, tip, driverTip)
	if err != nil {
		metrics.CartsPriced.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.CartsPriced.WithLabelValues("ok").Inc()
	if len(calc.Warnings) > 0 {
		metrics.PricingWarnings.WithLabelValues("degraded").Add(float64(len(calc.Warnings)))
		s.logger.Warn("Cart priced with warnings", logging.Fields{
			"restaurant_id": restaurantID,
			"warnings":      calc.Warnings,
		})
	}

	return calc, nil
}

// Checkout prices the cart one final time, freezes the calculation on a new
// order, charges the customer and publishes the created event. The stored
// calculation is never recomputed afterwards.
func (s *OrderService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.Order, error) {
	s.logger.Info("Checking out", logging.Fields{
		"restaurant_id": req.RestaurantID,
		"customer_id":   req.CustomerID,
		"line_count":    len(req.Lines),
	})

	if err := ValidateCheckoutRequest(req); err != nil {
		return nil, err
	}

	calc, err := s.PriceCart(ctx, req.RestaurantID, req.Lines, req.DeliveryFee, req.Tip, req.DriverTip)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		ID:           "ord_" + uuid.NewString(),
		RestaurantID: req.RestaurantID,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Type:         req.Type,
		Status:       models.OrderStatusPending,
		Payment:      models.PaymentStatusPending,
		Lines:        req.Lines,
		Calculation:  *calc,
		Notes:        SanitizeOrderNotes(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreated.WithLabelValues(string(order.Type)).Inc()

	if req.CustomerID != "" {
		customer := &models.Customer{
			ID:           req.CustomerID,
			RestaurantID: req.RestaurantID,
			Name:         req.CustomerName,
		}
		if err := s.customerRepo.UpsertOrderStats(ctx, customer, calc.Total, now); err != nil {
			// Stats are best effort, the order stands either way.
			s.logger.Error("Failed to update customer stats", logging.Fields{
				"customer_id": req.CustomerID,
				"error":       err.Error(),
			})
		}
	}

	if s.payments != nil {
		chargeResp, err := s.payments.Charge(ctx, &clients.ChargeRequest{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Amount:     calc.Total,
			Currency:   calc.Currency,
			// The platform's cut is always charged in USD.
			ApplicationFeeAmount: calc.PlatformFeeUSD,
		})
		if err != nil {
			s.logger.Error("Charge failed at checkout", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
			if repoErr := s.orderRepo.SetPayment(ctx, order.ID, "", models.PaymentStatusFailed); repoErr != nil {
				s.logger.Error("Failed to record failed payment", logging.Fields{
					"order_id": order.ID,
					"error":    repoErr.Error(),
				})
			}
			return nil, fmt.Errorf("charge order %s: %w", order.ID, err)
		}

		order.PaymentID = chargeResp.PaymentID
		order.Payment = models.PaymentStatusPaid
		if err := s.orderRepo.SetPayment(ctx, order.ID, chargeResp.PaymentID, models.PaymentStatusPaid); err != nil {
			s.logger.Error("Failed to record payment", logging.Fields{
				"order_id":   order.ID,
				"payment_id": chargeResp.PaymentID,
				"error":      err.Error(),
			})
		}
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.orderCache.Set(ctx, order); err != nil {
			s.logger.Error("Failed to cache order", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Error("Failed to publish order created event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order created", logging.Fields{
		"order_id": order.ID,
		"total":    order.Calculation.Total,
		"currency": order.Calculation.Currency,
	})

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.logger.Debug("Getting order", logging.Fields{"order_id": id})

	if s.config.Features.EnableOrderCaching {
		if order, err := s.orderCache.Get(ctx, id); err == nil && order != nil {
			return order, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	if s.config.Features.EnableOrderCaching {
		s.orderCache.Set(ctx, order)
	}

	return order, nil
}

// ListOrders retrieves orders based on filter criteria.
func (s *OrderService) ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	s.logger.Debug("Listing orders", logging.Fields{
		"restaurant_id": filter.RestaurantID,
		"customer_id":   filter.CustomerID,
	})

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	return s.orderRepo.List(ctx, filter)
}

// UpdateOrderStatus moves an order to a new lifecycle status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	s.logger.Info("Updating order status", logging.Fields{
		"order_id":   id,
		"new_status": req.Status,
	})

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(req.Status) {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf(
			"invalid status transition from %s to %s",
			order.Status,
			req.Status,
		))
	}

	previousStatus := order.Status
	if err := s.orderRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	order.Status = req.Status
	order.UpdatedAt = time.Now()
	if req.Status == models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}

	if s.config.Features.EnableOrderCaching {
		s.orderCache.Delete(ctx, id)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderStatusChanged(ctx, order, previousStatus); err != nil {
			s.logger.Error("Failed to publish status change event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	return order, nil
}

// CancelOrder cancels an order, voiding any pending payment.
func (s *OrderService) CancelOrder(ctx context.Context, id string, reason string) (*models.Order, error) {
	s.logger.Info("Cancelling order", logging.Fields{
		"order_id": id,
		"reason":   reason,
	})

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanCancel() {
		return nil, apperrors.NewValidationError("status", "order cannot be cancelled in current state")
	}

	if order.PaymentID != "" && order.Payment == models.PaymentStatusPending && s.payments != nil {
		if err := s.payments.Cancel(ctx, order.PaymentID); err != nil {
			s.logger.Error("Failed to cancel payment", logging.Fields{
				"payment_id": order.PaymentID,
				"error":      err.Error(),
			})
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	if s.config.Features.EnableOrderCaching {
		s.orderCache.Delete(ctx, id)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderCancelled(ctx, order, reason); err != nil {
			s.logger.Error("Failed to publish order cancelled event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	return order, nil
}

// RefundOrder refunds the full amount of a completed order.
func (s *OrderService) RefundOrder(ctx context.Context, id string, reason string) (*models.Order, error) {
	s.logger.Info("Refunding order", logging.Fields{
		"order_id": id,
		"reason":   reason,
	})

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanRefund() {
		return nil, apperrors.NewValidationError("status", "order cannot be refunded")
	}

	if s.payments != nil {
		_, err := s.payments.Refund(ctx, &clients.RefundRequest{
			PaymentID: order.PaymentID,
			Amount:    order.Calculation.Total,
			Currency:  order.Calculation.Currency,
			Reason:    reason,
		})
		if err != nil {
			s.logger.Error("Refund failed", logging.Fields{
				"order_id":   id,
				"payment_id": order.PaymentID,
				"error":      err.Error(),
			})
			return nil, err
		}
	}

	if err := s.orderRepo.SetPayment(ctx, id, "", models.PaymentStatusRefunded); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusRefunded); err != nil {
		return nil, err
	}

	previousStatus := order.Status
	order.Status = models.OrderStatusRefunded
	order.Payment = models.PaymentStatusRefunded
	order.UpdatedAt = time.Now()

	if s.config.Features.EnableOrderCaching {
		s.orderCache.Delete(ctx, id)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderStatusChanged(ctx, order, previousStatus); err != nil {
			s.logger.Error("Failed to publish status change event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	return order, nil
}

// MarkOrderPaid records a completed payment, typically driven by a payment
// event, and confirms the order if it is still pending.
func (s *OrderService) MarkOrderPaid(ctx context.Context, id, paymentID string) (*models.Order, error) {
	s.logger.Info("Marking order paid", logging.Fields{
		"order_id":   id,
		"payment_id": paymentID,
	})

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SetPayment(ctx, id, paymentID, models.PaymentStatusPaid); err != nil {
		return nil, err
	}
	order.Payment = models.PaymentStatusPaid
	if paymentID != "" {
		order.PaymentID = paymentID
	}

	if s.config.Features.EnableOrderCaching {
		s.orderCache.Delete(ctx, id)
	}

	if order.Status == models.OrderStatusPending {
		return s.UpdateOrderStatus(ctx, id, &models.UpdateOrderStatusRequest{
			Status: models.OrderStatusConfirmed,
		})
	}

	return order, nil
}

// MarkOrderRefunded records an externally processed refund.
func (s *OrderService) MarkOrderRefunded(ctx context.Context, id string) error {
	s.logger.Info("Marking order refunded", logging.Fields{"order_id": id})

	if err := s.orderRepo.SetPayment(ctx, id, "", models.PaymentStatusRefunded); err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusRefunded); err != nil {
		return err
	}

	if s.config.Features.EnableOrderCaching {
		s.orderCache.Delete(ctx, id)
	}

	return nil
}
