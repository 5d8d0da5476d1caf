package service

import (
	"strings"

	"github.com/platewise/platewise-orders-service/internal/apperrors"
	"github.com/platewise/platewise-orders-service/internal/models"
)

// ValidateCheckoutRequest validates a checkout request.
func ValidateCheckoutRequest(req *models.CheckoutRequest) error {
	if req.RestaurantID == "" {
		return apperrors.NewValidationError("restaurant_id", "restaurant ID is required")
	}

	if len(req.Lines) == 0 {
		return apperrors.NewValidationError("lines", "at least one cart line is required")
	}

	for _, line := range req.Lines {
		if err := validateCartLine(&line); err != nil {
			return err
		}
	}

	switch req.Type {
	case models.OrderTypePickup, models.OrderTypeDineIn:
		// Delivery charges make no sense without a delivery.
		if req.DeliveryFee != 0 {
			return apperrors.NewValidationError("delivery_fee", "delivery fee only applies to delivery orders")
		}
		if req.DriverTip != 0 {
			return apperrors.NewValidationError("driver_tip", "driver tip only applies to delivery orders")
		}
	case models.OrderTypeDelivery:
		// Valid type
	default:
		return apperrors.NewValidationError("type", "invalid order type")
	}

	if req.DeliveryFee < 0 {
		return apperrors.NewValidationError("delivery_fee", "delivery fee cannot be negative")
	}
	if req.Tip < 0 {
		return apperrors.NewValidationError("tip", "tip cannot be negative")
	}
	if req.DriverTip < 0 {
		return apperrors.NewValidationError("driver_tip", "driver tip cannot be negative")
	}

	return nil
}

func validateCartLine(line *models.CartLine) error {
	if line.MenuItemID == "" {
		return apperrors.NewValidationError("lines", "menu item ID is required for line")
	}

	if line.Quantity <= 0 {
		return apperrors.NewValidationError("lines", "quantity must be positive")
	}

	if line.BasePrice < 0 {
		return apperrors.NewValidationError("lines", "base price cannot be negative")
	}

	return nil
}

// ValidateUpdateOrderStatusRequest validates a status update request.
func ValidateUpdateOrderStatusRequest(req *models.UpdateOrderStatusRequest) error {
	if req.Status == "" {
		return apperrors.NewValidationError("status", "status is required")
	}

	switch req.Status {
	case models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded:
		// Valid status
	default:
		return apperrors.NewValidationError("status", "invalid order status")
	}

	return nil
}

// ValidateOrderListFilter validates a list filter.
func ValidateOrderListFilter(filter *models.OrderListFilter) error {
	if filter.Limit < 0 {
		return apperrors.NewValidationError("limit", "limit cannot be negative")
	}

	if filter.Offset < 0 {
		return apperrors.NewValidationError("offset", "offset cannot be negative")
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return apperrors.NewValidationError("from", "start date cannot be after end date")
	}

	return nil
}

// ValidateCancellationReason validates an order cancellation reason.
func ValidateCancellationReason(reason string) error {
	if reason == "" {
		return apperrors.NewValidationError("reason", "cancellation reason is required")
	}

	if len(reason) > 500 {
		return apperrors.NewValidationError("reason", "cancellation reason too long (max 500 characters)")
	}

	return nil
}

// SanitizeOrderNotes sanitizes order notes before storage.
func SanitizeOrderNotes(notes string) string {
	notes = strings.ReplaceAll(notes, "<", "&lt;")
	notes = strings.ReplaceAll(notes, ">", "&gt;")
	notes = strings.ReplaceAll(notes, "\"", "&quot;")
	notes = strings.TrimSpace(notes)

	if len(notes) > 1000 {
		notes = notes[:1000]
	}

	return notes
}
