package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/middleware"
)

// ChargeRequest describes a charge against the customer's card.
// ApplicationFeeAmount is the platform's cut, always denominated in USD
// regardless of the charge currency.
type ChargeRequest struct {
	OrderID              string  `json:"order_id"`
	CustomerID           string  `json:"customer_id"`
	Amount               float64 `json:"amount"`
	Currency             string  `json:"currency"`
	ApplicationFeeAmount float64 `json:"application_fee_amount"`
}

// ChargeResponse is the payment provider's answer to a charge.
type ChargeResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// RefundRequest describes a refund of an earlier charge.
type RefundRequest struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Reason    string  `json:"reason,omitempty"`
}

// RefundResponse is the payment provider's answer to a refund.
type RefundResponse struct {
	RefundID  string `json:"refund_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// PaymentClient abstracts the payment provider.
type PaymentClient interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)
	Refund(ctx context.Context, req *RefundRequest) (*RefundResponse, error)
	Cancel(ctx context.Context, paymentID string) error
}

var _ PaymentClient = (*HTTPPaymentClient)(nil)

// HTTPPaymentClient implements PaymentClient against the payments service.
type HTTPPaymentClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.LoggerV2
}

// NewHTTPPaymentClient creates a new HTTP-based payment client.
func NewHTTPPaymentClient(cfg config.ServiceConfig, logger *logging.LoggerV2) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// Charge initiates a payment for an order.
func (c *HTTPPaymentClient) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	c.logger.Debug("Charging payment", logging.Fields{
		"order_id": req.OrderID,
		"amount":   req.Amount,
		"currency": req.Currency,
	})

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v1/charges", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	c.setHeaders(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Charge request failed", logging.Fields{
			"order_id": req.OrderID,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("Charge request returned error", logging.Fields{
			"order_id":    req.OrderID,
			"status_code": resp.StatusCode,
		})
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var result ChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	c.logger.Info("Payment charged", logging.Fields{
		"order_id":   req.OrderID,
		"payment_id": result.PaymentID,
		"status":     result.Status,
	})

	return &result, nil
}

// Refund processes a refund for a completed payment.
func (c *HTTPPaymentClient) Refund(ctx context.Context, req *RefundRequest) (*RefundResponse, error) {
	c.logger.Debug("Processing refund", logging.Fields{
		"payment_id": req.PaymentID,
		"amount":     req.Amount,
		"reason":     req.Reason,
	})

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v1/charges/%s/refund", c.baseURL, req.PaymentID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	c.setHeaders(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Refund request failed", logging.Fields{
			"payment_id": req.PaymentID,
			"error":      err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var result RefundResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	c.logger.Info("Refund processed", logging.Fields{
		"payment_id": req.PaymentID,
		"refund_id":  result.RefundID,
		"status":     result.Status,
	})

	return &result, nil
}

// Cancel cancels a pending payment.
func (c *HTTPPaymentClient) Cancel(ctx context.Context, paymentID string) error {
	c.logger.Debug("Cancelling payment", logging.Fields{"payment_id": paymentID})

	url := fmt.Sprintf("%s/api/v1/charges/%s/cancel", c.baseURL, paymentID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	c.setHeaders(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cancel payment returned status %d", resp.StatusCode)
	}

	c.logger.Info("Payment cancelled", logging.Fields{"payment_id": paymentID})
	return nil
}

func (c *HTTPPaymentClient) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	// Propagate request ID for tracing
	if requestID := middleware.FromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}
}

// MockPaymentClient is a mock implementation for testing.
type MockPaymentClient struct {
	Charges []*ChargeRequest
	Refunds []*RefundRequest
	FailNext bool
}

var _ PaymentClient = (*MockPaymentClient)(nil)

// NewMockPaymentClient creates a mock payment client.
func NewMockPaymentClient() *MockPaymentClient {
	return &MockPaymentClient{}
}

func (m *MockPaymentClient) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if m.FailNext {
		m.FailNext = false
		return nil, fmt.Errorf("payment declined")
	}
	m.Charges = append(m.Charges, req)
	return &ChargeResponse{
		PaymentID: fmt.Sprintf("pay_%d", time.Now().UnixNano()),
		Status:    "completed",
	}, nil
}

func (m *MockPaymentClient) Refund(ctx context.Context, req *RefundRequest) (*RefundResponse, error) {
	m.Refunds = append(m.Refunds, req)
	return &RefundResponse{
		RefundID:  fmt.Sprintf("ref_%d", time.Now().UnixNano()),
		PaymentID: req.PaymentID,
		Status:    "refunded",
	}, nil
}

func (m *MockPaymentClient) Cancel(ctx context.Context, paymentID string) error {
	return nil
}
