package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/currency"
	"github.com/platewise/platewise-orders-service/internal/logging"
)

var _ currency.RateSource = (*HTTPRateClient)(nil)

// HTTPRateClient fetches USD-based exchange rates from the rates service.
type HTTPRateClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.LoggerV2
}

// NewHTTPRateClient creates a new HTTP-based exchange rate client.
func NewHTTPRateClient(cfg config.ServiceConfig, logger *logging.LoggerV2) *HTTPRateClient {
	return &HTTPRateClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// FetchRates retrieves the current rate table. Rates are units of the target
// currency per 1 USD.
func (c *HTTPRateClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/api/v1/rates?base=USD", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Rate fetch failed", logging.Fields{"error": err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange service returned status %d", resp.StatusCode)
	}

	var result struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	c.logger.Debug("Rates fetched", logging.Fields{"currencies": len(result.Rates)})
	return result.Rates, nil
}
