package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/propagation"

	"github.com/wms-platform/pallet-service/pkg/resilience"
	"github.com/wms-platform/pallet-service/pkg/tracing"
)

// Config holds the pallet service location
type Config struct {
	PalletServiceURL string
	Timeout          time.Duration
}

// APIError is a non-2xx reply of the pallet service
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pallet service returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsClientError reports a 4xx reply
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// PalletServiceClient calls the pallet service HTTP API through a circuit breaker
type PalletServiceClient struct {
	config     *Config
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
}

// NewPalletServiceClient creates the client. Client errors do not count
// against the breaker.
func NewPalletServiceClient(config *Config, logger *slog.Logger) *PalletServiceClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cbConfig := resilience.DefaultCircuitBreakerConfig("pallet-service")
	cbConfig.IsSuccessful = func(err error) bool {
		var apiErr *APIError
		return err == nil || (errors.As(err, &apiErr) && apiErr.IsClientError())
	}

	return &PalletServiceClient{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewCircuitBreaker(cbConfig, logger),
	}
}

func (c *PalletServiceClient) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	_, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, c.send(ctx, method, c.config.PalletServiceURL+path, body, result)
	})
	return err
}

// send performs one HTTP exchange and decodes the response
func (c *PalletServiceClient) send(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	tracing.InjectTraceContext(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var envelope errorBody
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Code != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// RunAllocation runs one allocation pass
func (c *PalletServiceClient) RunAllocation(ctx context.Context) (*AllocationResult, error) {
	var result AllocationResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/allocations", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPallets lists pallets, optionally filtered by derived status
func (c *PalletServiceClient) ListPallets(ctx context.Context, status string) ([]Pallet, error) {
	path := "/api/v1/pallets"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var result []Pallet
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ShipPallet ships a pallet and its packed items
func (c *PalletServiceClient) ShipPallet(ctx context.Context, palletID string) (*Pallet, error) {
	var result Pallet
	path := fmt.Sprintf("/api/v1/pallets/%s/ship", url.PathEscape(palletID))
	if err := c.doRequest(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSummary returns the catalog and registry totals
func (c *PalletServiceClient) GetSummary(ctx context.Context) (*Summary, error) {
	var result Summary
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/summary", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
