package payment

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
	"path"
	"strconv"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// ErrPaymentNotFound indicates the processor has no payment for the order yet.
var ErrPaymentNotFound = errors.New("payment not found")

// TooManyRequestsError represents rate limiting signal from the processor.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes operations against the external payment processor.
type Client interface {
	// CreateOrder opens a payment intent for the amount and returns the
	// processor-side order reference.
	CreateOrder(ctx context.Context, amount int64, receipt string) (string, error)
	// FetchPayment reports the payment attached to a processor order
	// reference, or ErrPaymentNotFound.
	FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error)
}

// HTTPClient implements Client via the processor's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type createOrderRequest struct {
	Amount  int64  `json:"amount"`
	Receipt string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// paymentResponse mirrors JSON payload from the processor.
type paymentResponse struct {
	OrderRef   string `json:"order_ref"`
	PaymentRef string `json:"payment_ref"`
	Signature  string `json:"signature"`
	Status     string `json:"status"`
}

// NewHTTPClient creates HTTP payment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateOrder opens a payment intent for the exact amount in minor units.
func (c *HTTPClient) CreateOrder(ctx context.Context, amount int64, receipt string) (string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/orders")

	payload, err := json.Marshal(createOrderRequest{Amount: amount, Receipt: receipt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("payment intent creation failed",
			slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", fmt.Errorf("payment processor error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var data createOrderResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	if data.ID == "" {
		return "", fmt.Errorf("payment processor returned empty order reference")
	}
	return data.ID, nil
}

// FetchPayment queries the processor for the payment on an order reference.
func (c *HTTPClient) FetchPayment(ctx context.Context, orderRef string) (*model.Payment, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/orders/", orderRef, "/payment")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data paymentResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.Payment{
			OrderRef:   data.OrderRef,
			PaymentRef: data.PaymentRef,
			Signature:  data.Signature,
			State:      model.PaymentState(data.Status),
		}, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrPaymentNotFound
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("payment fetch failed",
			slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("payment processor error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
