package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestHTTPClientCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Amount != 15000 || req.Receipt != "order-1" {
			t.Fatalf("unexpected payload: %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createOrderResponse{ID: "proc-1"})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ref, err := client.CreateOrder(context.Background(), 15000, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "proc-1" {
		t.Fatalf("unexpected reference %s", ref)
	}
}

func TestHTTPClientCreateOrderFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client, _ := NewHTTPClient(server.URL, testLogger())
		if _, err := client.CreateOrder(context.Background(), 100, "order-1"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty reference", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(createOrderResponse{})
		}))
		defer server.Close()

		client, _ := NewHTTPClient(server.URL, testLogger())
		if _, err := client.CreateOrder(context.Background(), 100, "order-1"); err == nil {
			t.Fatal("expected error for empty reference")
		}
	})

	t.Run("garbage body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "{not json")
		}))
		defer server.Close()

		client, _ := NewHTTPClient(server.URL, testLogger())
		if _, err := client.CreateOrder(context.Background(), 100, "order-1"); err == nil {
			t.Fatal("expected error for garbage body")
		}
	})
}

func TestHTTPClientFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/proc-1/payment" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(paymentResponse{
			OrderRef:   "proc-1",
			PaymentRef: "pay-1",
			Signature:  "deadbeef",
			Status:     "CAPTURED",
		})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	payment, err := client.FetchPayment(context.Background(), "proc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.PaymentRef != "pay-1" || string(payment.State) != "CAPTURED" {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestHTTPClientFetchPaymentStatuses(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		retryAfter string
		check      func(t *testing.T, err error)
	}{
		{
			name:   "no content means no payment yet",
			status: http.StatusNoContent,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrPaymentNotFound) {
					t.Fatalf("expected not found, got %v", err)
				}
			},
		},
		{
			name:   "unknown order",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrPaymentNotFound) {
					t.Fatalf("expected not found, got %v", err)
				}
			},
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			retryAfter: "7",
			check: func(t *testing.T, err error) {
				var tooMany TooManyRequestsError
				if !errors.As(err, &tooMany) {
					t.Fatalf("expected rate limit error, got %v", err)
				}
				if tooMany.RetryAfter != 7*time.Second {
					t.Fatalf("unexpected retry-after %s", tooMany.RetryAfter)
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected error")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.retryAfter != "" {
					w.Header().Set("Retry-After", tc.retryAfter)
				}
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client, err := NewHTTPClient(server.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			_, err = client.FetchPayment(context.Background(), "proc-1")
			tc.check(t, err)
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter(""); d != 5*time.Second {
		t.Fatalf("expected default, got %s", d)
	}
	if d := parseRetryAfter("12"); d != 12*time.Second {
		t.Fatalf("expected 12s, got %s", d)
	}
	if d := parseRetryAfter("nonsense"); d != 5*time.Second {
		t.Fatalf("expected default for garbage, got %s", d)
	}
	httpDate := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if d := parseRetryAfter(httpDate); d <= 0 || d > time.Minute {
		t.Fatalf("unexpected duration from http date: %s", d)
	}
}
