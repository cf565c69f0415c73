package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	pkgAuth "github.com/greenbasket/greenbasket/internal/pkg/auth"
	"github.com/greenbasket/greenbasket/internal/server/http/handlers"
	testhelpers "github.com/greenbasket/greenbasket/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(facade handlers.CommerceFacade) *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, logger)
}

func serve(engine *gin.Engine, method, path string, body io.Reader, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if setup != nil {
		setup(req)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupHealthRoute(t *testing.T) {
	engine := newEngine(testhelpers.CommerceFacadeStub{})

	resp := serve(engine, http.MethodGet, "/api/health", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSetupRejectsAnonymousCart(t *testing.T) {
	engine := newEngine(testhelpers.CommerceFacadeStub{})

	resp := serve(engine, http.MethodGet, "/api/cart", nil, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestSetupAuthenticatedCart(t *testing.T) {
	engine := newEngine(testhelpers.CommerceFacadeStub{})

	resp := serve(engine, http.MethodGet, "/api/cart", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSetupWebhookSkipsAuth(t *testing.T) {
	engine := newEngine(testhelpers.CommerceFacadeStub{})

	payload := bytes.NewBufferString(`{"order_id":"order-1","processor_order_ref":"proc-1","processor_payment_ref":"pay-1","signature":"sig"}`)
	resp := serve(engine, http.MethodPost, "/api/payment/webhook", payload, func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSetupAdminRequiresOperator(t *testing.T) {
	engine := newEngine(testhelpers.CommerceFacadeStub{})
	resp := serve(engine, http.MethodGet, "/api/admin/orders", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", resp.Code)
	}

	operator := testhelpers.CommerceFacadeStub{
		AuthParserStub: testhelpers.AuthParserStub{Claims: &pkgAuth.Claims{UserID: 5, Role: model.RoleOperator}},
		OrderFacadeStub: testhelpers.OrderFacadeStub{AllOrdersFn: func(ctx context.Context) ([]model.Order, error) {
			return []model.Order{{ID: "order-1"}}, nil
		}},
	}
	engine = newEngine(operator)
	resp = serve(engine, http.MethodGet, "/api/admin/orders", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for operator, got %d", resp.Code)
	}
}

var _ handlers.CommerceFacade = testhelpers.CommerceFacadeStub{}
