package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	token, err := strategy.IssueToken(42, model.RoleOperator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.RoleOperator {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestHMACStrategyRejectsUnknownRole(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	if _, err := strategy.IssueToken(42, "superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestHMACStrategyRejectsGarbage(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	cases := []string{
		"",
		"not-base64!!!",
		base64.StdEncoding.EncodeToString([]byte("too:few:parts")),
		base64.StdEncoding.EncodeToString([]byte("1:customer:123:badsig")),
	}
	for _, token := range cases {
		if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected invalid token, got %v", token, err)
		}
	}
}

func TestHMACStrategyRejectsTamperedClaims(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	token, err := strategy.IssueToken(42, model.RoleCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(token)
	tampered := strings.Replace(string(raw), "customer", "operator", 1)
	if _, err := strategy.ParseToken(base64.StdEncoding.EncodeToString([]byte(tampered))); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for role escalation, got %v", err)
	}
}

func TestHMACStrategyRejectsForeignSecret(t *testing.T) {
	token, err := NewHMACStrategy("secret-a", Options{}).IssueToken(42, model.RoleCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewHMACStrategy("secret-b", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestHMACStrategyRejectsExpiredToken(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})

	// A correctly signed token whose expiry is already in the past.
	payload := fmt.Sprintf("42:%s:%d", model.RoleCustomer, time.Now().Add(-time.Minute).Unix())
	token := base64.StdEncoding.EncodeToString([]byte(payload + ":" + strategy.sign(payload)))

	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for expired claims, got %v", err)
	}
}

func TestHMACStrategyName(t *testing.T) {
	if name := NewHMACStrategy("secret", Options{}).Name(); name != "hmac" {
		t.Fatalf("unexpected name %s", name)
	}
}
