package mailer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/greenbasket/greenbasket/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestLogMailerSendAlwaysSucceeds(t *testing.T) {
	m := NewLogMailer(testLogger())
	if err := m.Send(context.Background(), "buyer@example.com", "Order update", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSMTPMailerHonoursCancelledContext(t *testing.T) {
	m := NewSMTPMailer("localhost:25", "noreply@greenbasket.dev")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, "buyer@example.com", "Order update", "hello"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewMailerChoosesImplementation(t *testing.T) {
	m := newMailer(mailerParams{Config: &config.Config{}, Logger: testLogger()})
	if _, ok := m.(*LogMailer); !ok {
		t.Fatalf("expected log mailer without a relay, got %T", m)
	}

	m = newMailer(mailerParams{Config: &config.Config{SMTPAddress: "localhost:25", SMTPFrom: "noreply@greenbasket.dev"}, Logger: testLogger()})
	if _, ok := m.(*SMTPMailer); !ok {
		t.Fatalf("expected smtp mailer with a relay, got %T", m)
	}
}
