package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	PaymentSystemAddress string
	PaymentWebhookSecret string
	AuthTokenSecret      string
	DeliveryFee          int64
	ReviewMaxLength      int
	ReconcileInterval    time.Duration
	ReconcileBatch       int
	WorkerPoolSize       int
	ShutdownTimeout      time.Duration
	SMTPAddress          string
	SMTPFrom             string
}

const (
	defaultRunAddress        = ":8080"
	defaultWebhookSecret     = "change-me-in-production"
	defaultAuthSecret        = "change-me-in-production"
	defaultDeliveryFee       = 3000
	defaultReviewMaxLength   = 500
	defaultReconcileInterval = 30 * time.Second
	defaultReconcileBatch    = 32
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultSMTPFrom          = "orders@greenbasket.local"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		PaymentSystemAddress: getString(lookup, "PAYMENT_SYSTEM_ADDRESS", ""),
		PaymentWebhookSecret: getString(lookup, "PAYMENT_WEBHOOK_SECRET", defaultWebhookSecret),
		AuthTokenSecret:      getString(lookup, "AUTH_TOKEN_SECRET", defaultAuthSecret),
		DeliveryFee:          getInt64(lookup, "DELIVERY_FEE", defaultDeliveryFee),
		ReviewMaxLength:      getInt(lookup, "REVIEW_MAX_LENGTH", defaultReviewMaxLength),
		ReconcileInterval:    getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileBatch:       getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SMTPAddress:          getString(lookup, "SMTP_ADDRESS", ""),
		SMTPFrom:             getString(lookup, "SMTP_FROM", defaultSMTPFrom),
	}

	fs := flag.NewFlagSet("greenbasket", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentSystemAddress, "p", cfg.PaymentSystemAddress, "Payment processor base URL")
	fs.StringVar(&cfg.PaymentWebhookSecret, "webhook-secret", cfg.PaymentWebhookSecret, "Shared secret for payment signatures")
	fs.StringVar(&cfg.AuthTokenSecret, "auth-secret", cfg.AuthTokenSecret, "Secret for verifying auth tokens")
	fs.Int64Var(&cfg.DeliveryFee, "delivery-fee", cfg.DeliveryFee, "Delivery fee in minor currency units")
	fs.IntVar(&cfg.ReviewMaxLength, "review-max", cfg.ReviewMaxLength, "Maximum review length in characters")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum orders per reconcile batch")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between payment reconcile polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.SMTPAddress, "smtp-address", cfg.SMTPAddress, "SMTP relay address, empty disables mail")
	fs.StringVar(&cfg.SMTPFrom, "smtp-from", cfg.SMTPFrom, "Sender address for notifications")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("PAYMENT_WEBHOOK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.PaymentWebhookSecret = string(content)
	}

	if cfg.DeliveryFee < 0 {
		cfg.DeliveryFee = defaultDeliveryFee
	}

	if cfg.ReviewMaxLength <= 0 {
		cfg.ReviewMaxLength = defaultReviewMaxLength
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentSystemAddress == "" {
		return nil, fmt.Errorf("payment system address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
