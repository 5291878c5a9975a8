package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	JWTSecret          string
	SessionTTL         time.Duration
	ConfirmationSecret string
	ConfirmationTTL    time.Duration
	OTPTTL             time.Duration
	MailerAddress      string
	StorefrontURL      string
	CORSOrigins        []string
	TaxRate            decimal.Decimal
	EMIInterestRate    decimal.Decimal
	NotifyPollInterval time.Duration
	WorkerPoolSize     int
	NotifyBatchSize    int
	ShutdownTimeout    time.Duration
	AdminEmail         string
	AdminPassword      string
	LogLevel           string
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultSessionTTL         = 24 * time.Hour
	defaultConfirmationTTL    = 72 * time.Hour
	defaultOTPTTL             = 15 * time.Minute
	defaultStorefrontURL      = "http://localhost:3000"
	defaultCORSOrigins        = "*"
	defaultTaxRate            = "0"
	defaultEMIInterestRate    = "0.12"
	defaultNotifyPollInterval = 2 * time.Second
	defaultWorkerPoolSize     = 4
	defaultNotifyBatchSize    = 32
	defaultShutdownTimeout    = 10 * time.Second
	defaultLogLevel           = "info"
)

// Load reads an optional .env file and then parses flags and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		SessionTTL:         getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		ConfirmationSecret: getString(lookup, "CONFIRMATION_SECRET", ""),
		ConfirmationTTL:    getDuration(lookup, "CONFIRMATION_TTL", defaultConfirmationTTL),
		OTPTTL:             getDuration(lookup, "OTP_TTL", defaultOTPTTL),
		MailerAddress:      getString(lookup, "MAILER_ADDRESS", ""),
		StorefrontURL:      getString(lookup, "STOREFRONT_URL", defaultStorefrontURL),
		NotifyPollInterval: getDuration(lookup, "NOTIFY_POLL_INTERVAL", defaultNotifyPollInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		NotifyBatchSize:    getInt(lookup, "NOTIFY_BATCH_SIZE", defaultNotifyBatchSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		AdminEmail:         getString(lookup, "ADMIN_EMAIL", ""),
		AdminPassword:      getString(lookup, "ADMIN_PASSWORD", ""),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("solarstore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sessionTTLStr      = cfg.SessionTTL.String()
		confirmationTTLStr = cfg.ConfirmationTTL.String()
		otpTTLStr          = cfg.OTPTTL.String()
		notifyIntervalStr  = cfg.NotifyPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		corsOriginsStr     = getString(lookup, "CORS_ORIGINS", defaultCORSOrigins)
		taxRateStr         = getString(lookup, "TAX_RATE", defaultTaxRate)
		emiRateStr         = getString(lookup, "EMI_INTEREST_RATE", defaultEMIInterestRate)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.MailerAddress, "m", cfg.MailerAddress, "Mailer service base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Lifetime of session tokens")
	fs.StringVar(&cfg.ConfirmationSecret, "confirmation-secret", cfg.ConfirmationSecret, "Secret for signing order confirmation tokens")
	fs.StringVar(&confirmationTTLStr, "confirmation-ttl", confirmationTTLStr, "Lifetime of order confirmation tokens")
	fs.StringVar(&otpTTLStr, "otp-ttl", otpTTLStr, "Lifetime of email verification codes")
	fs.StringVar(&cfg.StorefrontURL, "storefront-url", cfg.StorefrontURL, "Public storefront URL used in email links")
	fs.StringVar(&corsOriginsStr, "cors-origins", corsOriginsStr, "Comma separated list of allowed origins")
	fs.StringVar(&taxRateStr, "tax-rate", taxRateStr, "Tax rate applied to discounted subtotal")
	fs.StringVar(&emiRateStr, "emi-rate", emiRateStr, "Annual EMI interest rate")
	fs.StringVar(&notifyIntervalStr, "notify-interval", notifyIntervalStr, "Interval between outbox polls")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent email workers")
	fs.IntVar(&cfg.NotifyBatchSize, "notify-batch", cfg.NotifyBatchSize, "Maximum emails per outbox batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Minimum log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.ConfirmationTTL, err = time.ParseDuration(confirmationTTLStr); err != nil {
		return nil, fmt.Errorf("invalid confirmation ttl: %w", err)
	}

	if cfg.OTPTTL, err = time.ParseDuration(otpTTLStr); err != nil {
		return nil, fmt.Errorf("invalid otp ttl: %w", err)
	}

	if cfg.NotifyPollInterval, err = time.ParseDuration(notifyIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid notify interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TaxRate, err = decimal.NewFromString(strings.TrimSpace(taxRateStr)); err != nil {
		return nil, fmt.Errorf("invalid tax rate: %w", err)
	}

	if cfg.EMIInterestRate, err = decimal.NewFromString(strings.TrimSpace(emiRateStr)); err != nil {
		return nil, fmt.Errorf("invalid emi rate: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.ConfirmationSecret == "" {
		cfg.ConfirmationSecret = cfg.JWTSecret
	}

	cfg.CORSOrigins = splitList(corsOriginsStr)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{defaultCORSOrigins}
	}

	cfg.StorefrontURL = strings.TrimRight(cfg.StorefrontURL, "/")

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.ConfirmationTTL <= 0 {
		cfg.ConfirmationTTL = defaultConfirmationTTL
	}

	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TaxRate.IsNegative() {
		cfg.TaxRate = decimal.Zero
	}

	if cfg.EMIInterestRate.IsNegative() {
		cfg.EMIInterestRate = decimal.RequireFromString(defaultEMIInterestRate)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
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

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
