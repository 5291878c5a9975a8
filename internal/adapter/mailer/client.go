package mailer

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

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// ErrRejected indicates the mailer refused the message as malformed.
var ErrRejected = errors.New("message rejected by mailer")

// TooManyRequestsError represents rate limiting signal from the mailer.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Mailer delivers templated email.
type Mailer interface {
	Send(ctx context.Context, msg model.EmailMessage) error
}

// HTTPClient implements Mailer via the mail service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type request struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Payload  map[string]string `json:"payload"`
}

// NewHTTPClient creates HTTP mail client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse mailer url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mailer url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts the message to the mail service.
func (c *HTTPClient) Send(ctx context.Context, msg model.EmailMessage) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/messages")

	body, err := json.Marshal(request{To: msg.Recipient, Template: msg.Template, Payload: msg.Payload})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrRejected
	default:
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("mailer request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return fmt.Errorf("mailer error: %s", resp.Status)
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

// LogMailer writes messages to the log instead of sending them. Used when no
// mail service is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg model.EmailMessage) error {
	attrs := []any{slog.String("to", msg.Recipient), slog.String("template", msg.Template)}
	for k, v := range msg.Payload {
		attrs = append(attrs, slog.String(k, v))
	}
	m.logger.Info("email", attrs...)
	return nil
}
