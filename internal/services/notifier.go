package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/config"
)

// DeliveryStatus is the observable outcome of sending an invitation email.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

var ErrMailNotConfigured = errors.New("mail delivery is not configured")

// DeliveryResult reports whether an email was handed to the provider.
type DeliveryResult struct {
	Status DeliveryStatus
	Err    error
}

func (r DeliveryResult) Sent() bool {
	return r.Status == DeliverySent
}

func delivered() DeliveryResult {
	return DeliveryResult{Status: DeliverySent}
}

func deliveryFailed(err error) DeliveryResult {
	return DeliveryResult{Status: DeliveryFailed, Err: err}
}

// InvitationMessage is the content of an invitation email.
type InvitationMessage struct {
	To               string
	OrganizationName string
	Link             string
}

// Notifier delivers invitation emails. Implementations never return an error:
// failure is reported in the result and must not abort the caller.
type Notifier interface {
	SendInvitation(ctx context.Context, msg InvitationMessage) DeliveryResult
}

// NoopNotifier is used when no mail provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) SendInvitation(ctx context.Context, msg InvitationMessage) DeliveryResult {
	return deliveryFailed(ErrMailNotConfigured)
}

// NewNotifier returns a Mailgun sender when credentials are configured and a
// NoopNotifier otherwise.
func NewNotifier(cfg config.MailConfig) Notifier {
	if !cfg.Enabled() {
		return NoopNotifier{}
	}
	return NewMailgunSender(cfg, nil)
}

// MailgunSender posts invitation emails to the Mailgun messages API.
type MailgunSender struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewMailgunSender creates a MailgunSender. A nil client uses http.DefaultClient.
func NewMailgunSender(cfg config.MailConfig, client *http.Client) *MailgunSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &MailgunSender{cfg: cfg, client: client}
}

// SendInvitation sends the email, retrying transient failures with exponential
// backoff. The whole exchange, retries included, is bounded by the configured
// mail timeout.
func (s *MailgunSender) SendInvitation(ctx context.Context, msg InvitationMessage) DeliveryResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	logger := zerolog.Ctx(ctx)

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.post(ctx, msg)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(s.cfg.Timeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debug().Err(err).Dur("retry_in", next).Str("to", msg.To).Msg("retrying invitation email")
		}),
	)
	if err != nil {
		return deliveryFailed(err)
	}
	return delivered()
}

func (s *MailgunSender) post(ctx context.Context, msg InvitationMessage) error {
	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.Domain)

	form := url.Values{}
	form.Set("from", s.cfg.From)
	form.Set("to", msg.To)
	form.Set("subject", fmt.Sprintf("%s invitation", msg.OrganizationName))
	form.Set("text", fmt.Sprintf("You have been invited to join %s.\nInvitation link: %s\n", msg.OrganizationName, msg.Link))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build mailgun request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailgun request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("mailgun responded %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("mailgun responded %d", resp.StatusCode))
	}
}
