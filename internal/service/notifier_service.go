package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vendor-settlement-service/config"
	"vendor-settlement-service/internal/core/domain"
	"vendor-settlement-service/internal/core/ports"

	"github.com/rs/zerolog"
)

// mailRetryIntervals defines the delivery retry schedule.
var mailRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	5 * time.Minute,
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// mailMessage is the JSON structure sent to the mail gateway.
type mailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// mailNotifier implements ports.NotificationSender against an HTTP mail
// gateway. Delivery happens asynchronously with retries; a dead gateway
// never blocks or fails the withdrawal review that triggered the mail.
type mailNotifier struct {
	cfg        config.MailerConfig
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewMailNotifier creates a new mail gateway notifier.
func NewMailNotifier(cfg config.MailerConfig, httpClient HTTPClient, log zerolog.Logger) ports.NotificationSender {
	return &mailNotifier{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log,
	}
}

// SendWithdrawalReviewed enqueues the review outcome mail for the vendor.
func (s *mailNotifier) SendWithdrawalReviewed(ctx context.Context, n ports.WithdrawalNotification) error {
	if !s.cfg.Enabled || s.cfg.URL == "" {
		s.log.Debug().Str("email", n.VendorEmail).Msg("mailer disabled, skipping notification")
		return nil
	}
	if n.VendorEmail == "" {
		s.log.Debug().Msg("vendor has no email, skipping notification")
		return nil
	}

	msg := mailMessage{
		To:      n.VendorEmail,
		Subject: fmt.Sprintf("Your withdrawal request was %s", n.Status),
		Body:    buildReviewMailBody(n),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}

	// Fire async with retries
	go s.deliverWithRetries(payload, n.VendorEmail)

	return nil
}

func buildReviewMailBody(n ports.WithdrawalNotification) string {
	body := fmt.Sprintf("Hello %s,\n\nYour withdrawal request of %s to %s (%s) has been %s.",
		n.VendorName, n.Amount.String(), n.BankName, n.AccountNumber, n.Status)
	if n.Status == domain.WithdrawalStatusRejected && n.AdminNotes != nil && *n.AdminNotes != "" {
		body += fmt.Sprintf("\n\nReason: %s", *n.AdminNotes)
	}
	return body
}

// deliverWithRetries attempts delivery to the mail gateway, backing off
// between attempts.
func (s *mailNotifier) deliverWithRetries(payload []byte, email string) {
	for attempt := 0; attempt <= len(mailRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(mailRetryIntervals[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
		if err != nil {
			s.log.Error().Err(err).Str("email", email).Msg("mailer: failed to create request")
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if s.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Int("attempt", attempt+1).Msg("mailer: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.log.Info().Str("email", email).Int("attempt", attempt+1).Msg("mailer: notification delivered")
			return
		}

		s.log.Warn().Str("email", email).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("mailer: non-2xx response, retrying")
	}

	s.log.Error().Str("email", email).Msg("mailer: all retry attempts exhausted")
}
