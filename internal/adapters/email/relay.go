// Package email sends transactional mail through an EmailJS-compatible
// HTTP relay. The core treats delivery as fire-and-forget; every failure is
// logged and swallowed by the callers.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

type relayPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// RelayNotifier posts template sends to the relay endpoint. With no service
// id configured it degrades to a logged no-op, which keeps local development
// working without relay credentials.
type RelayNotifier struct {
	baseURL           string
	serviceID         string
	publicKey         string
	otpTemplateID     string
	welcomeTemplateID string
	client            *http.Client
}

var _ portssvc.NotifierSvcFacade = (*RelayNotifier)(nil)

// NewRelayNotifier builds the notifier from relay config.
func NewRelayNotifier(cfg *config.Config) *RelayNotifier {
	return &RelayNotifier{
		baseURL:           cfg.RelayBaseURL,
		serviceID:         cfg.RelayServiceID,
		publicKey:         cfg.RelayPublicKey,
		otpTemplateID:     cfg.RelayOTPTemplateID,
		welcomeTemplateID: cfg.RelayWelcomeTemplateID,
		client:            &http.Client{Timeout: 10 * time.Second},
	}
}

// SendOneTimeCode delivers the verification code template.
func (n *RelayNotifier) SendOneTimeCode(ctx context.Context, email, code string) error {
	return n.send(ctx, n.otpTemplateID, map[string]string{
		"to_email": email,
		"passcode": code,
	})
}

// SendWelcomeMessage delivers the post-registration template.
func (n *RelayNotifier) SendWelcomeMessage(ctx context.Context, name, email, accountNumber string) error {
	return n.send(ctx, n.welcomeTemplateID, map[string]string{
		"to_name":        name,
		"to_email":       email,
		"account_number": accountNumber,
	})
}

func (n *RelayNotifier) send(ctx context.Context, templateID string, params map[string]string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if n.serviceID == "" || templateID == "" {
		logger.WarnContext(ctx, "email relay not configured, dropping send", "template_id", templateID)
		return nil
	}

	body, err := json.Marshal(relayPayload{
		ServiceID:      n.serviceID,
		TemplateID:     templateID,
		UserID:         n.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay returned %d: %s", resp.StatusCode, detail)
	}

	logger.InfoContext(ctx, "relay send accepted", "template_id", templateID)
	return nil
}
