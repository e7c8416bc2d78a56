package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
)

// Sender delivers transactional emails.
type Sender interface {
	SendEmailVerification(ctx context.Context, to Recipient, verificationURL string) error
	SendPasswordReset(ctx context.Context, to Recipient, resetURL string) error
}

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailMessage struct {
	Sender      emailAddress `json:"sender"`
	To          []Recipient  `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

type emailResponse struct {
	MessageID string `json:"messageId,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

// BrevoClient sends mail through the Brevo transactional email HTTP API.
type BrevoClient struct {
	config     *config.Mail
	httpClient *http.Client
}

func NewBrevoClient(cfg *config.Mail) *BrevoClient {
	return &BrevoClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *BrevoClient) IsConfigured() bool {
	return c.config.APIKey != "" && c.config.SenderEmail != ""
}

func (c *BrevoClient) SendEmailVerification(ctx context.Context, to Recipient, verificationURL string) error {
	return c.send(ctx, emailMessage{
		To:          []Recipient{to},
		Subject:     "Verify Your Email Address",
		HTMLContent: renderTemplate(emailVerificationTemplate, to.Name, verificationURL),
	})
}

func (c *BrevoClient) SendPasswordReset(ctx context.Context, to Recipient, resetURL string) error {
	return c.send(ctx, emailMessage{
		To:          []Recipient{to},
		Subject:     "Reset Your Password",
		HTMLContent: renderTemplate(passwordResetTemplate, to.Name, resetURL),
	})
}

func (c *BrevoClient) send(ctx context.Context, msg emailMessage) error {
	if !c.IsConfigured() {
		return fmt.Errorf("mail API key or sender not configured")
	}

	msg.Sender = emailAddress{Name: c.config.SenderName, Email: c.config.SenderEmail}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr emailResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("mail API error: %s (%s)", apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("mail API error: status %d", resp.StatusCode)
	}

	return nil
}
