package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// resendRequest is the payload for the Resend send-email API.
type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	Message string `json:"message"`
}

// SendResult reports a single delivery attempt. Callers treat delivery as
// best-effort and never fail a request on a mail error.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Mailer sends transactional email through the Resend HTTP API. When no API
// key is configured it logs and reports failure instead of calling out.
type Mailer struct {
	apiKey     string
	fromEmail  string
	adminEmail string
	endpoint   string
	client     *http.Client
}

// MailerConfig carries the delivery settings read from the environment.
type MailerConfig struct {
	APIKey     string
	FromEmail  string
	AdminEmail string
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		apiKey:     cfg.APIKey,
		fromEmail:  cfg.FromEmail,
		adminEmail: cfg.AdminEmail,
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether outbound mail is configured at all.
func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.fromEmail != ""
}

// Send delivers one email and returns the attempt outcome. Errors are
// reported in the result rather than returned, matching the fire-and-forget
// call sites.
func (m *Mailer) Send(subject, html string, recipients []string) SendResult {
	if len(recipients) == 0 {
		return SendResult{Error: "at least one recipient is required"}
	}
	if !m.Enabled() {
		log.Warn().Str("subject", subject).Msg("Email service not configured, skipping send")
		return SendResult{Error: "email service not configured"}
	}

	payload, err := json.Marshal(resendRequest{
		From:    m.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return SendResult{Error: fmt.Sprintf("failed to marshal email payload: %v", err)}
	}

	req, err := http.NewRequest(http.MethodPost, m.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return SendResult{Error: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Email request failed")
		return SendResult{Error: fmt.Sprintf("failed to reach email API: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SendResult{Error: fmt.Sprintf("failed to read email API response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr resendError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			log.Error().Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("Email API rejected send")
			return SendResult{Error: apiErr.Message}
		}
		log.Error().Int("status", resp.StatusCode).Msg("Email API rejected send")
		return SendResult{Error: fmt.Sprintf("email API returned status %d", resp.StatusCode)}
	}

	var ok resendResponse
	if err := json.Unmarshal(body, &ok); err != nil {
		return SendResult{Error: fmt.Sprintf("failed to decode email API response: %v", err)}
	}

	log.Info().Str("messageId", ok.ID).Str("subject", subject).Msg("Email sent")
	return SendResult{Success: true, MessageID: ok.ID}
}

// NotifyContact sends the admin notification for a new contact submission.
func (m *Mailer) NotifyContact(name, email, subject, message string) SendResult {
	if m.adminEmail == "" {
		return SendResult{Error: "no admin email configured"}
	}
	return m.Send(
		fmt.Sprintf("New Contact Form Submission: %s", subject),
		contactNotificationHTML(name, email, subject, message),
		[]string{m.adminEmail},
	)
}

// ConfirmContact sends the auto-reply to the person who submitted the form.
func (m *Mailer) ConfirmContact(name, email, subject string) SendResult {
	return m.Send(
		"Thank you for contacting us!",
		contactConfirmationHTML(name, subject),
		[]string{email},
	)
}

// SendPasswordReset delivers the reset link for the given token.
func (m *Mailer) SendPasswordReset(email, name, resetURL string) SendResult {
	return m.Send(
		"Password Reset Request",
		passwordResetHTML(name, resetURL),
		[]string{email},
	)
}

// SendWelcome greets a newly created account.
func (m *Mailer) SendWelcome(email, name string) SendResult {
	return m.Send(
		"Welcome to the Portfolio Admin!",
		welcomeHTML(name),
		[]string{email},
	)
}
