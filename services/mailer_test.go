package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(endpoint string) *Mailer {
	m := NewMailer(MailerConfig{
		APIKey:     "test-key",
		FromEmail:  "Saad <noreply@example.com>",
		AdminEmail: "admin@example.com",
	})
	if endpoint != "" {
		m.endpoint = endpoint
	}
	return m
}

func TestSendSuccess(t *testing.T) {
	var got resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(resendResponse{ID: "msg-123"})
	}))
	defer server.Close()

	result := newTestMailer(server.URL).Send("Hello", "<p>Hi</p>", []string{"jane@example.com"})

	assert.True(t, result.Success)
	assert.Equal(t, "msg-123", result.MessageID)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, []string{"jane@example.com"}, got.To)
	assert.Equal(t, "Saad <noreply@example.com>", got.From)
}

func TestSendReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(resendError{Message: "invalid recipient"})
	}))
	defer server.Close()

	result := newTestMailer(server.URL).Send("Hello", "<p>Hi</p>", []string{"bad"})

	assert.False(t, result.Success)
	assert.Equal(t, "invalid recipient", result.Error)
}

func TestSendRequiresRecipients(t *testing.T) {
	result := newTestMailer("").Send("Hello", "<p>Hi</p>", nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestSendSkipsWhenUnconfigured(t *testing.T) {
	m := NewMailer(MailerConfig{})
	assert.False(t, m.Enabled())

	result := m.Send("Hello", "<p>Hi</p>", []string{"jane@example.com"})
	assert.False(t, result.Success)
	assert.Equal(t, "email service not configured", result.Error)
}

func TestNotifyContactRequiresAdminEmail(t *testing.T) {
	m := NewMailer(MailerConfig{APIKey: "k", FromEmail: "f@example.com"})
	result := m.NotifyContact("Jane", "jane@example.com", "Hi", "Hello")
	assert.False(t, result.Success)
}

func TestSendPasswordResetAndWelcome(t *testing.T) {
	var got resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(resendResponse{ID: "msg-456"})
	}))
	defer server.Close()
	m := newTestMailer(server.URL)

	result := m.SendPasswordReset("jane@example.com", "Jane", "https://example.com/reset?token=abc")
	assert.True(t, result.Success)
	assert.Equal(t, []string{"jane@example.com"}, got.To)
	assert.Contains(t, got.Html, "https://example.com/reset?token=abc")

	result = m.SendWelcome("jane@example.com", "Jane")
	assert.True(t, result.Success)
	assert.Contains(t, got.Html, "Jane")
}

func TestTemplatesEscapeUserContent(t *testing.T) {
	html := contactNotificationHTML("<script>", "jane@example.com", "Hi & bye", "msg")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Hi &amp; bye")
}
