package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSpam(t *testing.T) {
	tests := []struct {
		name    string
		cName   string
		email   string
		message string
		want    bool
	}{
		{"clean message", "Jane Doe", "jane@example.com", "I would love to discuss a project with you.", false},
		{"buy now in message", "Jane Doe", "jane@example.com", "BUY NOW and save big!", true},
		{"indicator split by whitespace", "Jane", "jane@example.com", "act  now before it is too late", true},
		{"case insensitive", "Jane", "jane@example.com", "This is UrGeNt", true},
		{"indicator in name", "Casino Royale", "jane@example.com", "hello there", true},
		{"indicator in email", "Jane", "freeloan@example.com", "hello there", true},
		{"click here", "Jane", "jane@example.com", "please click here to verify", true},
		{"substring credit", "Jane", "jane@example.com", "I need a credit check", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSpam(tt.cName, tt.email, tt.message))
		})
	}
}

func TestMarkReadAdvancesOnlyFromNew(t *testing.T) {
	c := &Contact{Status: ContactStatusNew}

	assert.True(t, c.MarkRead())
	assert.Equal(t, ContactStatusRead, c.Status)

	// second read is a no-op
	assert.False(t, c.MarkRead())
	assert.Equal(t, ContactStatusRead, c.Status)

	replied := &Contact{Status: ContactStatusReplied}
	assert.False(t, replied.MarkRead())
	assert.Equal(t, ContactStatusReplied, replied.Status)
}

func TestSetStatusStampsRepliedAt(t *testing.T) {
	c := &Contact{Status: ContactStatusNew}
	now := time.Now()

	c.SetStatus(ContactStatusReplied, now)
	assert.Equal(t, ContactStatusReplied, c.Status)
	require.NotNil(t, c.RepliedAt)
	assert.Equal(t, now, *c.RepliedAt)

	// moving away from replied keeps the marker
	c.SetStatus(ContactStatusArchived, now.Add(time.Minute))
	assert.Equal(t, ContactStatusArchived, c.Status)
	require.NotNil(t, c.RepliedAt)
	assert.Equal(t, now, *c.RepliedAt)

	// replying again advances the stamp
	later := now.Add(time.Hour)
	c.SetStatus(ContactStatusReplied, later)
	assert.Equal(t, later, *c.RepliedAt)
}

func TestIsValidContactStatus(t *testing.T) {
	for _, s := range ContactStatuses {
		assert.True(t, IsValidContactStatus(s))
	}
	assert.False(t, IsValidContactStatus("deleted"))
	assert.False(t, IsValidContactStatus(""))
	assert.False(t, IsValidContactStatus("New"))
}
