package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Contact submission statuses. The progression is new -> read -> replied ->
// archived, but any value may be set by an admin; nothing enforces
// monotonicity.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived}

// spamIndicators are matched case-insensitively against name, email and
// message on submission. Heuristic only; a match never blocks persistence.
var spamIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)buy\s+now`),
	regexp.MustCompile(`(?i)click\s+here`),
	regexp.MustCompile(`(?i)free\s+offer`),
	regexp.MustCompile(`(?i)limited\s+time`),
	regexp.MustCompile(`(?i)act\s+now`),
	regexp.MustCompile(`(?i)urgent`),
	regexp.MustCompile(`(?i)viagra`),
	regexp.MustCompile(`(?i)casino`),
	regexp.MustCompile(`(?i)loan`),
	regexp.MustCompile(`(?i)credit`),
}

// Contact is one inbound message from the public contact form.
type Contact struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name       string     `json:"name" gorm:"type:text;not null"`
	Email      string     `json:"email" gorm:"type:text;not null;index"`
	Subject    string     `json:"subject" gorm:"type:text;not null"`
	Message    string     `json:"message" gorm:"type:text;not null"`
	IPAddress  string     `json:"ipAddress,omitempty" gorm:"type:text"`
	UserAgent  string     `json:"userAgent,omitempty" gorm:"type:text"`
	IsSpam     bool       `json:"isSpam" gorm:"not null;default:false;index"`
	Status     string     `json:"status" gorm:"type:text;not null;default:new;index"`
	AdminNotes string     `json:"adminNotes" gorm:"type:text;not null;default:''"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// DetectSpam reports whether any spam indicator matches name, email or
// message.
func DetectSpam(name, email, message string) bool {
	for _, re := range spamIndicators {
		if re.MatchString(message) || re.MatchString(name) || re.MatchString(email) {
			return true
		}
	}
	return false
}

// IsValidContactStatus checks membership in the status enum.
func IsValidContactStatus(status string) bool {
	for _, s := range ContactStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// MarkRead advances new -> read. Returns true when the transition happened;
// any other starting status is left untouched.
func (c *Contact) MarkRead() bool {
	if c.Status == ContactStatusNew {
		c.Status = ContactStatusRead
		return true
	}
	return false
}

// SetStatus applies an admin status change. Moving to replied stamps
// RepliedAt; moving away from replied never clears it (monotonic marker).
func (c *Contact) SetStatus(status string, now time.Time) {
	c.Status = status
	if status == ContactStatusReplied {
		c.RepliedAt = &now
	}
}

// ContactStats is the live aggregate served by the stats endpoint.
type ContactStats struct {
	Total    int64 `json:"total"`
	New      int64 `json:"new"`
	Read     int64 `json:"read"`
	Replied  int64 `json:"replied"`
	Archived int64 `json:"archived"`
	Spam     int64 `json:"spam"`
}
