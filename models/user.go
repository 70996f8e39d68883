package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Roles a user account can hold. Admin bypasses the permission set entirely.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
	RoleUser   = "user"
)

var UserRoles = []string{RoleAdmin, RoleEditor, RoleViewer, RoleUser}

// Named permissions checked by the permission guard.
const (
	PermManageUsers    = "manage_users"
	PermManageProjects = "manage_projects"
	PermManageSkills   = "manage_skills"
	PermManageContacts = "manage_contacts"
	PermViewAnalytics  = "view_analytics"
	PermManageContent  = "manage_content"
	PermUploadFiles    = "upload_files"
)

// MaxFailedLogins is the attempt count at which an account locks.
const MaxFailedLogins = 5

// MinPasswordLength applies whenever a plaintext password is set.
const MinPasswordLength = 8

type UserProfile struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
	Location  string `json:"location"`
	Website   string `json:"website"`
}

type UserPreferences struct {
	Theme              string `json:"theme"` // light | dark | system
	Language           string `json:"language"`
	EmailNotifications bool   `json:"emailNotifications"`
}

// User is the identity/authorization record behind the auth gate.
type User struct {
	ID                  uuid.UUID                            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username            string                               `json:"username" gorm:"type:text;not null;uniqueIndex"`
	Email               string                               `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string                               `json:"-" gorm:"column:password_hash;type:text;not null"`
	FirstName           string                               `json:"firstName" gorm:"type:text;not null"`
	LastName            string                               `json:"lastName" gorm:"type:text;not null"`
	Role                string                               `json:"role" gorm:"type:text;not null;default:user"`
	Permissions         datatypes.JSONSlice[string]          `json:"permissions" gorm:"type:jsonb"`
	IsActive            bool                                 `json:"isActive" gorm:"not null;default:true"`
	IsLocked            bool                                 `json:"isLocked" gorm:"not null;default:false"`
	FailedLoginAttempts int                                  `json:"-" gorm:"not null;default:0"`
	LastLoginAt         *time.Time                           `json:"lastLoginAt,omitempty"`
	PasswordResetToken  string                               `json:"-" gorm:"type:text"`
	PasswordResetExpiry *time.Time                           `json:"-"`
	Profile             datatypes.JSONType[UserProfile]      `json:"profile" gorm:"type:jsonb"`
	Preferences         datatypes.JSONType[UserPreferences]  `json:"preferences" gorm:"type:jsonb"`
	CreatedAt           time.Time                            `json:"createdAt"`
	UpdatedAt           time.Time                            `json:"updatedAt"`
}

// SetPassword rehashes the password. cost falls back to bcrypt's default
// when out of range.
func (u *User) SetPassword(plaintext string, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// ComparePassword reports whether candidate matches the stored hash. A
// mismatch is a false return, never an error.
func (u *User) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// HasPermission is the authorization rule shared by every protected route:
// admin passes unconditionally, everyone else by exact membership in the
// stored permission set.
func (u *User) HasPermission(permission string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// RegisterFailedLogin bumps the attempt counter and locks the account once
// it reaches MaxFailedLogins. Advisory lockout: attempt-count based only.
func (u *User) RegisterFailedLogin() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLogins {
		u.IsLocked = true
	}
}

// ResetLoginAttempts clears the counter and the lock. Called on successful
// login or by explicit admin reset.
func (u *User) ResetLoginAttempts() {
	u.FailedLoginAttempts = 0
	u.IsLocked = false
}

// TouchLastLogin stamps a successful authentication.
func (u *User) TouchLastLogin(now time.Time) {
	u.LastLoginAt = &now
}

// GeneratePasswordResetToken stores an opaque token valid for one hour.
func (u *User) GeneratePasswordResetToken(now time.Time) string {
	token := uuid.NewString()
	expiry := now.Add(time.Hour)
	u.PasswordResetToken = token
	u.PasswordResetExpiry = &expiry
	return token
}

func (u *User) ClearPasswordResetToken() {
	u.PasswordResetToken = ""
	u.PasswordResetExpiry = nil
}

// CanAuthenticate reports whether the account is usable at all; locked or
// deactivated accounts fail authentication even with a valid token.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsLocked
}
