package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSetAndComparePassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("correct horse battery", 4))

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "correct horse")
	assert.True(t, u.ComparePassword("correct horse battery"))
	assert.False(t, u.ComparePassword("wrong password"))
}

func TestSetPasswordFallsBackOnBadCost(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("some password", 99))
	assert.True(t, u.ComparePassword("some password"))
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		perms      []string
		permission string
		want       bool
	}{
		{"admin bypasses the set", RoleAdmin, nil, PermManageUsers, true},
		{"member with the permission", RoleUser, []string{PermManageContacts}, PermManageContacts, true},
		{"member without the permission", RoleUser, []string{PermManageContacts}, PermManageProjects, false},
		{"editor is not admin", RoleEditor, nil, PermManageSkills, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role, Permissions: datatypes.NewJSONSlice(tt.perms)}
			assert.Equal(t, tt.want, u.HasPermission(tt.permission))
		})
	}
}

func TestFailedLoginLockout(t *testing.T) {
	u := &User{IsActive: true}

	for i := 0; i < MaxFailedLogins-1; i++ {
		u.RegisterFailedLogin()
		assert.False(t, u.IsLocked, "attempt %d should not lock", i+1)
	}

	u.RegisterFailedLogin()
	assert.True(t, u.IsLocked)
	assert.Equal(t, MaxFailedLogins, u.FailedLoginAttempts)
	assert.False(t, u.CanAuthenticate())

	u.ResetLoginAttempts()
	assert.False(t, u.IsLocked)
	assert.Zero(t, u.FailedLoginAttempts)
	assert.True(t, u.CanAuthenticate())
}

func TestCanAuthenticate(t *testing.T) {
	assert.True(t, (&User{IsActive: true}).CanAuthenticate())
	assert.False(t, (&User{IsActive: false}).CanAuthenticate())
	assert.False(t, (&User{IsActive: true, IsLocked: true}).CanAuthenticate())
}

func TestPasswordResetToken(t *testing.T) {
	u := &User{}
	now := time.Now()

	token := u.GeneratePasswordResetToken(now)
	require.NotEmpty(t, token)
	assert.Equal(t, token, u.PasswordResetToken)
	require.NotNil(t, u.PasswordResetExpiry)
	assert.Equal(t, now.Add(time.Hour), *u.PasswordResetExpiry)

	u.ClearPasswordResetToken()
	assert.Empty(t, u.PasswordResetToken)
	assert.Nil(t, u.PasswordResetExpiry)
}

func TestTouchLastLogin(t *testing.T) {
	u := &User{}
	now := time.Now()
	u.TouchLastLogin(now)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, now, *u.LastLoginAt)
}
