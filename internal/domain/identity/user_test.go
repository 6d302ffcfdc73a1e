package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates an active user with a hashed password", func(t *testing.T) {
		user, err := NewUser("Selam.T", "secret123", UserRoleStaff)
		require.NoError(t, err)

		assert.Equal(t, "selam.t", user.Username)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("rejects short usernames", func(t *testing.T) {
		_, err := NewUser("ab", "secret123", UserRoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		_, err := NewUser("selam", "short1", UserRoleStaff)
		assert.Error(t, err)

		_, err = NewUser("selam", "onlyletters", UserRoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := NewUser("selam", "secret123", UserRole("intern"))
		assert.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("selam", "secret123", UserRoleManager)
	require.NoError(t, err)

	t.Run("requires the correct current password", func(t *testing.T) {
		assert.Error(t, user.ChangePassword("wrong", "newpass456"))
	})

	t.Run("changes the password", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("secret123", "newpass456"))
		assert.True(t, user.VerifyPassword("newpass456"))
		assert.False(t, user.VerifyPassword("secret123"))
	})
}

func TestUser_LoginTracking(t *testing.T) {
	t.Run("failures lock the account at the threshold", func(t *testing.T) {
		user, err := NewUser("selam", "secret123", UserRoleStaff)
		require.NoError(t, err)

		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired locks release automatically", func(t *testing.T) {
		user, err := NewUser("selam", "secret123", UserRoleStaff)
		require.NoError(t, err)

		user.RecordLoginFailure(1, -time.Minute)
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		user, err := NewUser("selam", "secret123", UserRoleStaff)
		require.NoError(t, err)

		user.RecordLoginFailure(3, time.Hour)
		user.RecordLoginSuccess()

		assert.Equal(t, 0, user.FailedAttempts)
		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestUser_StatusChanges(t *testing.T) {
	user, err := NewUser("selam", "secret123", UserRoleStaff)
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
}
