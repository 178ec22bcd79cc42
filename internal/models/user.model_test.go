package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UpdateFromIdentity(t *testing.T) {
	t.Run("populates empty user", func(t *testing.T) {
		user := User{}
		email := "kim@example.com"
		name := "Kim Reyes"

		user.UpdateFromIdentity("subject-123", &email, &name, "Kim", "Reyes", "oidc")

		assert.Equal(t, "subject-123", user.SubjectID)
		require.NotNil(t, user.Email)
		assert.Equal(t, email, *user.Email)
		assert.Equal(t, "Kim Reyes", user.DisplayName)
		assert.Equal(t, "Kim", user.FirstName)
		assert.Equal(t, "Reyes", user.LastName)
		require.NotNil(t, user.Provider)
		assert.Equal(t, "oidc", *user.Provider)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("empty claims do not clobber existing data", func(t *testing.T) {
		existingEmail := "kim@example.com"
		user := User{
			SubjectID:   "subject-123",
			Email:       &existingEmail,
			DisplayName: "Kim Reyes",
			FirstName:   "Kim",
			LastName:    "Reyes",
		}

		empty := ""
		user.UpdateFromIdentity("subject-123", &empty, &empty, "", "", "")

		assert.Equal(t, existingEmail, *user.Email)
		assert.Equal(t, "Kim Reyes", user.DisplayName)
		assert.Equal(t, "Kim", user.FirstName)
		assert.Equal(t, "Reyes", user.LastName)
	})

	t.Run("falls back to first and last name for display name", func(t *testing.T) {
		user := User{}

		user.UpdateFromIdentity("subject-456", nil, nil, "Ana", "Silva", "oidc")

		assert.Equal(t, "Ana Silva", user.DisplayName)
	})
}

func TestUser_ToProfile(t *testing.T) {
	avatar := "https://example.com/avatar.png"
	user := User{
		DisplayName: "Kim Reyes",
		AvatarURL:   &avatar,
		IsActive:    true,
	}

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "Kim Reyes", profile.DisplayName)
	assert.Equal(t, &avatar, profile.AvatarURL)
	assert.True(t, profile.IsActive)
}
