package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		u := User{}
		assert.Equal(t, "users", u.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		u := User{}
		err := u.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)

		existingID := uuid.New()
		u2 := User{ID: existingID}
		err = u2.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.Equal(t, existingID, u2.ID)
	})

	t.Run("SetPassword", func(t *testing.T) {
		u := User{}

		err := u.SetPassword("short")
		assert.Equal(t, ErrPasswordTooShort, err)
		assert.Empty(t, u.PasswordHash)

		err = u.SetPassword("secure-password")
		assert.NoError(t, err)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "secure-password", u.PasswordHash)
	})

	t.Run("CheckPassword", func(t *testing.T) {
		u := User{}
		err := u.SetPassword("secure-password")
		assert.NoError(t, err)

		assert.True(t, u.CheckPassword("secure-password"))
		assert.False(t, u.CheckPassword("wrong-password"))
		assert.False(t, u.CheckPassword(""))
	})

	t.Run("Status helpers", func(t *testing.T) {
		u := User{Status: UserStatusPending}
		assert.False(t, u.IsActive())
		assert.False(t, u.IsEmailVerified())

		u.MarkVerified()
		assert.True(t, u.IsActive())
		assert.True(t, u.IsEmailVerified())
		assert.Equal(t, UserStatusActive, u.Status)

		u.Status = UserStatusSuspended
		assert.False(t, u.IsActive())
	})

	t.Run("UpdateLastLogin", func(t *testing.T) {
		u := User{}
		assert.Nil(t, u.LastLoginAt)

		u.UpdateLastLogin()
		assert.NotNil(t, u.LastLoginAt)
		assert.WithinDuration(t, time.Now(), *u.LastLoginAt, time.Second)
	})

	t.Run("GetFullName", func(t *testing.T) {
		u := User{FirstName: "Ada", LastName: "Obi"}
		assert.Equal(t, "Ada Obi", u.GetFullName())

		u = User{}
		assert.Equal(t, "", u.GetFullName())
	})

	t.Run("Validate", func(t *testing.T) {
		validUser := User{
			Email:        "ada@example.com",
			PasswordHash: "hashed",
			Role:         RoleStudent,
			Status:       UserStatusPending,
		}
		assert.NoError(t, validUser.Validate())

		tests := []struct {
			name   string
			modify func(*User)
			err    error
		}{
			{"Empty email", func(u *User) { u.Email = "" }, ErrInvalidEmail},
			{"Empty password hash", func(u *User) { u.PasswordHash = "" }, ErrInvalidPassword},
			{"Empty role", func(u *User) { u.Role = "" }, ErrInvalidRoleName},
			{"Unknown status", func(u *User) { u.Status = "frozen" }, ErrInvalidUserStatus},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				user := validUser
				tt.modify(&user)
				assert.Equal(t, tt.err, user.Validate())
			})
		}
	})

	t.Run("MaskSensitiveData", func(t *testing.T) {
		u := User{
			Email:        "ada@example.com",
			Phone:        "+2348012345678",
			PasswordHash: "bcrypt-hash",
		}

		masked := u.MaskSensitiveData()
		assert.Equal(t, "***", masked.PasswordHash)
		assert.Equal(t, "***.com", masked.Email)
		assert.Equal(t, "***5678", masked.Phone)

		// Original is untouched
		assert.Equal(t, "ada@example.com", u.Email)
		assert.Equal(t, "bcrypt-hash", u.PasswordHash)
	})

	t.Run("IsEmail", func(t *testing.T) {
		assert.True(t, IsEmail("ada@example.com"))
		assert.False(t, IsEmail("ada"))
		assert.False(t, IsEmail("ada@example"))
		assert.False(t, IsEmail(""))
	})

	t.Run("HashPassword and CheckPasswordHash", func(t *testing.T) {
		_, err := HashPassword("short")
		assert.Equal(t, ErrPasswordTooShort, err)

		hash, err := HashPassword("secure-password")
		assert.NoError(t, err)
		assert.True(t, CheckPasswordHash("secure-password", hash))
		assert.False(t, CheckPasswordHash("wrong", hash))
	})
}
