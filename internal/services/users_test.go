package services_test

import (
	"testing"
	"time"

	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserService_Register(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	user, err := users.Register(db, "Alice@Example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email, "email is normalized")
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, services.VerifyPassword(user.PasswordHash, "s3cret-pass"))
}

func TestUserService_Register_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	_, err := users.Register(db, "dup@example.com", "", "password1")
	require.NoError(t, err)

	_, err = users.Register(db, "dup@example.com", "other", "password2")
	assert.ErrorIs(t, err, services.ErrDuplicateIdentifier)

	// Same identifier in different case is still a duplicate.
	_, err = users.Register(db, "DUP@example.com", "", "password3")
	assert.ErrorIs(t, err, services.ErrDuplicateIdentifier)
}

func TestUserService_Register_RaceLoserSeesDuplicate(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	_, err := users.Register(db, "race@example.com", "", "password1")
	require.NoError(t, err)

	// A registration that passed the precheck before a concurrent winner
	// committed lands on the unique constraint. The driver error must
	// translate to gorm.ErrDuplicatedKey so Register can map it to
	// ErrDuplicateIdentifier instead of an internal error.
	dup := models.User{
		ID:           newOwner(),
		Email:        "race@example.com",
		PasswordHash: "irrelevant",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	_, err := users.Register(db, "", "x", "password")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = users.Register(db, "a@b.com", "x", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestUserService_Authenticate(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	registered, err := users.Register(db, "login@example.com", "", "correct-horse")
	require.NoError(t, err)

	user, err := users.Authenticate(db, "login@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// Wrong password and unknown email are indistinguishable.
	_, err = users.Authenticate(db, "login@example.com", "wrong-horse")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	_, err = users.Authenticate(db, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestUserService_Authenticate_InactiveUser(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	user, err := users.Register(db, "gone@example.com", "", "password")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error)

	_, err = users.Authenticate(db, "gone@example.com", "password")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestUserService_GetByID(t *testing.T) {
	db := setupTestDB(t)
	users := services.NewUserService(4)

	user, err := users.Register(db, "me@example.com", "me", "password")
	require.NoError(t, err)

	got, err := users.GetByID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = users.GetByID(db, newOwner())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestVerifyPassword_Property(t *testing.T) {
	users := services.NewUserService(4)
	db := setupTestDB(t)

	u, err := users.Register(db, "prop@example.com", "", "password-one")
	require.NoError(t, err)

	assert.True(t, services.VerifyPassword(u.PasswordHash, "password-one"))
	assert.False(t, services.VerifyPassword(u.PasswordHash, "password-two"))
	assert.False(t, services.VerifyPassword(u.PasswordHash, ""))
}
