package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"task-tracker/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the credential store: it owns user identity and password
// verification. Passwords are only ever persisted as bcrypt hashes.
type UserService interface {
	Register(db *gorm.DB, email, username, password string) (*models.User, error)
	Authenticate(db *gorm.DB, email, password string) (*models.User, error)
	GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error)
}

type UserServiceImpl struct {
	bcryptCost int
}

func NewUserService(bcryptCost int) *UserServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserServiceImpl{bcryptCost: bcryptCost}
}

func (s *UserServiceImpl) Register(db *gorm.DB, email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateIdentifier
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(&user).Error; err != nil {
		// Lost the race against a concurrent registration with the same
		// email; the unique constraint is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

func (s *UserServiceImpl) Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}

	return &user, nil
}

func (s *UserServiceImpl) GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// bcrypt's comparison is constant-time over the derived key.
func VerifyPassword(hashedPassword, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plain)) == nil
}
