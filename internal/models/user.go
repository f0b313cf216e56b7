package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// User is an account identified by its email. The password hash is never
// serialized in responses.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string    `json:"email" gorm:"unique;not null"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
}
