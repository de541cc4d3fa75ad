package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a registered biller. Its ID scopes the persisted invoice counter
// and biller profile.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CompanyName  string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string { return "accounts" }

// BeforeCreate assigns the ID in Go so sqlite and postgres behave the same.
func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
