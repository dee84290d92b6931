package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account holder. Accounts start inactive and are activated by the
// email verification link.
type User struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string            `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string            `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string            `gorm:"size:255;not null" json:"-"`
	Active       bool              `gorm:"not null;default:false" json:"active"`
	Addresses    []ShippingAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders       []Order           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
}

// SetPassword stores a bcrypt hash of the raw password.
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the raw password matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}
