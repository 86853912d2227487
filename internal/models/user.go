package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// DefaultRole is assigned when registration omits a role
const DefaultRole = "user"

// User is an account of the scheduling system. Users are never deleted,
// they are disabled instead.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:'user'" json:"role"`
	Fullname     string    `json:"fullname"`
	ImageURL     string    `gorm:"column:image_url" json:"imageUrl"`
	Status       string    `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// SetPassword hashes password with the given bcrypt cost and stores the hash
func (u *User) SetPassword(password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizedStatus returns the account status trimmed and lower-cased.
// A missing status counts as active.
func (u *User) NormalizedStatus() string {
	status := strings.ToLower(strings.TrimSpace(u.Status))
	if status == "" {
		return UserStatusActive
	}
	return status
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.NormalizedStatus() == UserStatusActive
}
