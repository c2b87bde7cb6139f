package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Application roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a login account. Regular users may view tasks and record
// completions; admins additionally manage users, members and task lifecycle
// overrides.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin has a value receiver so it can be called on plain User values,
// not just addressable ones.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
