package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. The set is closed; anything else is rejected at
// the store boundary.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleGuide, RoleLeadGuide:
		return true
	}
	return false
}

// User represents an account holder. PasswordHash never leaves the server;
// reset fields hold only the sha256 of the raw reset token.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Photo        string    `gorm:"type:text" json:"photo,omitempty"`
	Role         string    `gorm:"type:text;not null;default:user" json:"role"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`

	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `gorm:"type:text;index" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	// Active is the soft-delete flag; reads exclude inactive users.
	Active bool `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. A token issued before the change is stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// Compare at second granularity, matching the precision of JWT iat.
	return issuedAt.Truncate(time.Second).Before(u.PasswordChangedAt.Truncate(time.Second))
}

// HasActiveResetToken reports whether a non-expired reset token is stored.
func (u *User) HasActiveResetToken(now time.Time) bool {
	return u.PasswordResetToken != "" && u.PasswordResetExpires != nil && now.Before(*u.PasswordResetExpires)
}
