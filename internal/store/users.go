package store

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourd/internal/apperr"
	"tourd/internal/auth"
	"tourd/internal/models"
)

const minPasswordLength = 8

type userStore struct {
	db *gorm.DB
}

// activeOnly is the transparent soft-delete predicate: inactive users never
// surface, regardless of what the caller asked for.
func (s *userStore) activeOnly(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("active = ?", true)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperr.BadRequest("please provide your email address")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.BadRequest("please provide a valid email address")
	}
	return email, nil
}

func validateNewPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return apperr.BadRequest("password must be at least %d characters", minPasswordLength)
	}
	if password != confirm {
		return apperr.BadRequest("passwords do not match")
	}
	return nil
}

// Create runs the full before-save pipeline for a new account: normalize
// the email, validate the password pair, hash, persist. The confirm value
// is never stored and PasswordChangedAt stays unset on creation.
func (s *userStore) Create(ctx context.Context, user *models.User, password, confirm string) error {
	if strings.TrimSpace(user.Name) == "" {
		return apperr.BadRequest("please tell us your name")
	}
	email, err := normalizeEmail(user.Email)
	if err != nil {
		return err
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if !models.ValidRole(user.Role) {
		return apperr.BadRequest("role must be one of user, admin, guide, lead-guide")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.Email = email
	user.PasswordHash = hash
	user.Active = true

	return apperr.FromDB(s.db.WithContext(ctx).Create(user).Error)
}

func (s *userStore) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.activeOnly(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &user, nil
}

func (s *userStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.activeOnly(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return &user, nil
}

// ByResetToken resolves a presented (already hashed) reset token, honouring
// its expiry.
func (s *userStore) ByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.activeOnly(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", hashedToken, now).
		First(&user).Error
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return &user, nil
}

func (s *userStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.activeOnly(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return users, nil
}

// UpdateProfile changes non-credential fields only. Empty arguments leave
// the current value in place.
func (s *userStore) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, photo string) (*models.User, error) {
	user, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		normalized, err := normalizeEmail(email)
		if err != nil {
			return nil, err
		}
		user.Email = normalized
	}
	if photo != "" {
		user.Photo = photo
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return user, nil
}

// SetPassword is the before-save step for any non-initial password change:
// re-hash, stamp PasswordChangedAt slightly in the past so a token issued
// in the same instant is not spuriously rejected, and clear any pending
// reset token.
func (s *userStore) SetPassword(ctx context.Context, user *models.User, password, confirm string) error {
	if err := validateNewPassword(password, confirm); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	changedAt := time.Now().Add(-time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil

	return apperr.FromDB(s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"password_hash":          user.PasswordHash,
		"password_changed_at":    user.PasswordChangedAt,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	}).Error)
}

// SaveResetToken persists a reset token hash and expiry, replacing any
// previous token so at most one stays active per user.
func (s *userStore) SaveResetToken(ctx context.Context, id uuid.UUID, hashedToken string, expires time.Time) error {
	return apperr.FromDB(s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token":   hashedToken,
			"password_reset_expires": expires,
		}).Error)
}

// ClearResetToken is the compensating action for failed reset delivery, and
// part of redemption.
func (s *userStore) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return apperr.FromDB(s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		}).Error)
}

func (s *userStore) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperr.BadRequest("role must be one of user, admin, guide, lead-guide")
	}
	user, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return user, nil
}

// Deactivate soft-deletes: the row stays, every read path hides it.
func (s *userStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return apperr.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
