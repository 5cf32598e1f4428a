package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"userhub_backend/internal/models"
)

var (
	// ErrTokenNotFound is returned when no usable token row matches.
	// Absent rows and rows outside the validity window are reported alike.
	ErrTokenNotFound = errors.New("token not found")
)

// TokenRepository defines persistence operations for session tokens.
type TokenRepository interface {
	Create(db *gorm.DB, token *models.Token) error

	// FindValid returns the token row only when its LastUsedAt is strictly
	// after cutoff. Expired rows stay in place for the sweep.
	FindValid(db *gorm.DB, tokenString string, cutoff time.Time) (*models.Token, error)

	// Touch moves the token's LastUsedAt forward.
	Touch(db *gorm.DB, tokenString string, usedAt time.Time) error

	// DeleteByToken removes one token row; missing rows are not an error.
	DeleteByToken(db *gorm.DB, tokenString string) error

	// DeleteByUserID removes every token belonging to a user.
	DeleteByUserID(db *gorm.DB, userID uint) error

	// DeleteLastUsedBefore removes all tokens last used before cutoff and
	// reports how many rows went away.
	DeleteLastUsedBefore(db *gorm.DB, cutoff time.Time) (int64, error)
}

type tokenRepository struct{}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(db *gorm.DB, token *models.Token) error {
	return db.Create(token).Error
}

func (r *tokenRepository) FindValid(db *gorm.DB, tokenString string, cutoff time.Time) (*models.Token, error) {
	var token models.Token
	err := db.Where("token = ? AND last_used_at > ?", tokenString, cutoff).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Touch(db *gorm.DB, tokenString string, usedAt time.Time) error {
	return db.Model(&models.Token{}).
		Where("token = ?", tokenString).
		Update("last_used_at", usedAt).Error
}

func (r *tokenRepository) DeleteByToken(db *gorm.DB, tokenString string) error {
	return db.Where("token = ?", tokenString).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteByUserID(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteLastUsedBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("last_used_at < ?", cutoff).Delete(&models.Token{})
	return result.RowsAffected, result.Error
}
