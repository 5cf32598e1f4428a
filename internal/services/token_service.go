package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"userhub_backend/internal/logger"
	"userhub_backend/internal/models"
	"userhub_backend/internal/repositories"
	"userhub_backend/pkg/apperrors"
)

const (
	// TokenLength is the size of the opaque session token string.
	TokenLength = 32

	// TokenExpiry is the sliding inactivity window. A token dies only when
	// it goes unused for this long.
	TokenExpiry = 7 * 24 * time.Hour

	// CleanupInterval is how often the background sweep runs.
	CleanupInterval = time.Hour
)

// TokenService manages the opaque bearer-token session lifecycle: issuance
// on login, sliding-window verification on every authenticated request, and
// the periodic sweep of expired rows.
type TokenService interface {
	// CreateToken issues a fresh token for the user and persists it with
	// LastUsedAt set to now.
	CreateToken(db *gorm.DB, user *models.User) (string, error)

	// Verify resolves a token to its owning user id. A hit renews the
	// sliding window. Unknown and expired tokens fail identically so the
	// caller cannot probe for session existence.
	Verify(db *gorm.DB, tokenString string) (uint, error)

	// DeleteToken removes one token; idempotent, used for logout.
	DeleteToken(db *gorm.DB, tokenString string) error

	// ClearAll invalidates every session of a user (password reset,
	// account deletion).
	ClearAll(db *gorm.DB, userID uint) error

	// ScheduleCleanup starts the hourly sweep goroutine. It runs until ctx
	// is cancelled and is meant to be called once at startup.
	ScheduleCleanup(ctx context.Context, db *gorm.DB)

	// Sweep runs one cleanup pass, deleting every token whose LastUsedAt
	// is older than the expiry window.
	Sweep(db *gorm.DB)
}

type tokenService struct {
	tokenRepo repositories.TokenRepository
	now       func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(tokenRepo repositories.TokenRepository) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		now:       time.Now,
	}
}

func (s *tokenService) CreateToken(db *gorm.DB, user *models.User) (string, error) {
	tokenString := randomToken(TokenLength)
	token := &models.Token{
		Token:      tokenString,
		UserID:     user.ID,
		LastUsedAt: s.now(),
	}
	if err := s.tokenRepo.Create(db, token); err != nil {
		return "", apperrors.InternalError(err)
	}
	return tokenString, nil
}

func (s *tokenService) Verify(db *gorm.DB, tokenString string) (uint, error) {
	cutoff := s.now().Add(-TokenExpiry)

	token, err := s.tokenRepo.FindValid(db, tokenString, cutoff)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return 0, apperrors.ErrAuthenticationFailure
		}
		return 0, apperrors.InternalError(err)
	}

	// Renew the window. A concurrent sweep may delete the row between the
	// lookup and this update; the update then touches zero rows, the caller
	// stays authenticated for this request and the next one fails cleanly.
	if err := s.tokenRepo.Touch(db, tokenString, s.now()); err != nil {
		return 0, apperrors.InternalError(err)
	}

	return token.UserID, nil
}

func (s *tokenService) DeleteToken(db *gorm.DB, tokenString string) error {
	if err := s.tokenRepo.DeleteByToken(db, tokenString); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *tokenService) ClearAll(db *gorm.DB, userID uint) error {
	if err := s.tokenRepo.DeleteByUserID(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *tokenService) ScheduleCleanup(ctx context.Context, db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("token cleanup worker stopped")
				return
			case <-ticker.C:
				s.Sweep(db)
			}
		}
	}()
}

func (s *tokenService) Sweep(db *gorm.DB) {
	cutoff := s.now().Add(-TokenExpiry)
	removed, err := s.tokenRepo.DeleteLastUsedBefore(db, cutoff)
	if err != nil {
		logger.Error("token cleanup sweep failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Info("token cleanup sweep removed expired tokens", "count", removed)
	}
}
