package services

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userhub_backend/internal/repositories"
	"userhub_backend/internal/services/dto"
	"userhub_backend/pkg/apperrors"
)

// AuthService verifies credentials and drives the session lifecycle around
// them. All credential failures collapse to the same response so callers
// cannot tell an unknown address from a wrong password.
type AuthService interface {
	Authenticate(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// Logout deletes the presented token; it never fails on an unknown or
	// missing token.
	Logout(db *gorm.DB, tokenString string) error
}

type authService struct {
	userRepo     repositories.UserRepository
	tokenService TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenService TokenService) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

func (s *authService) Authenticate(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.AuthenticationFailure()
	}

	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.AuthenticationFailure()
		}
		return nil, apperrors.InternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.AuthenticationFailure()
	}

	// Only after the credentials check: a wrong password on an inactive
	// account must not reveal that the account exists but is inactive.
	if user.Inactive {
		return nil, apperrors.InactiveAccount()
	}

	token, err := s.tokenService.CreateToken(db, user)
	if err != nil {
		return nil, err
	}

	var image *string
	if user.Image != "" {
		image = &user.Image
	}

	return &dto.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
		Image:    image,
	}, nil
}

func (s *authService) Logout(db *gorm.DB, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	return s.tokenService.DeleteToken(db, tokenString)
}
