package services

import (
	"context"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userhub_backend/internal/email"
	"userhub_backend/internal/logger"
	"userhub_backend/internal/models"
	"userhub_backend/internal/repositories"
	"userhub_backend/internal/services/dto"
	"userhub_backend/internal/validation"
	"userhub_backend/pkg/apperrors"
)

const (
	activationTokenLength = 16
	resetTokenLength      = 16

	// MaxImageBytes is the inclusive profile image size limit (2 MiB).
	MaxImageBytes = 2 * 1024 * 1024
)

var allowedImageTypes = []string{"image/png", "image/jpeg"}

// UserService orchestrates registration, activation, listing, update,
// deletion and the password reset flow. Collaborator failures are mapped to
// AppError kinds here; handlers only ever see those.
type UserService interface {
	Save(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) error
	Activate(db *gorm.DB, token string) error
	GetUsers(db *gorm.DB, page, size int, authenticatedID uint) (*dto.UserPage, error)
	GetUser(db *gorm.DB, id uint) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(db *gorm.DB, id uint) error
	RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error
	UpdatePassword(ctx context.Context, db *gorm.DB, resetToken, password string) error
}

type userService struct {
	userRepo      repositories.UserRepository
	tokenService  TokenService
	fileService   FileService
	emailProvider email.Provider
	bcryptCost    int
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	tokenService TokenService,
	fileService FileService,
	emailProvider email.Provider,
	bcryptCost int,
) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		userRepo:      userRepo,
		tokenService:  tokenService,
		fileService:   fileService,
		emailProvider: emailProvider,
		bcryptCost:    bcryptCost,
	}
}

// Save registers a new, inactive user. The insert and the activation mail
// are one unit: when the mail cannot be sent the transaction rolls back and
// no account exists afterwards.
func (s *userService) Save(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) error {
	fieldErrs, err := validation.Evaluate(ctx,
		validation.Field("username",
			validation.Required(req.Username, "Username cannot be null"),
			validation.LengthBetween(req.Username, 4, 32, "Must have min 4 and max 32 characters"),
		),
		validation.Field("email",
			validation.Required(req.Email, "E-mail cannot be null"),
			validation.Email(req.Email, "E-mail is not valid"),
			validation.Unique(req.Email, s.emailTaken(db), "E-mail in use"),
		),
		validation.Field("password",
			validation.Required(req.Password, "Password cannot be null"),
			validation.MinLength(req.Password, 6, "Password must be at least 6 characters"),
		),
	)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if fieldErrs.Len() > 0 {
		return apperrors.ValidationError(fieldErrs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user := &models.User{
		Username:        req.Username,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Inactive:        true,
		ActivationToken: randomToken(activationTokenLength),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.emailProvider.SendAccountActivation(user.Email, user.ActivationToken); err != nil {
			// Returning the error aborts the transaction: no unreachable
			// inactive accounts survive a failed notification.
			return apperrors.EmailFailure(err)
		}
		return nil
	})
	return err
}

// Activate flips a user to active by their one-time activation token.
func (s *userService) Activate(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByActivationToken(db, token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.InvalidToken("This account is either active or the token is invalid")
		}
		return apperrors.InternalError(err)
	}

	user.Inactive = false
	user.ActivationToken = ""
	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// GetUsers returns one page of active users, leaving out the requesting
// user when the request was authenticated.
func (s *userService) GetUsers(db *gorm.DB, page, size int, authenticatedID uint) (*dto.UserPage, error) {
	users, count, err := s.userRepo.FindActivePage(db, page, size, authenticatedID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	content := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		content = append(content, toUserResponse(&users[i]))
	}

	totalPages := int(count) / size
	if int(count)%size != 0 {
		totalPages++
	}

	return &dto.UserPage{
		Content:    content,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

func (s *userService) GetUser(db *gorm.DB, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindActiveByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateUser changes the username and optionally replaces the profile
// image. The previous image file is removed only after the new one is
// safely stored.
func (s *userService) UpdateUser(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	imageBytes := decodeImage(req.Image)

	fields := []validation.FieldRules{
		validation.Field("username",
			validation.Required(req.Username, "Username cannot be null"),
			validation.LengthBetween(req.Username, 4, 32, "Must have min 4 and max 32 characters"),
		),
	}
	if req.Image != "" {
		fields = append(fields, validation.Field("image",
			validation.MaxBytes(imageBytes, MaxImageBytes, "Your profile image cannot be bigger than 2MB"),
			validation.ContentType(imageBytes, allowedImageTypes, "Only JPEG or PNG files allowed"),
		))
	}

	fieldErrs, err := validation.Evaluate(ctx, fields...)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if fieldErrs.Len() > 0 {
		return nil, apperrors.ValidationError(fieldErrs)
	}

	user.Username = req.Username

	if req.Image != "" {
		filename, err := s.fileService.SaveProfileImage(ctx, imageBytes)
		if err != nil {
			return nil, err
		}
		previous := user.Image
		user.Image = filename
		if previous != "" {
			if err := s.fileService.DeleteProfileImage(ctx, previous); err != nil {
				// The new image is already in place; losing the cleanup of
				// the old file must not fail the request.
				logger.Warn("failed to delete previous profile image", "filename", previous, "error", err)
			}
		}
	}

	if err := s.userRepo.Save(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// DeleteUser removes the account and every session belonging to it.
func (s *userService) DeleteUser(db *gorm.DB, id uint) error {
	if err := s.userRepo.Delete(db, id); err != nil {
		return apperrors.InternalError(err)
	}
	return s.tokenService.ClearAll(db, id)
}

// RequestPasswordReset stores a reset token for the address and mails it.
// The token deliberately survives a failed send (unlike registration): the
// user can simply request another mail.
func (s *userService) RequestPasswordReset(ctx context.Context, db *gorm.DB, address string) error {
	fieldErrs, err := validation.Evaluate(ctx,
		validation.Field("email",
			validation.Required(address, "E-mail cannot be null"),
			validation.Email(address, "E-mail is not valid"),
		),
	)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if fieldErrs.Len() > 0 {
		return apperrors.ValidationError(fieldErrs)
	}

	user, err := s.userRepo.FindByEmail(db, address)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NotFound("E-mail is not found")
		}
		return apperrors.InternalError(err)
	}

	user.PasswordResetToken = randomToken(resetTokenLength)
	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.emailProvider.SendPasswordReset(user.Email, user.PasswordResetToken); err != nil {
		return apperrors.EmailFailure(err)
	}
	return nil
}

// UpdatePassword finishes the reset flow. A missing token record is a 403,
// not a 404: "wrong token" and "no open reset flow" must be
// indistinguishable. Success implicitly activates the account and drops
// every existing session.
func (s *userService) UpdatePassword(ctx context.Context, db *gorm.DB, resetToken, password string) error {
	if resetToken == "" {
		return apperrors.Forbidden("You are not authorized to update your password. Please follow the password reset steps again")
	}

	user, err := s.userRepo.FindByPasswordResetToken(db, resetToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.Forbidden("You are not authorized to update your password. Please follow the password reset steps again")
		}
		return apperrors.InternalError(err)
	}

	fieldErrs, err := validation.Evaluate(ctx,
		validation.Field("password",
			validation.Required(password, "Password cannot be null"),
			validation.MinLength(password, 6, "Password must be at least 6 characters"),
		),
	)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if fieldErrs.Len() > 0 {
		return apperrors.ValidationError(fieldErrs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = string(hash)
	user.PasswordResetToken = ""
	user.ActivationToken = ""
	user.Inactive = false
	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	// Credential change invalidates every existing session.
	return s.tokenService.ClearAll(db, user.ID)
}

// emailTaken adapts the user repository into the uniqueness lookup the
// validation pipeline expects.
func (s *userService) emailTaken(db *gorm.DB) func(ctx context.Context, value string) (bool, error) {
	return func(ctx context.Context, value string) (bool, error) {
		_, err := s.userRepo.FindByEmail(db, value)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
}

func toUserResponse(user *models.User) dto.UserResponse {
	var image *string
	if user.Image != "" {
		image = &user.Image
	}
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Image:    image,
	}
}

// decodeImage turns the base64 body field into raw bytes. Undecodable input
// is passed through as-is so the content-type sniff rejects it with the
// proper message instead of a bare 400.
func decodeImage(encoded string) []byte {
	if encoded == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return []byte(encoded)
	}
	return data
}
