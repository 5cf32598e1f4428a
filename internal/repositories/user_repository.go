package repositories

import (
	"errors"

	"gorm.io/gorm"

	"userhub_backend/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines persistence operations for users. Every method
// takes the *gorm.DB to run against so callers can pass either the pool or
// an open transaction.
type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindActiveByID(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByActivationToken(db *gorm.DB, token string) (*models.User, error)
	FindByPasswordResetToken(db *gorm.DB, token string) (*models.User, error)
	FindActivePage(db *gorm.DB, page, size int, excludeID uint) ([]models.User, int64, error)
	Save(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, id uint) error
}

type userRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.Where("id = ? AND inactive = ?", id, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByActivationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where("activation_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPasswordResetToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where("password_reset_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindActivePage returns one page of active users, excluding excludeID
// (0 excludes nobody since ids start at 1), together with the total count
// of rows matching the filter.
func (r *userRepository) FindActivePage(db *gorm.DB, page, size int, excludeID uint) ([]models.User, int64, error) {
	var users []models.User
	var count int64

	query := db.Model(&models.User{}).
		Where("inactive = ?", false).
		Where("id <> ?", excludeID).
		Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("id ASC").
		Limit(size).
		Offset(page * size).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *userRepository) Save(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *userRepository) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&models.User{}, id).Error
}
