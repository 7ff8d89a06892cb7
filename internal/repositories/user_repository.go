package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/grievance_system/internal/models"
)

var (
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already registered")
	// ErrUserNotFound is returned when no user matches.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a UserRepository backed by gorm.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create inserts a user, rejecting duplicate emails.
func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(user).Error; err != nil {
		// a concurrent registration can still hit the unique index
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// FindByEmail returns the user with the given email.
func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID returns the user with the given id.
func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns every user ordered by id.
func (r *gormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// sqlite: "UNIQUE constraint failed", mysql: "Duplicate entry", postgres: "duplicate key value"
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
