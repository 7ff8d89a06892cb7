package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/repositories"
	"github.com/grievance_system/pkg/utils"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Address  *string
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService defines account and session operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	CreateUser(ctx context.Context, in RegisterInput, role string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	StaffLogin(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type authService struct {
	users  repositories.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates an AuthService.
func NewAuthService(users repositories.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a citizen account.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.CreateUser(ctx, in, models.RoleCitizen)
}

// CreateUser creates an account with the given role.
func (s *authService) CreateUser(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	email := utils.NormalizeEmail(in.Email)

	if in.Name == "" || email == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrMissingRegistrationFields
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if !utils.ValidateEmailFormat(email) {
		return nil, ErrInvalidEmail
	}
	if err := utils.ValidatePhoneNumber(in.Phone); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if len(in.Name) > 255 || len(email) > 255 {
		return nil, fmt.Errorf("%w: name and email are limited to 255 characters", ErrFieldTooLong)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var address *string
	if in.Address != nil {
		if trimmed := strings.TrimSpace(*in.Address); trimmed != "" {
			address = &trimmed
		}
	}

	user := &models.User{
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Address:      address,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates any user.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return s.login(ctx, email, password, nil)
}

// StaffLogin authenticates officers and admins only. Other roles get the
// same error as a wrong password.
func (s *authService) StaffLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	return s.login(ctx, email, password, []string{models.RoleAdmin, models.RoleOfficer})
}

func (s *authService) login(ctx context.Context, email, password string, roles []string) (*AuthResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.verifyDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if roles != nil && !utils.ContainsString(roles, user.Role) {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// verifyDummy spends the same bcrypt work as a real comparison so unknown
// emails answer as slowly as wrong passwords.
func (s *authService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("grievance-unknown-account")
	})
	s.hasher.Verify(password, s.dummyHash)
}

// Logout revokes the token described by claims.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

// ListUsers returns every account.
func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
