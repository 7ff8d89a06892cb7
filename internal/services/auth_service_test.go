package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/repositories"
)

func newAuthFixture() (*MockUserRepository, *MockDenylist, *auth.PasswordHasher, *auth.TokenManager, AuthService) {
	users := new(MockUserRepository)
	denylist := new(MockDenylist)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", time.Hour, "grievance_system", denylist)
	return users, denylist, hasher, tokens, NewAuthService(users, hasher, tokens)
}

func TestAuthService_Register(t *testing.T) {
	// Arrange
	users, _, hasher, _, svc := newAuthFixture()
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	// Act
	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     " Asha ",
		Email:    "Asha@Example.com",
		Phone:    "5551234567",
		Password: "plain-password",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email, "emails are stored normalized")
	assert.Equal(t, models.RoleCitizen, user.Role)
	assert.NotEqual(t, "plain-password", user.PasswordHash, "credential must never be stored in plaintext")
	assert.True(t, hasher.Verify("plain-password", user.PasswordHash))
	users.AssertExpectations(t)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Phone: "5551234567", Password: "p"}, ErrMissingRegistrationFields},
		{"missing password", RegisterInput{Name: "A", Email: "a@example.com", Phone: "5551234567"}, ErrMissingRegistrationFields},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Phone: "5551234567", Password: "p"}, ErrInvalidEmail},
		{"bad phone", RegisterInput{Name: "A", Email: "a@example.com", Phone: "abc", Password: "p"}, ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, _, _, svc := newAuthFixture()

			_, err := svc.Register(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	users, _, _, _, svc := newAuthFixture()
	users.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrEmailExists)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Phone: "5551234567", Password: "p"})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.False(t, IsValidationError(err))
}

func TestAuthService_CreateUserRejectsUnknownRole(t *testing.T) {
	_, _, _, _, svc := newAuthFixture()

	_, err := svc.CreateUser(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Phone: "5551234567", Password: "p"}, "mayor")

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func storedUser(t *testing.T, hasher *auth.PasswordHasher, id uint, role string) *models.User {
	t.Helper()
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)
	return &models.User{ID: id, Name: "U", Email: "user@example.com", Phone: "5551234567", PasswordHash: hash, Role: role}
}

func TestAuthService_Login(t *testing.T) {
	users, _, hasher, _, svc := newAuthFixture()
	users.On("FindByEmail", mock.Anything, "user@example.com").Return(storedUser(t, hasher, 17, models.RoleCitizen), nil)

	result, err := svc.Login(context.Background(), " USER@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, uint(17), result.User.ID)

	tm := auth.NewTokenManager("test-secret", time.Hour, "grievance_system", nil)
	claims, err := tm.Verify(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(17), claims.UserID, "token must decode to the user id")
}

func TestAuthService_LoginFailuresShareOneError(t *testing.T) {
	users, _, hasher, _, svc := newAuthFixture()
	users.On("FindByEmail", mock.Anything, "user@example.com").Return(storedUser(t, hasher, 17, models.RoleCitizen), nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

	_, wrongPassword := svc.Login(context.Background(), "user@example.com", "wrong-password")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "correct-password")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_UnknownEmailStillComparesAHash(t *testing.T) {
	users, _, _, _, svc := newAuthFixture()
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	impl := svc.(*authService)
	require.NotEmpty(t, impl.dummyHash, "unknown emails go through a bcrypt comparison")
	cost, err := bcrypt.Cost([]byte(impl.dummyHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost, "dummy hash uses the configured cost")
}

func TestAuthService_LoginMissingFields(t *testing.T) {
	_, _, _, _, svc := newAuthFixture()

	_, err := svc.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_StaffLogin(t *testing.T) {
	users, _, hasher, _, svc := newAuthFixture()
	users.On("FindByEmail", mock.Anything, "user@example.com").Return(storedUser(t, hasher, 1, models.RoleCitizen), nil).Once()

	_, err := svc.StaffLogin(context.Background(), "user@example.com", "correct-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "citizens cannot use the staff login")

	users.On("FindByEmail", mock.Anything, "user@example.com").Return(storedUser(t, hasher, 2, models.RoleOfficer), nil).Once()
	result, err := svc.StaffLogin(context.Background(), "user@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOfficer, result.User.Role)
}

func TestAuthService_Logout(t *testing.T) {
	_, denylist, _, tokens, svc := newAuthFixture()
	_, claims, err := tokens.Issue(5, models.RoleCitizen)
	require.NoError(t, err)
	denylist.On("Add", mock.Anything, claims.ID, claims.ExpiresAt.Time).Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), claims))
	denylist.AssertExpectations(t)
}
