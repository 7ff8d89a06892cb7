package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockDenylist struct {
	mock.Mock
}

func (m *MockDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "grievance_system", nil)

	token, issued, err := tm.Issue(42, "citizen")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID, "every token carries a jti")

	claims, err := tm.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID, "token must decode to the user id")
	assert.Equal(t, "citizen", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "grievance_system", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_UniqueJTI(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "grievance_system", nil)
	_, a, err := tm.Issue(1, "citizen")
	require.NoError(t, err)
	_, b, err := tm.Issue(1, "citizen")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenManager_RejectsInvalidTokens(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "grievance_system", nil)
	valid, _, err := tm.Issue(7, "admin")
	require.NoError(t, err)

	expiredManager := NewTokenManager(testSecret, time.Hour, "grievance_system", nil)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredManager.Issue(7, "admin")
	require.NoError(t, err)

	otherSecret, _, err := NewTokenManager("other-secret", time.Hour, "grievance_system", nil).Issue(7, "admin")
	require.NoError(t, err)

	otherIssuer, _, err := NewTokenManager(testSecret, time.Hour, "someone-else", nil).Issue(7, "admin")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 7,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    "grievance_system",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"alg none", noneAlg},
		{"tampered", valid[:len(valid)-2] + flip(valid[len(valid)-2:])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func flip(s string) string {
	if strings.HasPrefix(s, "A") {
		return "B" + s[1:]
	}
	return "A" + s[1:]
}

func TestTokenManager_RevokedTokenIsRejected(t *testing.T) {
	denylist := new(MockDenylist)
	tm := NewTokenManager(testSecret, time.Hour, "grievance_system", denylist)

	token, claims, err := tm.Issue(3, "citizen")
	require.NoError(t, err)

	denylist.On("Add", mock.Anything, claims.ID, claims.ExpiresAt.Time).Return(nil).Once()
	require.NoError(t, tm.Revoke(context.Background(), claims))

	denylist.On("Contains", mock.Anything, claims.ID).Return(true, nil).Once()
	_, err = tm.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	denylist.AssertExpectations(t)
}

func TestTokenManager_DenylistFailureIsNotAnAuthError(t *testing.T) {
	denylist := new(MockDenylist)
	tm := NewTokenManager(testSecret, time.Hour, "grievance_system", denylist)
	token, claims, err := tm.Issue(3, "citizen")
	require.NoError(t, err)

	denylist.On("Contains", mock.Anything, claims.ID).Return(false, assert.AnError)

	_, err = tm.Verify(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTokenManager_RevokeWithoutDenylist(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "grievance_system", nil)
	_, claims, err := tm.Issue(3, "citizen")
	require.NoError(t, err)

	assert.Error(t, tm.Revoke(context.Background(), claims))
}
