package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers malformed, expired, wrongly signed and revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims are the custom JWT claims. The JTI is carried by the embedded
// jwt.RegisteredClaims.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens and consults the
// denylist for logged-out tokens.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	denylist Denylist
	now      func() time.Time
}

// NewTokenManager builds a TokenManager. denylist may be nil, in which case
// revocation is not supported.
func NewTokenManager(secret string, ttl time.Duration, issuer string, denylist Denylist) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		denylist: denylist,
		now:      time.Now,
	}
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(userID uint, role string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses tokenString and checks signature, expiry, issuer, JTI and
// the denylist. Any failure is reported as ErrInvalidToken, except a
// denylist lookup failure which is returned as is.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// only HMAC signatures are accepted
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenNotValidYet),
			errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidToken
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}
	if !token.Valid || claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	if m.denylist != nil {
		revoked, err := m.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token denylist: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// Revoke denylists the token described by claims until it expires.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.denylist == nil {
		return errors.New("token revocation is not configured")
	}
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return m.denylist.Add(ctx, claims.ID, claims.ExpiresAt.Time)
}
