package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hoster-project/portal-sync/internal/core/domain"
	apperrors "github.com/hoster-project/portal-sync/internal/core/errors"
)

// Claims defines the structured data carried by a session token.
type Claims struct {
	UserID        uuid.UUID `json:"user_id"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secretKey []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secretKey: []byte(secret)}
}

// GenerateToken creates a new session token for the given user.
func (tm *TokenManager) GenerateToken(user *domain.User, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = time.Hour
	}
	claims := &Claims{
		UserID:        user.ID,
		Role:          string(user.Role),
		EmailVerified: user.Verified(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Subject:   user.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ValidateToken parses and validates the token string.
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// User materializes the session identity the claims describe.
func (c *Claims) User() *domain.User {
	return &domain.User{
		ID:            c.UserID,
		Role:          domain.Role(c.Role),
		EmailVerified: c.EmailVerified,
	}
}
