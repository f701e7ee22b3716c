// Package auth issues and validates the HS256 bearer tokens that guard the
// administrative API routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is written to and required in every token.
const Issuer = "chandas"

// ErrNoSecret is returned when the service has no signing secret.
var ErrNoSecret = errors.New("auth: signing secret is not configured")

// AuthService provides JWT token generation and validation
type AuthService struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService with the given secret key and token TTL
func NewAuthService(secretKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Enabled reports whether a secret is configured
func (s *AuthService) Enabled() bool {
	return len(s.secretKey) > 0
}

// GenerateToken signs a token for subject. A non-positive TTL issues a
// token without expiry.
func (s *AuthService) GenerateToken(subject string) (string, error) {
	if !s.Enabled() {
		return "", ErrNoSecret
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*jwt.RegisteredClaims, error) {
	if !s.Enabled() {
		return nil, ErrNoSecret
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify exact signing method to prevent algorithm confusion attacks
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
