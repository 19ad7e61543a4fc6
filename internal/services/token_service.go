package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for tokens that fail parsing, signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and validates HS256 bearer tokens for write access.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// IssueToken signs a token for subject that expires after the service TTL.
func (s *TokenService) IssueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the claims of a token signed with the service secret.
func (s *TokenService) ValidateToken(tokenString string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (s *TokenService) signingKey(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return s.secret, nil
}
