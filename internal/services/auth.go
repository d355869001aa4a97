package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"qrcheckin/internal/domain"
)

type authService struct {
	username     string
	salt         string
	passwordHash string
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
}

// NewAuthService returns an AuthService for the single configured administrator. The password is
// hashed here and never kept in clear. An empty password disables admin login.
func NewAuthService(username, password string, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) (domain.AuthService, error) {
	s := &authService{
		username:    strings.TrimSpace(username),
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
	if password == "" {
		return s, nil
	}
	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	s.salt = salt
	s.passwordHash = hash
	return s, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if s.passwordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.username)) == 1
	passErr := s.hasher.Compare(s.passwordHash, s.salt, password)
	if !userOK || passErr != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(s.username, []string{domain.RoleAdmin}, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
