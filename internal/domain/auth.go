package domain

import (
	"context"
	"time"
)

// RoleAdmin is the only role issued in tokens; check-in staff and attendees are anonymous.
const RoleAdmin = "admin"

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated administrator.
type TokenIssuer interface {
	Issue(subject string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AuthService authenticates the event administrator.
type AuthService interface {
	// Login returns a bearer token, or ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, error)
}
