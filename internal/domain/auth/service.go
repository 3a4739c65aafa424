// Package auth implements the optional operator login: a single shared
// password verified against a configured bcrypt hash, exchanged for a JWT.
package auth

import (
	"errors"
	"time"

	"github.com/mercurylabs/mercury/pkg/auth"
)

// ErrInvalidCredentials covers both a wrong password and a malformed stored
// hash, so responses never distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrDisabled means login was attempted while auth is not configured.
var ErrDisabled = errors.New("authentication is not enabled")

// OperatorSubject is the JWT subject for the single operator account.
const OperatorSubject = "operator"

// Service exchanges the operator password for a bearer token.
type Service struct {
	secret       []byte
	passwordHash string
	tokenTTL     time.Duration
}

// NewService wires a Service. Auth stays disabled unless both the signing
// secret and the password hash are present.
func NewService(secret, passwordHash string, tokenTTL time.Duration) *Service {
	return &Service{
		secret:       []byte(secret),
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

// Enabled reports whether login can succeed at all.
func (s *Service) Enabled() bool {
	return len(s.secret) > 0 && s.passwordHash != ""
}

// Login verifies the operator password and returns a signed token.
func (s *Service) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	if !auth.VerifyPassword(s.passwordHash, password) {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(s.secret, OperatorSubject, s.tokenTTL)
}
