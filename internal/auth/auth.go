package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// ErrBadCredentials is returned for unknown users or wrong passwords.
var ErrBadCredentials = errors.New("invalid username or password")

const tokenLifetime = 12 * time.Hour

// Service verifies admin credentials and mints session tokens.
type Service struct {
	adminUser string
	passHash  string // SHA-256 hex
	secret    []byte
	clock     clockwork.Clock
}

// NewService creates an auth service for the single configured admin
// account. Passwords are stored and compared as SHA-256 hex digests.
func NewService(adminUser, passHash, jwtSecret string, clock clockwork.Clock) *Service {
	return &Service{
		adminUser: adminUser,
		passHash:  passHash,
		secret:    []byte(jwtSecret),
		clock:     clock,
	}
}

// Login verifies credentials and returns a signed JWT on success.
func (s *Service) Login(username, password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash := hex.EncodeToString(sum[:])

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(hash), []byte(s.passHash)) == 1
	if !userOK || !passOK {
		return "", ErrBadCredentials
	}

	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token and returns the subject (username).
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
