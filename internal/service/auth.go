package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer  = "ticketapi"
	adminSubject = "admin"
)

// AuthService issues and verifies administrator session tokens.
type AuthService interface {
	Login(password string) (token string, expiresAt time.Time, err error)
	Verify(token string) (*jwt.RegisteredClaims, error)
}

type authService struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService returns a service that rejects every login when password
// or secret is empty.
func NewAuthService(password, secret string, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &authService{password: []byte(password), secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *authService) Login(password string) (string, time.Time, error) {
	if len(s.password) == 0 || len(s.secret) == 0 {
		return "", time.Time{}, ErrAuthDisabled
	}
	if subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   adminSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *authService) Verify(token string) (*jwt.RegisteredClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrAuthDisabled
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}
