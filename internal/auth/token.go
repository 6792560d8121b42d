package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"ecotrack-backend/internal/apperr"
)

// DefaultTTL is how long an access token stays valid when no TTL is configured.
const DefaultTTL = time.Hour

// Claims describes the JWT payload. Username is carried as-is and is not
// checked against any user store.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Credentials is the login input. Any non-empty pair is accepted.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenService issues and verifies stateless HS256 access tokens.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	validate *validator.Validate
}

// NewTokenService builds a service signing with secret. A non-positive ttl
// falls back to DefaultTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		validate: validator.New(),
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for username. The password is required but never checked.
func (s *TokenService) Issue(creds Credentials) (string, error) {
	const op = "auth.Issue"

	if err := s.validate.Struct(creds); err != nil {
		return "", fmt.Errorf("%s: %w: %s", op, apperr.ErrInvalidRequest, describe(err))
	}

	issuedAt := s.now()
	claims := &Claims{
		Username: creds.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Verify parses token and checks its signature and expiry.
func (s *TokenService) Verify(token string) (*Claims, error) {
	const op = "auth.Verify"

	if token == "" {
		return nil, fmt.Errorf("%s: %w: missing token", op, apperr.ErrUnauthenticated)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%s: %w: invalid token claims", op, apperr.ErrUnauthenticated)
	}
	return claims, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("field %s is required", verrs[0].Field())
}
