package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotrack-backend/internal/apperr"
	"ecotrack-backend/internal/auth"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newService(secret string) (*auth.TokenService, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return auth.NewTokenService(secret, time.Hour).WithClock(clock.Now), clock
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc, _ := newService("testsecret")

	for _, creds := range []auth.Credentials{
		{Username: "alice", Password: "x"},
		{Username: "bob", Password: "anything at all"},
		{Username: "ünïcode", Password: "🔑"},
	} {
		token, err := svc.Issue(creds)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, creds.Username, claims.Username)
		assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	svc, clock := newService("testsecret")

	token, err := svc.Issue(auth.Credentials{Username: "alice", Password: "x"})
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.Advance(time.Minute + time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestIssue_RequiresBothFields(t *testing.T) {
	svc, _ := newService("testsecret")

	for _, creds := range []auth.Credentials{
		{},
		{Username: "alice"},
		{Password: "x"},
	} {
		_, err := svc.Issue(creds)
		assert.ErrorIs(t, err, apperr.ErrInvalidRequest, "creds=%+v", creds)
	}
}

func TestVerify_Rejects(t *testing.T) {
	svc, _ := newService("testsecret")
	other, _ := newService("othersecret")

	foreign, err := other.Issue(auth.Credentials{Username: "alice", Password: "x"})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
	}).SignedString([]byte("testsecret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not-a-jwt"},
		{"foreign secret", foreign},
		{"none algorithm", noneAlg},
		{"missing expiry", noExp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc := auth.NewTokenService("s", 0)
	assert.Equal(t, auth.DefaultTTL, svc.TTL())
}
