package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("secret", "projecthub")
	require.NoError(t, err)
	return m
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", "projecthub")
	assert.Error(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	m := newTestJWT(t)
	for _, ttl := range []time.Duration{time.Second, time.Hour, 24 * time.Hour} {
		for _, subject := range []string{"u1", "0b8f2c44-6f0c-4a4e-9b7a-6c1f5d8e2a10"} {
			tok, exp, err := m.Issue(subject, "", ttl)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(ttl), exp, 2*time.Second)

			claims, err := m.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, subject, claims.Subject)
			assert.Empty(t, claims.Purpose)
		}
	}
}

func TestJWT_Purpose(t *testing.T) {
	m := newTestJWT(t)
	tok, _, err := m.Issue("u1", PurposeConfirm, time.Hour)
	require.NoError(t, err)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, PurposeConfirm, claims.Purpose)
}

func TestJWT_Expired(t *testing.T) {
	m := newTestJWT(t)
	tok, _, err := m.Issue("u1", "", time.Minute)
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return time.Now().Add(2 * time.Minute) })
	_, err = later.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWT_Invalid(t *testing.T) {
	m := newTestJWT(t)
	other, err := NewJWTManager("other", "projecthub")
	require.NoError(t, err)
	foreign, _, err := other.Issue("u1", "", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewJWTManager("secret", "someone-else")
	require.NoError(t, err)
	misissued, _, err := wrongIssuer.Issue("u1", "", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "projecthub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong key":    foreign,
		"wrong issuer": misissued,
		"alg none":     none,
		"garbage":      "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWT_IssueRejectsBadInput(t *testing.T) {
	m := newTestJWT(t)
	_, _, err := m.Issue("", "", time.Hour)
	assert.Error(t, err)
	_, _, err = m.Issue("u1", "", 0)
	assert.Error(t, err)
}
