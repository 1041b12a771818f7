package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/projecthub/pkg/helpers"
)

func TestSignIn_IssuesTokenForAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.register(t, "a@x.com")

	res, err := env.auth.SignIn(ctx, " A@X.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := env.jwt.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Empty(t, claims.Purpose)
	assert.NotContains(t, res.Token, "$2a$")
}

func TestSignIn_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "a@x.com")

	_, errUnknown := env.auth.SignIn(ctx, "nobody@x.com", "s3cret-pass")
	_, errWrong := env.auth.SignIn(ctx, "a@x.com", "wrong-pass")

	require.ErrorIs(t, errUnknown, ErrAuthenticationFailed)
	require.ErrorIs(t, errWrong, ErrAuthenticationFailed)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestConfirm_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.register(t, "a@x.com")
	code, _, err := env.jwt.Issue(u.ID, helpers.PurposeConfirm, time.Hour)
	require.NoError(t, err)

	require.NoError(t, env.auth.Confirm(ctx, code))
	require.NoError(t, env.auth.Confirm(ctx, code))

	got, err := env.users.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
}

func TestConfirm_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.register(t, "a@x.com")

	signIn, err := env.auth.SignIn(ctx, "a@x.com", "s3cret-pass")
	require.NoError(t, err)

	past := env.jwt.WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	expired, _, err := past.Issue(u.ID, helpers.PurposeConfirm, time.Hour)
	require.NoError(t, err)

	other, err := helpers.NewJWTManager("other-secret", "projecthub-test")
	require.NoError(t, err)
	forged, _, err := other.Issue(u.ID, helpers.PurposeConfirm, time.Hour)
	require.NoError(t, err)

	valid, _, err := env.jwt.Issue(u.ID, helpers.PurposeConfirm, time.Hour)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	for name, code := range map[string]string{
		"sign-in token": signIn.Token,
		"expired":       expired,
		"wrong key":     forged,
		"tampered":      tampered,
		"garbage":       "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, env.auth.Confirm(ctx, code), ErrInvalidOrExpiredConfirmation)
		})
	}

	got, err := env.users.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)
}

func TestConfirm_DeletedAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.register(t, "a@x.com")
	code, _, err := env.jwt.Issue(u.ID, helpers.PurposeConfirm, time.Hour)
	require.NoError(t, err)
	require.NoError(t, env.users.Delete(ctx, u.ID))

	assert.ErrorIs(t, env.auth.Confirm(ctx, code), ErrInvalidOrExpiredConfirmation)
}
