package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "walleto-test"

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	h, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
	require.NoError(t, err)
	return h
}

func TestNewHS256_EmptySecret(t *testing.T) {
	_, err := NewHS256(nil, testIssuer)
	require.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	h := newTestHS256(t)

	claims := NewAccessClaims("user-1", "Alice", "a@x.com", DefaultAccessTokenTTL, testIssuer, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "a@x.com", got.Email)
	require.Equal(t, testIssuer, got.Issuer)
	require.NoError(t, got.ValidateExpiry())
}

func TestVerify_Expired(t *testing.T) {
	h := newTestHS256(t)

	issued := time.Now().UTC().Add(-48 * time.Hour)
	claims := NewAccessClaims("user-1", "", "", time.Hour, testIssuer, issued)
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	h := newTestHS256(t)
	other, err := NewHS256([]byte("a completely different secret!!!"), testIssuer)
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "", "", time.Hour, testIssuer, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerify_WrongIssuer(t *testing.T) {
	h := newTestHS256(t)

	claims := NewAccessClaims("user-1", "", "", time.Hour, "someone-else", time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerify_Malformed(t *testing.T) {
	h := newTestHS256(t)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := h.Verify(tok)
		require.Error(t, err, "token %q should not verify", tok)
	}
}

func TestNewAccessClaims_SevenDayExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	claims := NewAccessClaims("user-1", "", "", DefaultAccessTokenTTL, testIssuer, now)

	require.Equal(t, now.Add(7*24*time.Hour), claims.ExpiresAt.Time)
	require.NotEmpty(t, claims.ID, "jti should be populated")
}
