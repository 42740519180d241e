package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, time.Minute)
	id := uuid.New()

	raw, err := issuer.Issue(id, PurposeAccess)
	require.NoError(t, err)

	got, err := issuer.Verify(raw, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenIssuer_RejectsWrongPurpose(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, time.Hour)
	id := uuid.New()

	reset, err := issuer.Issue(id, PurposeReset)
	require.NoError(t, err)
	_, err = issuer.Verify(reset, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := issuer.Issue(id, PurposeAccess)
	require.NoError(t, err)
	_, err = issuer.Verify(access, PurposeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := issuer.Issue(uuid.New(), PurposeAccess)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(raw, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	raw, err := NewTokenIssuer("one", time.Hour, time.Hour).Issue(uuid.New(), PurposeAccess)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour, time.Hour).Verify(raw, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour, time.Hour).Verify("not-a-token", PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
