package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairingTokenRoundTrip(t *testing.T) {
	p := NewPairing(nil, time.Minute, zerolog.Nop())
	tok, err := p.IssueToken()
	require.NoError(t, err)
	assert.NoError(t, p.ValidateToken(tok))
}

func TestPairingRejectsTamperedToken(t *testing.T) {
	p := NewPairing(nil, time.Minute, zerolog.Nop())
	tok, err := p.IssueToken()
	require.NoError(t, err)

	other := NewPairing(nil, time.Minute, zerolog.Nop())
	assert.True(t, errors.Is(other.ValidateToken(tok), ErrInvalidToken))
	assert.True(t, errors.Is(p.ValidateToken(tok+"x"), ErrInvalidToken))
	assert.True(t, errors.Is(p.ValidateToken("garbage"), ErrInvalidToken))
}

func TestPairingTokenExpires(t *testing.T) {
	p := NewPairing(nil, time.Minute, zerolog.Nop())
	start := time.Now()
	p.now = func() time.Time { return start }
	tok, err := p.IssueToken()
	require.NoError(t, err)

	p.now = func() time.Time { return start.Add(2 * time.Minute) }
	assert.True(t, errors.Is(p.ValidateToken(tok), ErrInvalidToken))
}

func TestPairingRequiresControllerRole(t *testing.T) {
	p := NewPairing(nil, time.Minute, zerolog.Nop())
	claims := jwt.MapClaims{
		"role": "viewer",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	require.NoError(t, err)
	assert.ErrorIs(t, p.ValidateToken(tok), ErrInvalidToken)
}

func TestPairingSecretPersists(t *testing.T) {
	db := openTestDB(t)
	first := NewPairing(db, time.Minute, zerolog.Nop())
	tok, err := first.IssueToken()
	require.NoError(t, err)

	second := NewPairing(db, time.Minute, zerolog.Nop())
	assert.Equal(t, first.secret, second.secret)
	assert.NoError(t, second.ValidateToken(tok))
}

func TestPairingQRCode(t *testing.T) {
	p := NewPairing(nil, time.Minute, zerolog.Nop())
	png, err := p.QRCode("http://localhost:8080/controller.html?token=abc")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
