package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

const (
	pairingSecretKey = "pairing_secret"
	controllerRole   = "controller"
	qrSize           = 256
)

// ErrInvalidToken is returned for pairing tokens that fail verification
var ErrInvalidToken = errors.New("invalid pairing token")

// Pairing issues signed tokens that let a phone attach as a controller
type Pairing struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewPairing loads the signing secret from db, creating it on first use. db may be nil.
func NewPairing(db *DB, ttl time.Duration, log zerolog.Logger) *Pairing {
	return &Pairing{
		secret: loadOrCreateSecret(db, log),
		ttl:    ttl,
		now:    time.Now,
	}
}

// loadOrCreateSecret loads the signing secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB, log zerolog.Logger) []byte {
	if db != nil {
		if h := db.GetSetting(pairingSecretKey); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate pairing secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting(pairingSecretKey, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist pairing secret")
		}
	}
	return secret
}

// IssueToken returns a controller token valid for the configured TTL
func (p *Pairing) IssueToken() (string, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"role": controllerRole,
		"jti":  GenerateID(8),
		"iat":  now.Unix(),
		"exp":  now.Add(p.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// ValidateToken checks the signature, expiry and role of a controller token
func (p *Pairing) ValidateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != controllerRole {
		return ErrInvalidToken
	}
	return nil
}

// QRCode renders a PNG of url for the phone to scan
func (p *Pairing) QRCode(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}
