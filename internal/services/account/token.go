package account

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/baseballgame-go/internal/dependencies/clock"
	"github.com/mcoot/baseballgame-go/internal/model"
)

// Tokens signs and verifies EdDSA JWTs whose subject is a user id
type Tokens struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	clock      clock.Clock
	ttl        time.Duration // 0 means tokens never expire
}

// NewTokens derives a key pair from seed, or generates one when seed is nil
func NewTokens(seed []byte, ttl time.Duration, clock clock.Clock) (*Tokens, error) {
	var private ed25519.PrivateKey
	if seed == nil {
		var err error
		_, private, err = ed25519.GenerateKey(nil)
		if err != nil {
			return nil, fmt.Errorf("generate ed25519 key pair: %w", err)
		}
	} else {
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("token seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		private = ed25519.NewKeyFromSeed(seed)
	}

	return &Tokens{
		privateKey: private,
		publicKey:  private.Public().(ed25519.PublicKey),
		clock:      clock,
		ttl:        ttl,
	}, nil
}

// Issue creates a signed token with sub = userID
func (t *Tokens) Issue(userID model.UserID) (string, error) {
	now := t.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:  string(userID),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(t.privateKey)
}

// Verify checks the signature and expiry and returns the subject
func (t *Tokens) Verify(tokenString string) (model.UserID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.publicKey, nil
	}, jwt.WithTimeFunc(t.clock.Now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", model.ErrInvalidToken
	}
	return model.UserID(claims.Subject), nil
}
