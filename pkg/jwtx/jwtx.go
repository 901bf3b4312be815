// Package jwtx signs and verifies the EdDSA tokens carried in session
// cookies. A token is only half a session: its sid claim must also resolve
// to a live server-side session row, which is what makes logout effective.
package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken reports a token that failed parsing, signature
// verification, or expiry validation.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// SessionClaims is the claim set embedded in a session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims

	Roles     []string `json:"roles"`
	SessionID string   `json:"sid"`
}

// Signer mints session tokens with an Ed25519 private key.
type Signer struct {
	priv   ed25519.PrivateKey
	issuer string
}

func NewSigner(priv ed25519.PrivateKey, issuer string) *Signer {
	return &Signer{priv: priv, issuer: issuer}
}

// Sign issues a token for name/roles bound to the server-side session id.
func (s *Signer) Sign(name string, roles []string, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles:     roles,
		SessionID: sessionID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.priv)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return token, nil
}

// Verifier checks session tokens against the matching public key.
type Verifier struct {
	pub    ed25519.PublicKey
	issuer string
}

func NewVerifier(pub ed25519.PublicKey, issuer string) *Verifier {
	return &Verifier{pub: pub, issuer: issuer}
}

// Verify parses and validates a token, returning its claims.
func (v *Verifier) Verify(raw string) (SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return v.pub, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" {
		return SessionClaims{}, fmt.Errorf("%w: missing sid", ErrInvalidToken)
	}
	return claims, nil
}
