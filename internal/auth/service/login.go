package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/internal/auth/store"
	"github.com/couchloft/pgpauth/pkg/pgpx"
	"github.com/couchloft/pgpauth/pkg/slogx"
)

// ErrUnauthorized is the single error every login rejection collapses into.
// Callers must not expose anything beyond it; the sub-failure is logged but
// never crosses the authentication boundary.
var ErrUnauthorized = errors.New("name or password is incorrect")

// LoginService verifies an encrypted challenge response and produces a
// session grant. Verification is a pure read plus stateless decrypt, so
// concurrent attempts need no coordination.
type LoginService struct {
	Store  store.Store
	Keys   *KeyStore
	Window time.Duration
}

func (s *LoginService) window() time.Duration {
	if s.Window <= 0 {
		return DefaultChallengeWindow
	}
	return s.Window
}

// Verify runs the login pipeline for name against the submitted armored
// blob. Each step yields an internal reason on failure; the final mapping
// step converts every reason into ErrUnauthorized.
func (s *LoginService) Verify(ctx context.Context, name, password string) (domain.SessionGrant, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByName(ctx, name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return domain.SessionGrant{}, err
		}
		// Unknown user: burn the same decrypt work before rejecting so the
		// error and its timing match a wrong-key failure.
		s.Keys.DecryptDecoy(password)
		log.Info("login rejected", "name", name, "reason", "unknown user")
		return domain.SessionGrant{}, ErrUnauthorized
	}

	signer, err := pgpx.ReadPublicKey(user.PublicKey)
	if err != nil {
		log.Warn("login rejected", "name", name, "reason", "stored key unreadable", "err", err)
		return domain.SessionGrant{}, ErrUnauthorized
	}

	plaintext, err := s.Keys.Decrypt(password, signer)
	if err != nil {
		log.Info("login rejected", "name", name, "reason", "decryption failed")
		return domain.SessionGrant{}, ErrUnauthorized
	}

	var echo domain.ChallengeEcho
	if err := json.Unmarshal(plaintext, &echo); err != nil {
		log.Info("login rejected", "name", name, "reason", "malformed challenge echo")
		return domain.SessionGrant{}, ErrUnauthorized
	}

	if echo.Name != name {
		log.Info("login rejected", "name", name, "reason", "name mismatch")
		return domain.SessionGrant{}, ErrUnauthorized
	}
	if echo.Time.IsZero() {
		log.Info("login rejected", "name", name, "reason", "missing time")
		return domain.SessionGrant{}, ErrUnauthorized
	}

	// The server clock is authoritative; the echo time only anchors the
	// window start.
	if time.Now().After(echo.Time.Add(s.window())) {
		log.Info("login rejected", "name", name, "reason", "challenge expired")
		return domain.SessionGrant{}, ErrUnauthorized
	}

	// Identity comes from the stored record, never from the plaintext.
	log.Info("login verified", "name", user.Name)
	return domain.SessionGrant{Name: user.Name, Roles: user.Roles}, nil
}
