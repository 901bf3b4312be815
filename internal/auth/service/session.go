package service

import (
	"context"
	"errors"
	"time"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/internal/auth/store"
	"github.com/couchloft/pgpauth/pkg/idx"
	"github.com/couchloft/pgpauth/pkg/jwtx"
	"github.com/couchloft/pgpauth/pkg/slogx"
)

// DefaultSessionTTL bounds how long a cookie session lives without re-login.
const DefaultSessionTTL = 10 * time.Minute

// ErrNoSession reports that a token does not resolve to a live session.
var ErrNoSession = errors.New("no valid session")

// SessionService issues, resolves, and destroys cookie sessions. A session
// is a signed token plus a server-side row; the row is what makes logout
// stick.
type SessionService struct {
	Store    store.Store
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	TTL      time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// LogIn mints a fresh session for a verified grant. Re-login for the same
// identity simply issues a new row and token; older rows age out or are
// removed by logout.
func (s *SessionService) LogIn(ctx context.Context, grant domain.SessionGrant) (string, error) {
	now := time.Now().UTC()
	sess := domain.Session{
		ID:        idx.New().String(),
		Name:      grant.Name,
		Roles:     grant.Roles,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return "", err
	}

	token, err := s.Signer.Sign(grant.Name, grant.Roles, sess.ID, s.ttl())
	if err != nil {
		// Roll the row back; a session without a token is unreachable.
		_ = s.Store.Sessions().DeleteSession(ctx, sess.ID)
		return "", err
	}

	slogx.FromContext(ctx).Info("session created", "name", grant.Name, "sid", sess.ID)
	return token, nil
}

// Resolve maps a raw cookie token to the identity it represents. The token
// signature, its expiry, and the server-side row must all check out.
func (s *SessionService) Resolve(ctx context.Context, rawToken string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(rawToken)
	if err != nil {
		return domain.Identity{}, ErrNoSession
	}

	sess, err := s.Store.Sessions().GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrNoSession
		}
		return domain.Identity{}, err
	}
	if sess.Expired(time.Now()) {
		return domain.Identity{}, ErrNoSession
	}

	// The row is the source of truth; a token outliving its row is dead.
	return domain.Identity{Name: sess.Name, Roles: sess.Roles}, nil
}

// LogOut destroys the session behind a token. It is idempotent: an invalid
// or already-destroyed token is a successful no-op, and the caller ends up
// unauthenticated either way.
func (s *SessionService) LogOut(ctx context.Context, rawToken string) error {
	claims, err := s.Verifier.Verify(rawToken)
	if err != nil {
		return nil
	}

	if err := s.Store.Sessions().DeleteSession(ctx, claims.SessionID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("session destroyed", "sid", claims.SessionID)
	return nil
}
