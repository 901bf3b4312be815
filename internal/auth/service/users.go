package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/internal/auth/store"
	"github.com/couchloft/pgpauth/pkg/cryptox"
	"github.com/couchloft/pgpauth/pkg/pgpx"
	"github.com/couchloft/pgpauth/pkg/slogx"
)

var (
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUserNotFound     = errors.New("user not found")
	ErrStaleRevision    = errors.New("stale revision")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidPublicKey = errors.New("password slot does not hold a public key")
)

// UserService implements the user registry: create-if-absent signup, reads,
// and revision-guarded removal.
type UserService struct {
	Store store.Store
}

// SignUp creates a record for a fresh username. The submitted password must
// parse as an armored OpenPGP public key; the record always carries the
// openpgp scheme tag and the compat iterations/salt placeholders.
func (s *UserService) SignUp(ctx context.Context, name, publicKeyArmored string, roles []string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, ":") {
		return domain.User{}, ErrInvalidUsername
	}
	if !pgpx.IsPublicKey(publicKeyArmored) {
		return domain.User{}, ErrInvalidPublicKey
	}
	if roles == nil {
		roles = []string{}
	}

	now := time.Now().UTC()
	salt := cryptox.MustGenerateToken(cryptox.TokenSize128)
	u := domain.User{
		ID:         domain.DocID(name),
		Name:       name,
		PublicKey:  publicKeyArmored,
		Scheme:     domain.SchemeOpenPGP,
		Iterations: domain.CompatIterations,
		Salt:       salt,
		Roles:      roles,
		Rev:        "1-" + cryptox.Fingerprint([]byte(name+publicKeyArmored+salt)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", "name", name, "roles", roles)
	return u, nil
}

// Get fetches a record by username.
func (s *UserService) Get(ctx context.Context, name string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Remove deletes a record iff rev matches the current revision, and tears
// down any live sessions for the name in the same transaction so the
// deletion takes effect immediately.
func (s *UserService) Remove(ctx context.Context, name, rev string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().DeleteUser(ctx, name, rev); err != nil {
			return err
		}
		return tx.Sessions().DeleteUserSessions(ctx, name)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrRevMismatch):
		return ErrStaleRevision
	case err != nil:
		return err
	}

	slogx.FromContext(ctx).Info("user removed", "name", name)
	return nil
}
