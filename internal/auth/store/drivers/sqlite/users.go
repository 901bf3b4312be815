package sqlite

import (
	"context"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, public_key, scheme, iterations, salt, roles, rev, created_at, updated_at
		FROM users WHERE name = ?`, name)

	var u domain.User
	var roles string
	err := row.Scan(&u.ID, &u.Name, &u.PublicKey, &u.Scheme, &u.Iterations,
		&u.Salt, &roles, &u.Rev, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Roles = splitRoles(roles)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, public_key, scheme, iterations, salt, roles, rev, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.PublicKey, u.Scheme, u.Iterations, u.Salt,
		joinRoles(u.Roles), u.Rev, u.CreatedAt, u.UpdatedAt)
	return mapUnique(err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, name, rev string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE name = ? AND rev = ?`, name, rev)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Nothing deleted: distinguish a missing record from a stale rev.
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE name = ?`, name).Scan(&one)
	if err != nil {
		return mapNotFound(err)
	}
	return store.ErrRevMismatch
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
