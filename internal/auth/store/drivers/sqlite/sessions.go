package sqlite

import (
	"context"
	"time"

	"github.com/couchloft/pgpauth/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, roles, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, joinRoles(s.Roles), s.ExpiresAt, s.CreatedAt)
	return mapUnique(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, roles, expires_at, created_at
		FROM sessions WHERE id = ?`, id)

	var s domain.Session
	var roles string
	err := row.Scan(&s.ID, &s.Name, &roles, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Roles = splitRoles(roles)
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
