package sqlite

import (
	"context"

	"github.com/couchloft/pgpauth/internal/auth/domain"
)

type serverKeysRepo struct {
	db dbtx
}

func (r *serverKeysRepo) GetServerKey(ctx context.Context, kind string) (domain.ServerKey, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT kind, key_id, public_key, private_key_enc, created_at
		FROM server_keys WHERE kind = ?`, kind)

	var k domain.ServerKey
	err := row.Scan(&k.Kind, &k.KeyID, &k.PublicKey, &k.PrivateKeyEnc, &k.CreatedAt)
	if err != nil {
		return domain.ServerKey{}, mapNotFound(err)
	}
	return k, nil
}

func (r *serverKeysRepo) PutServerKey(ctx context.Context, k domain.ServerKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO server_keys (kind, key_id, public_key, private_key_enc, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			key_id = excluded.key_id,
			public_key = excluded.public_key,
			private_key_enc = excluded.private_key_enc`,
		k.Kind, k.KeyID, k.PublicKey, k.PrivateKeyEnc, k.CreatedAt)
	return err
}
