package app

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/internal/auth/store"
	"github.com/couchloft/pgpauth/pkg/cryptox"
	"github.com/couchloft/pgpauth/pkg/pgpx"
)

// serverKeys bundles the key material the service needs at runtime: the
// long-lived OpenPGP identity, a decoy pair for unknown-user decrypts, and
// the Ed25519 key that signs session cookies.
type serverKeys struct {
	pgp     *pgpx.KeyPair
	decoy   *pgpx.KeyPair
	session ed25519.PrivateKey
}

// InitServerKeys loads or generates the service key material.
//
// Storage modes:
//   - "ephemeral": keys are generated on startup and held only in memory.
//     Existing cookies and cached server-key payloads become invalid when
//     the service restarts.
//   - "persistent": private keys are sealed under the master key and stored
//     in the database. Sessions survive restarts.
//
// The decoy pair is always regenerated on startup; it never signs or
// identifies anything, it only absorbs decrypt work for unknown names.
func InitServerKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*serverKeys, error) {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	decoy, err := pgpx.GenerateKeyPair("decoy", "decoy@localhost")
	if err != nil {
		return nil, fmt.Errorf("failed to generate decoy keypair: %w", err)
	}

	keys := &serverKeys{decoy: decoy}

	switch cfg.KeyStorageMode {
	case "persistent":
		keys.pgp, err = loadOrCreatePGPKey(ctx, db, logger)
		if err != nil {
			return nil, err
		}
		keys.session, err = loadOrCreateSessionKey(ctx, db, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("persistent key mode enabled, sessions survive restarts")

	case "ephemeral":
		fallthrough
	default:
		keys.pgp, err = pgpx.GenerateKeyPair("pgpauth", "pgpauth@localhost")
		if err != nil {
			return nil, fmt.Errorf("failed to generate server keypair: %w", err)
		}
		keys.session, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session signing key: %w", err)
		}
		logger.Info("generated ephemeral server keys", "key_id", keys.pgp.KeyID)
		logger.Warn("all existing sessions are now invalid due to key generation on startup")
	}

	return keys, nil
}

func loadOrCreatePGPKey(ctx context.Context, db store.Store, logger *slog.Logger) (*pgpx.KeyPair, error) {
	rec, err := db.ServerKeys().GetServerKey(ctx, domain.ServerKeyKindPGP)
	switch {
	case err == nil:
		priv, err := cryptox.OpenPrivateKey(rec.PrivateKeyEnc)
		if err != nil {
			return nil, fmt.Errorf("failed to unseal server keypair: %w", err)
		}
		kp, err := pgpx.RestoreKeyPair(string(priv))
		if err != nil {
			return nil, fmt.Errorf("failed to restore server keypair: %w", err)
		}
		logger.Info("loaded persistent server keypair", "key_id", kp.KeyID)
		return kp, nil

	case errors.Is(err, store.ErrNotFound):
		kp, err := pgpx.GenerateKeyPair("pgpauth", "pgpauth@localhost")
		if err != nil {
			return nil, fmt.Errorf("failed to generate server keypair: %w", err)
		}
		sealed, err := cryptox.SealPrivateKey([]byte(kp.PrivateArmored))
		if err != nil {
			return nil, fmt.Errorf("failed to seal server keypair: %w", err)
		}
		err = db.ServerKeys().PutServerKey(ctx, domain.ServerKey{
			Kind:          domain.ServerKeyKindPGP,
			KeyID:         kp.KeyID,
			PublicKey:     []byte(kp.PublicArmored),
			PrivateKeyEnc: sealed,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist server keypair: %w", err)
		}
		logger.Info("generated and persisted server keypair", "key_id", kp.KeyID)
		return kp, nil

	default:
		return nil, fmt.Errorf("failed to load server keypair: %w", err)
	}
}

func loadOrCreateSessionKey(ctx context.Context, db store.Store, logger *slog.Logger) (ed25519.PrivateKey, error) {
	rec, err := db.ServerKeys().GetServerKey(ctx, domain.ServerKeyKindSession)
	switch {
	case err == nil:
		pemData, err := cryptox.OpenPrivateKey(rec.PrivateKeyEnc)
		if err != nil {
			return nil, fmt.Errorf("failed to unseal session signing key: %w", err)
		}
		priv, err := cryptox.ParseEd25519Key(pemData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session signing key: %w", err)
		}
		logger.Info("loaded persistent session signing key")
		return priv, nil

	case errors.Is(err, store.ErrNotFound):
		priv, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session signing key: %w", err)
		}
		pemData, err := cryptox.MarshalEd25519Key(priv)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal session signing key: %w", err)
		}
		sealed, err := cryptox.SealPrivateKey(pemData)
		if err != nil {
			return nil, fmt.Errorf("failed to seal session signing key: %w", err)
		}
		pub := priv.Public().(ed25519.PublicKey)
		err = db.ServerKeys().PutServerKey(ctx, domain.ServerKey{
			Kind:          domain.ServerKeyKindSession,
			KeyID:         cryptox.Fingerprint(pub),
			PublicKey:     pub,
			PrivateKeyEnc: sealed,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist session signing key: %w", err)
		}
		logger.Info("generated and persisted session signing key")
		return priv, nil

	default:
		return nil, fmt.Errorf("failed to load session signing key: %w", err)
	}
}
