package domain

import "time"

// Server key kinds persisted by the store.
const (
	ServerKeyKindPGP     = "pgp"     // long-lived OpenPGP keypair
	ServerKeyKindSession = "session" // Ed25519 cookie-signing key
)

// ServerKey is persisted key material for one kind. PublicKey is stored in
// the clear; PrivateKeyEnc is AES-256-GCM sealed under the master key and
// never leaves the process decrypted.
type ServerKey struct {
	Kind          string
	KeyID         string
	PublicKey     []byte
	PrivateKeyEnc []byte
	CreatedAt     time.Time
}
