package service

import (
	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/couchloft/pgpauth/pkg/pgpx"
)

// KeyStore holds the server's long-lived OpenPGP keypair and a decoy
// identity used to keep rejects for unknown users on the same code path as
// real decryption failures.
type KeyStore struct {
	pair  *pgpx.KeyPair
	decoy *pgpx.KeyPair
}

func NewKeyStore(pair, decoy *pgpx.KeyPair) *KeyStore {
	return &KeyStore{pair: pair, decoy: decoy}
}

// KeyID returns the short id of the server's primary key.
func (ks *KeyStore) KeyID() string { return ks.pair.KeyID }

// PublicKeyArmored returns the armored server public key clients encrypt
// challenge responses under.
func (ks *KeyStore) PublicKeyArmored() string { return ks.pair.PublicArmored }

// Decrypt opens an armored blob with the server private key, requiring a
// valid signature from expectedSigner. It validates cryptographic integrity
// only; payload semantics are the verifier's job.
func (ks *KeyStore) Decrypt(blob string, expectedSigner *openpgp.Entity) ([]byte, error) {
	return ks.pair.DecryptVerify(blob, expectedSigner)
}

// DecryptDecoy runs the same decrypt work against the decoy signer. Unknown
// usernames go through here so lookup misses cost roughly the same as bad
// ciphertexts.
func (ks *KeyStore) DecryptDecoy(blob string) {
	_, _ = ks.pair.DecryptVerify(blob, ks.decoy.Entity())
}
