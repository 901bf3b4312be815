// Package pgpx wraps the OpenPGP primitives the auth service consumes:
// keypair generation, armored encode/decode, and combined
// encrypt-and-sign / decrypt-and-verify over armored messages.
package pgpx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// ErrDecrypt reports that an armored message could not be decrypted or its
// signature could not be verified. Callers must not surface the distinction.
var ErrDecrypt = errors.New("pgpx: decryption failed")

const messageType = "PGP MESSAGE"

// KeyPair holds a generated or restored OpenPGP identity with both halves
// available in armored form.
type KeyPair struct {
	entity *openpgp.Entity

	KeyID          string // short key id of the primary key, e.g. "F1E2D3C4B5A69788"
	PublicArmored  string
	PrivateArmored string
}

func keyConfig() *packet.Config {
	return &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
		Curve:     packet.Curve25519,
	}
}

// GenerateKeyPair creates a fresh Ed25519 signing key with an X25519
// encryption subkey and returns both armored halves.
func GenerateKeyPair(name, email string) (*KeyPair, error) {
	entity, err := openpgp.NewEntity(name, "", email, keyConfig())
	if err != nil {
		return nil, fmt.Errorf("pgpx: generate key: %w", err)
	}
	return newKeyPair(entity)
}

// RestoreKeyPair rebuilds a KeyPair from an armored private key produced by
// GenerateKeyPair.
func RestoreKeyPair(privateArmored string) (*KeyPair, error) {
	ring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(privateArmored))
	if err != nil {
		return nil, fmt.Errorf("pgpx: read private key: %w", err)
	}
	if len(ring) == 0 || ring[0].PrivateKey == nil {
		return nil, errors.New("pgpx: armored input holds no private key")
	}
	return newKeyPair(ring[0])
}

func newKeyPair(entity *openpgp.Entity) (*KeyPair, error) {
	pub, err := armorKey(openpgp.PublicKeyType, entity.Serialize)
	if err != nil {
		return nil, err
	}
	priv, err := armorKey(openpgp.PrivateKeyType, func(w io.Writer) error {
		return entity.SerializePrivate(w, nil)
	})
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		entity:         entity,
		KeyID:          entity.PrimaryKey.KeyIdString(),
		PublicArmored:  pub,
		PrivateArmored: priv,
	}, nil
}

func armorKey(blockType string, serialize func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, blockType, nil)
	if err != nil {
		return "", fmt.Errorf("pgpx: armor: %w", err)
	}
	if err := serialize(w); err != nil {
		return "", fmt.Errorf("pgpx: serialize key: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("pgpx: armor: %w", err)
	}
	return buf.String(), nil
}

// ReadPublicKey parses a single armored public key.
func ReadPublicKey(armored string) (*openpgp.Entity, error) {
	ring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armored))
	if err != nil {
		return nil, fmt.Errorf("pgpx: read public key: %w", err)
	}
	if len(ring) == 0 {
		return nil, errors.New("pgpx: armored input holds no key")
	}
	return ring[0], nil
}

// IsPublicKey reports whether the armored input parses as an OpenPGP public
// key. Used by signup validation to keep literal passwords out of the key
// slot.
func IsPublicKey(armored string) bool {
	ent, err := ReadPublicKey(armored)
	return err == nil && ent.PrivateKey == nil
}

// EncryptSigned encrypts plaintext to the recipient and signs it with the
// signer's private key, returning an armored message. The signer must carry
// a decrypted private key.
func EncryptSigned(plaintext []byte, recipient *openpgp.Entity, signer *openpgp.Entity) (string, error) {
	var buf bytes.Buffer
	aw, err := armor.Encode(&buf, messageType, nil)
	if err != nil {
		return "", fmt.Errorf("pgpx: armor: %w", err)
	}

	pw, err := openpgp.Encrypt(aw, []*openpgp.Entity{recipient}, signer, nil, nil)
	if err != nil {
		return "", fmt.Errorf("pgpx: encrypt: %w", err)
	}
	if _, err := pw.Write(plaintext); err != nil {
		return "", fmt.Errorf("pgpx: encrypt: %w", err)
	}
	if err := pw.Close(); err != nil {
		return "", fmt.Errorf("pgpx: encrypt: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("pgpx: armor: %w", err)
	}

	return buf.String(), nil
}

// DecryptVerify decrypts an armored message with the pair's private key. When
// expectedSigner is non-nil the message must carry a valid signature from
// that key. Every failure collapses into ErrDecrypt; the cause is wrapped for
// logging but the sentinel is what crosses the authentication boundary.
func (kp *KeyPair) DecryptVerify(armoredMsg string, expectedSigner *openpgp.Entity) ([]byte, error) {
	block, err := armor.Decode(strings.NewReader(armoredMsg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	keyring := openpgp.EntityList{kp.entity}
	if expectedSigner != nil {
		keyring = append(keyring, expectedSigner)
	}

	md, err := openpgp.ReadMessage(block.Body, keyring, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	if expectedSigner != nil {
		// Signature checks only settle once the body has been drained. The
		// signing key must belong to the expected entity, not merely to
		// anything in the keyring.
		if !md.IsSigned || md.SignatureError != nil || md.SignedBy == nil ||
			md.SignedBy.Entity != expectedSigner {
			return nil, fmt.Errorf("%w: signature verification", ErrDecrypt)
		}
	}

	return plaintext, nil
}

// Entity exposes the underlying entity for callers that need to hand the
// keypair to EncryptSigned.
func (kp *KeyPair) Entity() *openpgp.Entity { return kp.entity }
