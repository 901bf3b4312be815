package service

import (
	"time"

	"github.com/couchloft/pgpauth/internal/auth/domain"
)

// DefaultChallengeWindow bounds how long a challenge echo stays valid after
// its anchor time.
const DefaultChallengeWindow = 15 * time.Second

// ChallengeService builds the ephemeral payload a client needs to prove
// private-key possession. Nothing is persisted; the server's clock at
// verification time is what enforces expiry.
type ChallengeService struct {
	Keys *KeyStore
}

// Issue produces the current challenge payload: the server public key to
// encrypt under and the issuance timestamp anchoring the expiry window.
func (s *ChallengeService) Issue() domain.Challenge {
	return domain.Challenge{
		KeyID:     s.Keys.KeyID(),
		PublicKey: s.Keys.PublicKeyArmored(),
		IssuedAt:  time.Now().UTC(),
	}
}
