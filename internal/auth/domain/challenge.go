package domain

import "time"

// Challenge is the wire payload handed to a client that wants to log in. It
// is ephemeral: never persisted server-side, only echoed back inside the
// client's encrypted response.
type Challenge struct {
	KeyID     string    // fingerprint of the server public key
	PublicKey string    // armored server public key to encrypt the response under
	IssuedAt  time.Time // window start; expiry is IssuedAt + the server window
}

// ChallengeEcho is the structured plaintext the client must encrypt back.
// Name must match the login username; Time anchors the expiry window. Both
// are treated as untrusted until verified against the stored record and the
// server clock.
type ChallengeEcho struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
}
