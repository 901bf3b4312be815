package domain

import "time"

// AuthMethod identifies which identity source authenticated a request.
type AuthMethod string

const (
	// AuthMethodCookie means the caller presented a valid session cookie.
	AuthMethodCookie AuthMethod = "cookie"
	// AuthMethodDefault means the caller presented a valid transport
	// credential (HTTP basic admin).
	AuthMethodDefault AuthMethod = "default"
	// AuthMethodNone means the caller is unauthenticated.
	AuthMethodNone AuthMethod = ""
)

// RoleAdmin is granted to transport-credential callers.
const RoleAdmin = "_admin"

// Identity is the resolved caller identity. The zero value is the
// unauthenticated sentinel.
type Identity struct {
	Name  string
	Roles []string
}

// IsAnonymous reports whether the identity is the unauthenticated sentinel.
func (i Identity) IsAnonymous() bool { return i.Name == "" && len(i.Roles) == 0 }

// Session is a server-side cookie session row. The cookie itself is a signed
// token whose sid must resolve to a live row; deleting the row invalidates
// the token regardless of its embedded expiry.
type Session struct {
	ID        string // ULID, doubles as the token's sid claim
	Name      string
	Roles     []string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session row has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionGrant is produced by a successful login verification and consumed by
// session issuance. Name and Roles come from the stored user record, never
// from client-supplied plaintext.
type SessionGrant struct {
	Name  string
	Roles []string
}
