package domain

import (
	"strings"
	"time"
)

// DocIDPrefix is prepended to a username to form the stable document id,
// mirroring the CouchDB _users convention.
const DocIDPrefix = "org.couchdb.user:"

// SchemeOpenPGP is the fixed password scheme tag. Records created by this
// service always carry it; it distinguishes public-key records from legacy
// hash-based ones.
const SchemeOpenPGP = "openpgp"

// CompatIterations is stored in the iterations slot for schema compatibility
// with pbkdf2 records. It is semantically meaningless for the openpgp scheme
// but must be present and non-zero.
const CompatIterations = 10

// User is a _users-style record. The password slot holds an armored OpenPGP
// public key, never a literal password or a derivable hash.
type User struct {
	ID         string   // DocIDPrefix + Name
	Name       string   // unique, immutable once created
	PublicKey  string   // armored public key, stored in the password slot
	Scheme     string   // always SchemeOpenPGP
	Iterations int      // compat placeholder, always CompatIterations
	Salt       string   // compat placeholder, opaque and unused
	Roles      []string // role strings assigned at creation
	Rev        string   // optimistic concurrency token, "<gen>-<fingerprint>"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DocID derives the document id for a username.
func DocID(name string) string {
	return DocIDPrefix + name
}

// RevGeneration returns the numeric generation of a revision token, or 0 if
// the token is malformed. A freshly created record has generation 1.
func RevGeneration(rev string) int {
	head, _, ok := strings.Cut(rev, "-")
	if !ok {
		return 0
	}
	gen := 0
	for _, c := range head {
		if c < '0' || c > '9' {
			return 0
		}
		gen = gen*10 + int(c-'0')
	}
	return gen
}
