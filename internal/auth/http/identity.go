package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/internal/auth/service"
	"github.com/couchloft/pgpauth/pkg/cryptox"
)

// SessionCookieName matches the CouchDB convention so existing clients keep
// working.
const SessionCookieName = "AuthSession"

// IdentityResolver evaluates the identity precedence chain for a request:
// cookie session first, then the transport credential, then anonymous. A
// destroyed cookie therefore falls back to the admin identity when basic
// credentials are present, never to a stale cookie identity.
type IdentityResolver struct {
	Sessions *service.SessionService

	AdminUser string
	AdminHash string // argon2id PHC string
}

// Resolve returns the caller identity and the method that established it.
func (ir *IdentityResolver) Resolve(r *http.Request) (domain.Identity, domain.AuthMethod) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if id, err := ir.Sessions.Resolve(r.Context(), c.Value); err == nil {
			return id, domain.AuthMethodCookie
		}
	}

	if user, pass, ok := r.BasicAuth(); ok && ir.checkAdmin(user, pass) {
		return domain.Identity{
			Name:  ir.AdminUser,
			Roles: []string{domain.RoleAdmin},
		}, domain.AuthMethodDefault
	}

	return domain.Identity{}, domain.AuthMethodNone
}

func (ir *IdentityResolver) checkAdmin(user, pass string) bool {
	if ir.AdminUser == "" || ir.AdminHash == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(ir.AdminUser)) != 1 {
		return false
	}
	return cryptox.VerifyPassword(pass, ir.AdminHash) == nil
}

/// isAdminOrSelf gates record reads/deletes: the _admin role or the record
// owner.
func isAdminOrSelf(id domain.Identity, name string) bool {
	if id.Name == name && name != "" {
		return true
	}
	for _, role := range id.Roles {
		if role == domain.RoleAdmin {
			return true
		}
	}
	return false
}
