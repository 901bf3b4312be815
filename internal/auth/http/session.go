package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchloft/pgpauth/internal/auth/service"
	"github.com/couchloft/pgpauth/pkg/authsdk"
	"github.com/couchloft/pgpauth/pkg/httpx"
	"github.com/couchloft/pgpauth/pkg/slogx"
)

// AuthenticationDB is reported in session info for CouchDB compatibility.
const AuthenticationDB = "_users"

var authenticationHandlers = []string{"cookie", "default"}

// SessionHandler serves /v1/session: login, introspection, logout.
type SessionHandler struct {
	LoginService   *service.LoginService
	SessionService *service.SessionService
	Resolver       *IdentityResolver
}

// HandlePost godoc
//
//	@Summary		Log in
//	@Description	Verifies an encrypted challenge response and establishes a cookie session.
//	@Description	Every verification failure returns the same 401 body; no sub-check is distinguishable.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LogInRequest	true	"Username and armored encrypted challenge echo"
//	@Success		200		{object}	authsdk.LogInResponse	"ok, name, roles"
//	@Failure		401		{object}	authsdk.APIError		"status, name, message"
//	@Router			/v1/session [post].
func (h *SessionHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LogInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		// A malformed login is still a login failure; keep the shape uniform.
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	grant, err := h.LoginService.Verify(ctx, req.Name, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			log.Error("login verification failed", "err", err)
		}
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	token, err := h.SessionService.LogIn(ctx, grant)
	if err != nil {
		log.Error("session issuance failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	http.SetCookie(w, sessionCookie(token, 0))
	httpx.WriteJSON(w, http.StatusOK, authsdk.LogInResponse{
		OK:    true,
		Name:  grant.Name,
		Roles: grant.Roles,
	})
}

// HandleGet godoc
//
//	@Summary		Current session
//	@Description	Reports the caller identity: cookie session if valid, transport credential otherwise, anonymous as a last resort.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionResponse	"ok, userCtx, info"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, method := h.Resolver.Resolve(r)

	userCtx := authsdk.UserCtx{Roles: []string{}}
	if !id.IsAnonymous() {
		name := id.Name
		userCtx.Name = &name
		userCtx.Roles = id.Roles
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		OK:      true,
		UserCtx: userCtx,
		Info: authsdk.SessionInfo{
			Authenticated:          string(method),
			AuthenticationHandlers: authenticationHandlers,
			AuthenticationDB:       AuthenticationDB,
		},
	})
}

// HandleDelete godoc
//
//	@Summary		Log out
//	@Description	Destroys the cookie session. Idempotent: a second logout succeeds and leaves the caller unauthenticated (or on the transport credential), never on a stale cookie identity.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.LogOutResponse	"ok"
//	@Router			/v1/session [delete].
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if err := h.SessionService.LogOut(ctx, c.Value); err != nil {
			slogx.FromContext(ctx).Error("logout failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
			return
		}
	}

	http.SetCookie(w, sessionCookie("", -1))
	httpx.WriteJSON(w, http.StatusOK, authsdk.LogOutResponse{OK: true})
}

func sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
