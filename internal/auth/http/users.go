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

// UsersHandler serves the user-record endpoints under /v1/users/{name}.
type UsersHandler struct {
	UserService *service.UserService
	Resolver    *IdentityResolver
}

// HandleSignUp godoc
//
//	@Summary		Register a user
//	@Description	Creates a user record whose password slot holds an armored OpenPGP public key (password_scheme "openpgp").
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string					true	"Username"
//	@Param			body	body		authsdk.SignUpRequest	true	"Armored public key and roles"
//	@Success		201		{object}	authsdk.SignUpResponse	"ok, id, rev"
//	@Failure		400		{object}	authsdk.APIError		"status, name, message"
//	@Failure		409		{object}	authsdk.APIError		"status, name, message"
//	@Router			/v1/users/{name} [put].
func (h *UsersHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrBadRequest.WriteError(w)
		return
	}

	user, err := h.UserService.SignUp(ctx, r.PathValue("name"), req.Password, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			authsdk.ErrConflict.WriteError(w)
		case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrInvalidPublicKey):
			authsdk.ErrBadRequest.WriteError(w)
		default:
			log.Error("signup failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.SignUpResponse{
		OK:  true,
		ID:  user.ID,
		Rev: user.Rev,
	})
}

// HandleGet godoc
//
//	@Summary		Fetch a user record
//	@Description	Returns the stored record. Requires the _admin role or the record owner's cookie session.
//	@Tags			Users
//	@Produce		json
//	@Param			name	path		string					true	"Username"
//	@Success		200		{object}	authsdk.UserResponse	"record"
//	@Failure		403		{object}	authsdk.APIError		"status, name, message"
//	@Failure		404		{object}	authsdk.APIError		"status, name, message"
//	@Router			/v1/users/{name} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	id, _ := h.Resolver.Resolve(r)
	if !isAdminOrSelf(id, name) {
		authsdk.ErrForbidden.WriteError(w)
		return
	}

	user, err := h.UserService.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		slogx.FromContext(r.Context()).Error("user fetch failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:             user.ID,
		Rev:            user.Rev,
		Type:           "user",
		Name:           user.Name,
		Password:       user.PublicKey,
		PasswordScheme: user.Scheme,
		Iterations:     user.Iterations,
		Salt:           user.Salt,
		Roles:          user.Roles,
	})
}

// HandleRemove godoc
//
//	@Summary		Delete a user record
//	@Description	Removes the record iff the rev query parameter matches its current revision. Also destroys the user's sessions.
//	@Tags			Users
//	@Produce		json
//	@Param			name	path		string					true	"Username"
//	@Param			rev		query		string					true	"Current revision token"
//	@Success		200		{object}	authsdk.RemoveResponse	"ok"
//	@Failure		403		{object}	authsdk.APIError		"status, name, message"
//	@Failure		404		{object}	authsdk.APIError		"status, name, message"
//	@Failure		409		{object}	authsdk.APIError		"status, name, message"
//	@Router			/v1/users/{name} [delete].
func (h *UsersHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	id, _ := h.Resolver.Resolve(r)
	if !isAdminOrSelf(id, name) {
		authsdk.ErrForbidden.WriteError(w)
		return
	}

	rev := r.URL.Query().Get("rev")
	if rev == "" {
		authsdk.ErrBadRequest.WriteError(w)
		return
	}

	err := h.UserService.Remove(r.Context(), name, rev)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			authsdk.ErrNotFound.WriteError(w)
		case errors.Is(err, service.ErrStaleRevision):
			authsdk.ErrConflict.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("user removal failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RemoveResponse{OK: true})
}
