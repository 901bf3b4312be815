package http

import (
	"net/http"

	"github.com/couchloft/pgpauth/internal/auth/service"
	"github.com/couchloft/pgpauth/pkg/authsdk"
	"github.com/couchloft/pgpauth/pkg/httpx"
)

// ServerKeyHandler godoc
//
//	@Summary		Challenge payload
//	@Description	Returns the armored server public key and the issuance timestamp anchoring the login window.
//	@Description	Clients JSON-encode {name, time}, encrypt it under pk while signing with their private key, and submit the armored result as their login password.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.ServerKeyResponse	"ok, kid, pk, time"
//	@Router			/v1/key [get].
func ServerKeyHandler(challenges *service.ChallengeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := challenges.Issue()
		httpx.WriteJSON(w, http.StatusOK, authsdk.ServerKeyResponse{
			OK:   true,
			KID:  c.KeyID,
			PK:   c.PublicKey,
			Time: c.IssuedAt,
		})
	}
}
