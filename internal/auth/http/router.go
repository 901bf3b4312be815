package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/couchloft/pgpauth/internal/auth/service"
	"github.com/couchloft/pgpauth/internal/auth/store"
	"github.com/couchloft/pgpauth/pkg/httpx"
	"github.com/couchloft/pgpauth/pkg/slogx"

	_ "github.com/couchloft/pgpauth/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	keys     *service.KeyStore
	resolver *IdentityResolver

	UserService      *service.UserService
	ChallengeService *service.ChallengeService
	LoginService     *service.LoginService
	SessionService   *service.SessionService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	keys *service.KeyStore,
	resolver *IdentityResolver,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		keys:         keys,
		resolver:     resolver,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			pgpauth API
//	@version		0.1.0
//	@description	CouchDB-style _users authentication with OpenPGP public-key login. Records store an
//	@description	armored public key in the password slot and logins exchange an encrypted, time-bounded
//	@description	challenge response for a cookie session.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		UserService: r.UserService,
		Resolver:    r.resolver,
	}

	// Signup is public but mutation-rate limited by IP.
	r.Mux.Handle("PUT /v1/users/{name}",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/users/{name}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/{name}",
		httpx.Chain(http.HandlerFunc(h.HandleRemove),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		LoginService:   r.LoginService,
		SessionService: r.SessionService,
		Resolver:       r.resolver,
	}

	// POST /session carries authentication attempts; strict limit by IP.
	r.Mux.Handle("POST /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandlePost),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// The challenge payload is public read-only.
	r.Mux.Handle("GET /v1/key",
		httpx.Chain(ServerKeyHandler(r.ChallengeService),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
