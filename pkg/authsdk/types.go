package authsdk

import "time"

// SignUpRequest is the body of PUT /v1/users/{name}. Password carries the
// armored public key; the slot keeps its legacy field name for schema
// compatibility.
type SignUpRequest struct {
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// SignUpResponse mirrors a document write acknowledgement.
type SignUpResponse struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// UserResponse is a user record as returned by GET /v1/users/{name}.
type UserResponse struct {
	ID             string   `json:"_id"`
	Rev            string   `json:"_rev"`
	Type           string   `json:"type"`
	Name           string   `json:"name"`
	Password       string   `json:"password"`
	PasswordScheme string   `json:"password_scheme"`
	Iterations     int      `json:"iterations"`
	Salt           string   `json:"salt"`
	Roles          []string `json:"roles"`
}

// RemoveResponse acknowledges a record deletion.
type RemoveResponse struct {
	OK bool `json:"ok"`
}

// ServerKeyResponse is the challenge payload from GET /v1/key. Clients JSON
// encode {name, time}, encrypt it under PK signing with their private key,
// and submit the armored result as their login password.
type ServerKeyResponse struct {
	OK   bool      `json:"ok"`
	KID  string    `json:"kid"`
	PK   string    `json:"pk"`
	Time time.Time `json:"time"`
}

// LogInRequest is the body of POST /v1/session.
type LogInRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LogInResponse is returned on successful login alongside the session cookie.
type LogInResponse struct {
	OK    bool     `json:"ok"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// UserCtx is the resolved caller identity. Name is null for anonymous
// callers, matching the CouchDB session shape.
type UserCtx struct {
	Name  *string  `json:"name"`
	Roles []string `json:"roles"`
}

// SessionInfo describes how the current identity was established.
type SessionInfo struct {
	Authenticated          string   `json:"authenticated,omitempty"`
	AuthenticationHandlers []string `json:"authentication_handlers"`
	AuthenticationDB       string   `json:"authentication_db"`
}

// SessionResponse is returned by GET /v1/session.
type SessionResponse struct {
	OK      bool        `json:"ok"`
	UserCtx UserCtx     `json:"userCtx"`
	Info    SessionInfo `json:"info"`
}

// LogOutResponse acknowledges DELETE /v1/session.
type LogOutResponse struct {
	OK bool `json:"ok"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
