package api

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/AaronLay10/nina-sequence-editor/internal/config"
)

// Role represents an authorization role.
type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// authConfig holds credentials loaded from environment variables.
type authConfig struct {
	creds   config.Credentials
	enabled bool
}

var auth *authConfig

// InitAuth loads credentials from NINASEQ_EDITOR_USER/PASS and
// NINASEQ_VIEWER_USER/PASS (or their *_FILE variants). Without editor
// credentials authentication is disabled.
func InitAuth() {
	creds, err := config.LoadCredentials()
	if err != nil {
		log.Fatalf("failed to resolve credentials: %v", err)
	}
	auth = &authConfig{creds: creds, enabled: creds.Enabled()}
}

// IsAuthEnabled returns true if authentication is configured.
func IsAuthEnabled() bool {
	return auth != nil && auth.enabled
}

// authenticate checks basic auth credentials and returns the role if valid.
// Returns empty string if credentials are invalid.
func authenticate(r *http.Request) Role {
	if auth == nil || !auth.enabled {
		return RoleEditor
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return ""
	}

	c := auth.creds
	if secureCompare(user, c.EditorUser) && secureCompare(pass, c.EditorPass) {
		return RoleEditor
	}
	if c.ViewerUser != "" && c.ViewerPass != "" {
		if secureCompare(user, c.ViewerUser) && secureCompare(pass, c.ViewerPass) {
			return RoleViewer
		}
	}
	return ""
}

// secureCompare performs constant-time string comparison.
func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// requireAuth returns 401 Unauthorized with WWW-Authenticate header.
func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="NINA Sequence Editor"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// RequireRole wraps a handler and requires one of the specified roles.
func RequireRole(handler http.HandlerFunc, allowedRoles ...Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := authenticate(r)
		if role == "" {
			requireAuth(w)
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				handler(w, r)
				return
			}
		}

		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}

// RequireAnyRole wraps a handler requiring editor OR viewer role.
func RequireAnyRole(handler http.HandlerFunc) http.HandlerFunc {
	return RequireRole(handler, RoleEditor, RoleViewer)
}

// RequireEditor wraps a handler requiring the editor role.
func RequireEditor(handler http.HandlerFunc) http.HandlerFunc {
	return RequireRole(handler, RoleEditor)
}
