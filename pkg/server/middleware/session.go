package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Session keys written at login and read on every authenticated request.
const (
	SessionUserKey = "user_id"
	SessionOrgKey  = "org_id"
)

// SessionAuthenticator is middleware that resolves the session cookie into
// a request identity.
type SessionAuthenticator struct {
	sessions *scs.SessionManager
	users    store.UsersStore
	logger   *zap.Logger
}

// NewSessionAuthenticator creates a new session authenticator middleware
func NewSessionAuthenticator(sessions *scs.SessionManager, users store.UsersStore, logger *zap.Logger) *SessionAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionAuthenticator{sessions: sessions, users: users, logger: logger}
}

// Middleware authenticates the request from its session. The user row is
// loaded fresh on every request, so role changes and disabling take effect
// immediately rather than at session expiry.
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := uuid.Parse(a.sessions.GetString(ctx, SessionUserKey))
		if err != nil {
			respondUnauthorized(w)
			return
		}
		orgID, err := uuid.Parse(a.sessions.GetString(ctx, SessionOrgKey))
		if err != nil {
			respondUnauthorized(w)
			return
		}

		user, err := a.users.GetUser(orgID, userID)
		if err != nil {
			if err != store.ErrUserNotFound {
				a.logger.Error("session user lookup failed", zap.Error(err))
			}
			_ = a.sessions.Destroy(ctx)
			respondUnauthorized(w)
			return
		}
		if user.Disabled {
			_ = a.sessions.Destroy(ctx)
			respondUnauthorized(w)
			return
		}

		id := identity.FromUser(user).WithRemoteIP(remoteIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(ctx, id)))
	})
}

// RequireCapability gates a route on one capability of the caller's role.
// It must run after the session authenticator.
func RequireCapability(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				respondUnauthorized(w)
				return
			}
			if !id.HasCapability(capability) {
				respondWithError(w, http.StatusForbidden, "missing capability "+capability)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondUnauthorized(w http.ResponseWriter) {
	respondWithError(w, http.StatusUnauthorized, "authentication required")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	body, _ := json.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func remoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
