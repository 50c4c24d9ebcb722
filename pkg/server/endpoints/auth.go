package endpoints

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/authn"
	"github.com/kantoorhq/kantoor/pkg/authn/azuread"
	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/middleware"
	"github.com/kantoorhq/kantoor/pkg/server/store"

	"github.com/alexedwards/scs/v2"
)

// azureStateCookie carries the CSRF state between the login redirect and
// the callback.
const azureStateCookie = "kantoor_azure_state"

// RegisterAuthEndpoints registers login, logout, SSO and identity routes.
// Login and the SSO handshake run before a session exists, so they sit on
// the bare router; logout and whoami require one.
func RegisterAuthEndpoints(s *server.Server) {
	s.Router.HandleFunc("/auth/login", handleLogin(s.Sessions, s.Users, s.Config)).Methods("POST")
	s.Router.HandleFunc("/auth/azure/login", handleAzureLogin(s.Auth, s.Config)).Methods("GET")
	s.Router.HandleFunc("/auth/azure/callback", handleAzureCallback(s.Auth, s.Sessions, s.Users, s.Roles, s.Orgs, s.People, s.Config)).Methods("GET")

	router := s.Router.PathPrefix("/auth").Subrouter()
	router.Use(s.SessionAuth.Middleware)
	router.HandleFunc("/logout", handleLogout(s.Sessions)).Methods("POST")
	router.HandleFunc("/whoami", handleWhoami).Methods("GET")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func handleLogin(sessions *scs.SessionManager, users store.UsersStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		ip := requestIP(r, cfg)

		// Unknown email, wrong password and disabled accounts all read
		// the same from the outside.
		fail := func(orgID, reason string) {
			audit.Log(audit.AuthenticateEvent{
				OrgID:        orgID,
				Email:        req.Email,
				Method:       "password",
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: reason,
			})
			respondWithError(w, http.StatusUnauthorized, "invalid email or password")
		}

		user, err := users.GetUserByEmail(req.Email)
		if err != nil {
			if err == store.ErrUserNotFound {
				fail("", "unknown email")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch user")
			return
		}
		if user.Disabled {
			fail(user.OrgID.String(), "account disabled")
			return
		}
		if !authn.CheckPassword(user.PasswordHash, req.Password) {
			fail(user.OrgID.String(), "wrong password")
			return
		}

		if err := openSession(r, sessions, users, user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to open session")
			return
		}

		audit.Log(audit.AuthenticateEvent{
			OrgID:    user.OrgID.String(),
			Email:    user.Email,
			Method:   "password",
			ClientIP: ip,
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleLogout(sessions *scs.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestIdentity(w, r); !ok {
			return
		}

		if err := sessions.Destroy(r.Context()); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to destroy session")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleWhoami(w http.ResponseWriter, r *http.Request) {
	id, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":      id.UserID,
		"org_id":       id.OrgID,
		"email":        id.Email,
		"display_name": id.DisplayName,
		"role":         id.RoleName,
		"person_id":    id.PersonID,
		"capabilities": id.Capabilities,
	})
}

func handleAzureLogin(client *azuread.Client, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			respondWithError(w, http.StatusServiceUnavailable, "azure ad login is not configured")
			return
		}

		state, err := stateToken()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to generate state")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     azureStateCookie,
			Value:    state,
			Path:     "/auth/azure",
			MaxAge:   600,
			HttpOnly: true,
			Secure:   cfg.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, client.AuthCodeURL(state), http.StatusFound)
	}
}

func handleAzureCallback(client *azuread.Client, sessions *scs.SessionManager, users store.UsersStore, roles store.RolesStore, orgs store.OrgsStore, people store.PeopleStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			respondWithError(w, http.StatusServiceUnavailable, "azure ad login is not configured")
			return
		}
		ip := requestIP(r, cfg)

		query := r.URL.Query()
		if errCode := query.Get("error"); errCode != "" {
			respondWithError(w, http.StatusBadRequest, "azure ad returned "+errCode)
			return
		}

		cookie, err := r.Cookie(azureStateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
			respondWithError(w, http.StatusBadRequest, "state mismatch")
			return
		}
		// The state is single use.
		http.SetCookie(w, &http.Cookie{Name: azureStateCookie, Path: "/auth/azure", MaxAge: -1})

		code := query.Get("code")
		if code == "" {
			respondWithError(w, http.StatusBadRequest, "missing authorization code")
			return
		}

		idToken, err := client.Exchange(r.Context(), code)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, "token exchange failed")
			return
		}
		claims, err := client.ValidateIDToken(r.Context(), idToken)
		if err != nil {
			audit.Log(audit.AuthenticateEvent{
				Email:        "",
				Method:       "azuread",
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusUnauthorized, "invalid id token")
			return
		}

		failAuthn := func(orgID, reason string, code int, message string) {
			audit.Log(audit.AuthenticateEvent{
				OrgID:        orgID,
				Email:        claims.Email,
				Method:       "azuread",
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: reason,
			})
			respondWithError(w, code, message)
		}

		user, err := resolveAzureUser(users, roles, orgs, people, cfg, claims)
		if err != nil {
			switch err {
			case errSSOUnknownAccount:
				failAuthn("", "no account and auto-provisioning disabled", http.StatusForbidden, "no account for "+claims.Email)
			case store.ErrOrgNotFound:
				failAuthn("", "no organization for domain", http.StatusForbidden, "no organization for "+emailDomain(claims.Email))
			default:
				respondWithError(w, http.StatusInternalServerError, "failed to resolve account")
			}
			return
		}
		if user.Disabled {
			failAuthn(user.OrgID.String(), "account disabled", http.StatusUnauthorized, "account disabled")
			return
		}

		if err := openSession(r, sessions, users, user); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to open session")
			return
		}

		audit.Log(audit.AuthenticateEvent{
			OrgID:    user.OrgID.String(),
			Email:    user.Email,
			Method:   "azuread",
			ClientIP: ip,
			Success:  true,
		})

		target := cfg.FrontEndURL
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// errSSOUnknownAccount is returned when no account matches the token and
// auto-provisioning is off.
var errSSOUnknownAccount = errors.New("no matching account")

// resolveAzureUser maps validated token claims onto a user account. Lookup
// order is object ID, then email (linking the object ID on first SSO login),
// then auto-provisioning into the organization owning the email domain.
func resolveAzureUser(users store.UsersStore, roles store.RolesStore, orgs store.OrgsStore, people store.PeopleStore, cfg *config.Config, claims *azuread.Claims) (*model.User, error) {
	user, err := users.GetUserByAzureObjectID(claims.ObjectID)
	if err == nil {
		return user, nil
	}
	if err != store.ErrUserNotFound {
		return nil, err
	}

	user, err = users.GetUserByEmail(claims.Email)
	if err == nil {
		if user.AzureObjectID == nil {
			objectID := claims.ObjectID
			user.AzureObjectID = &objectID
			if err := users.UpdateUser(user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if err != store.ErrUserNotFound {
		return nil, err
	}

	if !cfg.SSOAutoProvision {
		return nil, errSSOUnknownAccount
	}

	org, err := orgs.GetOrgByDomain(emailDomain(claims.Email))
	if err != nil {
		return nil, err
	}
	role, err := roles.GetRoleByName(org.ID, cfg.SSODefaultRole)
	if err != nil {
		return nil, err
	}

	objectID := claims.ObjectID
	displayName := claims.Name
	if displayName == "" {
		displayName = claims.Email
	}
	user = &model.User{
		ID:            uuid.New(),
		OrgID:         org.ID,
		Email:         claims.Email,
		DisplayName:   displayName,
		AzureObjectID: &objectID,
		RoleID:        role.ID,
	}

	// Link the HR record sharing the address, when there is one.
	if person, err := people.GetPersonByEmail(org.ID, claims.Email); err == nil {
		user.PersonID = &person.ID
	}

	if err := users.CreateUser(user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// openSession rotates the session token and binds the user to it.
func openSession(r *http.Request, sessions *scs.SessionManager, users store.UsersStore, user *model.User) error {
	ctx := r.Context()
	if err := sessions.RenewToken(ctx); err != nil {
		return err
	}
	sessions.Put(ctx, middleware.SessionUserKey, user.ID.String())
	sessions.Put(ctx, middleware.SessionOrgKey, user.OrgID.String())
	return users.TouchLastLogin(user.ID)
}

func stateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}
