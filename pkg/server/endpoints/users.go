package endpoints

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/authn"
	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// RegisterUsersEndpoints registers the user account endpoints
func RegisterUsersEndpoints(s *server.Server) {
	users := s.Users
	roles := s.Roles
	people := s.People

	router := s.Router.PathPrefix("/api/users").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	router.Handle("", requireCap(model.CapUsersRead, handleListUsers(users))).Methods("GET")
	router.Handle("", requireCap(model.CapUsersWrite, handleCreateUser(users, roles, people))).Methods("POST")

	// The role listing feeds the role picker; it sits before {id} so
	// "roles" never parses as a user ID.
	router.Handle("/roles", requireCap(model.CapUsersRead, handleListRoles(roles))).Methods("GET")

	router.Handle("/{id}", requireCap(model.CapUsersRead, handleGetUser(users))).Methods("GET")
	router.Handle("/{id}", requireCap(model.CapUsersWrite, handleUpdateUser(users, roles, people))).Methods("PUT")
	router.Handle("/{id}/disable", requireCap(model.CapUsersWrite, handleDisableUser(users))).Methods("POST")
}

// userCreateRequest is the payload for creating a user. Password is optional;
// a user without one can only sign in through SSO.
type userCreateRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	DisplayName string     `json:"display_name" validate:"required"`
	Password    string     `json:"password"`
	RoleID      uuid.UUID  `json:"role_id" validate:"required"`
	PersonID    *uuid.UUID `json:"person_id"`
}

type userUpdateRequest struct {
	DisplayName string     `json:"display_name" validate:"required"`
	RoleID      uuid.UUID  `json:"role_id" validate:"required"`
	PersonID    *uuid.UUID `json:"person_id"`
	Disabled    *bool      `json:"disabled"`
}

func handleListUsers(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		list, err := users.ListUsers(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list users")
			return
		}

		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateUser(users store.UsersStore, roles store.RolesStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req userCreateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if !checkUserRefs(w, roles, people, id, req.RoleID, req.PersonID) {
			return
		}

		user := &model.User{
			ID:          uuid.New(),
			OrgID:       id.OrgID,
			Email:       req.Email,
			DisplayName: req.DisplayName,
			RoleID:      req.RoleID,
			PersonID:    req.PersonID,
		}
		if req.Password != "" {
			hash, err := authn.HashPassword(req.Password)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to hash password")
				return
			}
			user.PasswordHash = hash
		}

		if err := users.CreateUser(user); err != nil {
			if err == store.ErrUserEmailTaken {
				respondWithError(w, http.StatusConflict, "a user with this email already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create user")
			return
		}

		audit.Log(audit.UserEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			Target:    user.Email,
			Operation: "create",
		})

		respondWithJSON(w, http.StatusCreated, user)
	}
}

func handleGetUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		user, ok := fetchUser(w, r, users, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleUpdateUser(users store.UsersStore, roles store.RolesStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		user, ok := fetchUser(w, r, users, id.OrgID)
		if !ok {
			return
		}

		var req userUpdateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.RoleID != user.RoleID && !id.HasCapability(model.CapOrgAdmin) {
			respondWithError(w, http.StatusForbidden, "changing roles requires org:admin")
			return
		}
		if !checkUserRefs(w, roles, people, id, req.RoleID, req.PersonID) {
			return
		}

		user.DisplayName = req.DisplayName
		user.RoleID = req.RoleID
		user.Role = nil
		user.PersonID = req.PersonID
		if req.Disabled != nil {
			user.Disabled = *req.Disabled
		}

		if err := users.UpdateUser(user); err != nil {
			if err == store.ErrLastAdmin {
				respondWithError(w, http.StatusConflict, "organization must keep at least one active admin")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update user")
			return
		}

		audit.Log(audit.UserEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			Target:    user.Email,
			Operation: "update",
		})

		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleDisableUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		user, ok := fetchUser(w, r, users, id.OrgID)
		if !ok {
			return
		}

		user.Disabled = true
		if err := users.UpdateUser(user); err != nil {
			if err == store.ErrLastAdmin {
				respondWithError(w, http.StatusConflict, "organization must keep at least one active admin")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to disable user")
			return
		}

		audit.Log(audit.UserEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			Target:    user.Email,
			Operation: "disable",
		})

		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleListRoles(roles store.RolesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		list, err := roles.ListRoles(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list roles")
			return
		}

		respondWithJSON(w, http.StatusOK, list)
	}
}

func checkUserRefs(w http.ResponseWriter, roles store.RolesStore, people store.PeopleStore, id *identity.Identity, roleID uuid.UUID, personID *uuid.UUID) bool {
	if _, err := roles.GetRole(id.OrgID, roleID); err != nil {
		if err == store.ErrRoleNotFound {
			respondWithError(w, http.StatusBadRequest, "unknown role")
			return false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch role")
		return false
	}
	if personID != nil {
		if _, err := people.GetPerson(id.OrgID, *personID); err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown person")
				return false
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch person")
			return false
		}
	}
	return true
}

func fetchUser(w http.ResponseWriter, r *http.Request, users store.UsersStore, orgID uuid.UUID) (*model.User, bool) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "user not found")
		return nil, false
	}

	user, err := users.GetUser(orgID, userID)
	if err != nil {
		if err == store.ErrUserNotFound {
			respondWithError(w, http.StatusNotFound, "user not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch user")
		return nil, false
	}
	return user, true
}
