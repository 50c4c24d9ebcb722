package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kantoorhq/kantoor/pkg/authn"
	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// TestCreateUser covers password handling and reference checks
func TestCreateUser(t *testing.T) {
	t.Run("a password account stores a bcrypt hash", func(t *testing.T) {
		orgID := uuid.New()
		role := &model.Role{ID: uuid.New(), OrgID: orgID, Name: "manager"}

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		roles.On("GetRole", orgID, role.ID).Return(role, nil)

		var created *model.User
		users.On("CreateUser", mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(0).(*model.User)
		}).Return(nil)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleCreateUser(users, roles, people)
		body := `{"email": "bob@acme.example", "display_name": "Bob Jones", "password": "hunter2hunter2", "role_id": "` + role.ID.String() + `"}`
		req := requestWithIdentity("POST", "/api/users", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		if assert.NotNil(t, created) {
			assert.True(t, authn.CheckPassword(created.PasswordHash, "hunter2hunter2"))
		}
		// The hash is json:"-" and must never leave the server.
		assert.NotContains(t, w.Body.String(), "hunter2")
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("an account without a password is SSO only", func(t *testing.T) {
		orgID := uuid.New()
		role := &model.Role{ID: uuid.New(), OrgID: orgID, Name: "member"}

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		roles.On("GetRole", orgID, role.ID).Return(role, nil)

		var created *model.User
		users.On("CreateUser", mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(0).(*model.User)
		}).Return(nil)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleCreateUser(users, roles, people)
		body := `{"email": "bob@acme.example", "display_name": "Bob Jones", "role_id": "` + role.ID.String() + `"}`
		req := requestWithIdentity("POST", "/api/users", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		if assert.NotNil(t, created) {
			assert.Empty(t, created.PasswordHash)
		}
	})

	t.Run("a duplicate email is a conflict", func(t *testing.T) {
		orgID := uuid.New()
		role := &model.Role{ID: uuid.New(), OrgID: orgID, Name: "member"}

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		roles.On("GetRole", orgID, role.ID).Return(role, nil)
		users.On("CreateUser", mock.Anything).Return(store.ErrUserEmailTaken)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleCreateUser(users, roles, people)
		body := `{"email": "bob@acme.example", "display_name": "Bob Jones", "role_id": "` + role.ID.String() + `"}`
		req := requestWithIdentity("POST", "/api/users", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already exists")
	})

	t.Run("an unknown role is a bad request", func(t *testing.T) {
		orgID := uuid.New()
		roleID := uuid.New()

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		roles.On("GetRole", orgID, roleID).Return(nil, store.ErrRoleNotFound)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleCreateUser(users, roles, people)
		body := `{"email": "bob@acme.example", "display_name": "Bob Jones", "role_id": "` + roleID.String() + `"}`
		req := requestWithIdentity("POST", "/api/users", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown role")
		users.AssertNotCalled(t, "CreateUser", mock.Anything)
	})
}

// TestUpdateUser covers the role escalation guard and the last admin rule
func TestUpdateUser(t *testing.T) {
	t.Run("changing roles needs the admin capability", func(t *testing.T) {
		orgID := uuid.New()
		oldRole := uuid.New()
		newRole := uuid.New()
		user := &model.User{ID: uuid.New(), OrgID: orgID, Email: "bob@acme.example", DisplayName: "Bob Jones", RoleID: oldRole}

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		users.On("GetUser", orgID, user.ID).Return(user, nil)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleUpdateUser(users, roles, people)
		body := `{"display_name": "Bob Jones", "role_id": "` + newRole.String() + `"}`
		req := requestWithIdentity("PUT", "/api/users/"+user.ID.String(), body, id)
		req = withMuxVars(req, map[string]string{"id": user.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "org:admin")
		users.AssertNotCalled(t, "UpdateUser", mock.Anything)
	})

	t.Run("an admin can change roles", func(t *testing.T) {
		orgID := uuid.New()
		user := &model.User{ID: uuid.New(), OrgID: orgID, Email: "bob@acme.example", DisplayName: "Bob Jones", RoleID: uuid.New()}
		newRole := &model.Role{ID: uuid.New(), OrgID: orgID, Name: "manager"}

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		users.On("GetUser", orgID, user.ID).Return(user, nil)
		roles.On("GetRole", orgID, newRole.ID).Return(newRole, nil)
		users.On("UpdateUser", user).Return(nil)

		id := testIdentity(orgID, model.CapUsersWrite, model.CapOrgAdmin)

		handler := handleUpdateUser(users, roles, people)
		body := `{"display_name": "Bob Jones", "role_id": "` + newRole.ID.String() + `"}`
		req := requestWithIdentity("PUT", "/api/users/"+user.ID.String(), body, id)
		req = withMuxVars(req, map[string]string{"id": user.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, newRole.ID, user.RoleID)
	})

	t.Run("the same role does not need admin", func(t *testing.T) {
		orgID := uuid.New()
		role := &model.Role{ID: uuid.New(), OrgID: orgID, Name: "member"}
		user := &model.User{ID: uuid.New(), OrgID: orgID, Email: "bob@acme.example", DisplayName: "Bob", RoleID: role.ID}

		users := NewMockUsersStore()
		roles := NewMockRolesStore()
		people := NewMockPeopleStore()
		users.On("GetUser", orgID, user.ID).Return(user, nil)
		roles.On("GetRole", orgID, role.ID).Return(role, nil)
		users.On("UpdateUser", user).Return(nil)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleUpdateUser(users, roles, people)
		body := `{"display_name": "Bob Jones", "role_id": "` + role.ID.String() + `"}`
		req := requestWithIdentity("PUT", "/api/users/"+user.ID.String(), body, id)
		req = withMuxVars(req, map[string]string{"id": user.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Bob Jones", user.DisplayName)
	})
}

// TestDisableUser covers disabling and the last admin rule
func TestDisableUser(t *testing.T) {
	disableRequest := func(user *model.User, id *identity.Identity) *http.Request {
		req := requestWithIdentity("POST", "/api/users/"+user.ID.String()+"/disable", "", id)
		return withMuxVars(req, map[string]string{"id": user.ID.String()})
	}

	t.Run("disabling flips the flag", func(t *testing.T) {
		orgID := uuid.New()
		user := &model.User{ID: uuid.New(), OrgID: orgID, Email: "bob@acme.example", DisplayName: "Bob Jones", RoleID: uuid.New()}

		users := NewMockUsersStore()
		users.On("GetUser", orgID, user.ID).Return(user, nil)
		users.On("UpdateUser", user).Return(nil)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleDisableUser(users)
		w := httptest.NewRecorder()
		handler(w, disableRequest(user, id))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, user.Disabled)
	})

	t.Run("the last active admin cannot be disabled", func(t *testing.T) {
		orgID := uuid.New()
		user := &model.User{ID: uuid.New(), OrgID: orgID, Email: "admin@acme.example", DisplayName: "Admin", RoleID: uuid.New()}

		users := NewMockUsersStore()
		users.On("GetUser", orgID, user.ID).Return(user, nil)
		users.On("UpdateUser", user).Return(store.ErrLastAdmin)

		id := testIdentity(orgID, model.CapUsersWrite)

		handler := handleDisableUser(users)
		w := httptest.NewRecorder()
		handler(w, disableRequest(user, id))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "at least one active admin")
	})
}

// TestListRoles feeds the role picker
func TestListRoles(t *testing.T) {
	orgID := uuid.New()
	list := []model.Role{
		{ID: uuid.New(), OrgID: orgID, Name: "admin"},
		{ID: uuid.New(), OrgID: orgID, Name: "manager"},
		{ID: uuid.New(), OrgID: orgID, Name: "member"},
	}

	roles := NewMockRolesStore()
	roles.On("ListRoles", orgID).Return(list, nil)

	id := testIdentity(orgID, model.CapUsersRead)

	handler := handleListRoles(roles)
	req := requestWithIdentity("GET", "/api/users/roles", "", id)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var decoded []model.Role
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Len(t, decoded, 3)
}
