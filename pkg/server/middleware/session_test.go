package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// fakeUsers serves user rows by ID for the authenticator.
type fakeUsers struct {
	users map[uuid.UUID]model.User
}

var _ store.UsersStore = (*fakeUsers)(nil)

func (f *fakeUsers) GetUser(orgID, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok || user.OrgID != orgID {
		return nil, store.ErrUserNotFound
	}
	out := user
	return &out, nil
}

func (f *fakeUsers) ListUsers(orgID uuid.UUID) ([]model.User, error) { return nil, nil }

func (f *fakeUsers) GetUserByEmail(email string) (*model.User, error) {
	return nil, store.ErrUserNotFound
}

func (f *fakeUsers) GetUserByAzureObjectID(objectID string) (*model.User, error) {
	return nil, store.ErrUserNotFound
}

func (f *fakeUsers) CreateUser(user *model.User) error { return nil }

func (f *fakeUsers) UpdateUser(user *model.User) error { return nil }

func (f *fakeUsers) SetPassword(userID uuid.UUID, passwordHash string) error { return nil }

func (f *fakeUsers) TouchLastLogin(userID uuid.UUID) error { return nil }

func (f *fakeUsers) CountActiveAdmins(orgID uuid.UUID) (int64, error) { return 1, nil }

func testUser(disabled bool) model.User {
	orgID := uuid.New()
	return model.User{
		ID:          uuid.New(),
		OrgID:       orgID,
		Email:       "alice@example.com",
		DisplayName: "Alice Doe",
		Disabled:    disabled,
		Role: &model.Role{
			ID:           uuid.New(),
			OrgID:        orgID,
			Name:         model.RoleMember,
			Capabilities: pq.StringArray{model.CapPeopleRead, model.CapDocsAcknowledge},
		},
	}
}

// sessionRequest builds a request carrying a loaded session with the given
// key/value pairs.
func sessionRequest(t *testing.T, sessions *scs.SessionManager, pairs map[string]string) *http.Request {
	t.Helper()

	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)
	for key, value := range pairs {
		sessions.Put(ctx, key, value)
	}

	req := httptest.NewRequest("GET", "/api/people", nil)
	req.RemoteAddr = "10.1.2.3:51234"
	return req.WithContext(ctx)
}

func TestMiddlewareNoSession(t *testing.T) {
	sessions := scs.New()
	auth := NewSessionAuthenticator(sessions, &fakeUsers{}, nil)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, sessions, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "authentication required"}`, rec.Body.String())
}

func TestMiddlewareValidSession(t *testing.T) {
	sessions := scs.New()
	user := testUser(false)
	auth := NewSessionAuthenticator(sessions, &fakeUsers{users: map[uuid.UUID]model.User{user.ID: user}}, nil)

	var got *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := sessionRequest(t, sessions, map[string]string{
		SessionUserKey: user.ID.String(),
		SessionOrgKey:  user.OrgID.String(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, user.OrgID, got.OrgID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, model.RoleMember, got.RoleName)
	assert.True(t, got.HasCapability(model.CapPeopleRead))
	assert.False(t, got.HasCapability(model.CapPeopleWrite))
	assert.Equal(t, "10.1.2.3", got.ClientIP())
}

func TestMiddlewareDisabledUser(t *testing.T) {
	sessions := scs.New()
	user := testUser(true)
	auth := NewSessionAuthenticator(sessions, &fakeUsers{users: map[uuid.UUID]model.User{user.ID: user}}, nil)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := sessionRequest(t, sessions, map[string]string{
		SessionUserKey: user.ID.String(),
		SessionOrgKey:  user.OrgID.String(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// The session is destroyed so the stale cookie cannot be replayed.
	assert.Empty(t, sessions.GetString(req.Context(), SessionUserKey))
}

func TestMiddlewareUnknownUser(t *testing.T) {
	sessions := scs.New()
	auth := NewSessionAuthenticator(sessions, &fakeUsers{}, nil)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := sessionRequest(t, sessions, map[string]string{
		SessionUserKey: uuid.New().String(),
		SessionOrgKey:  uuid.New().String(),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func identityRequest(id *identity.Identity) *http.Request {
	req := httptest.NewRequest("GET", "/api/assets", nil)
	return req.WithContext(identity.Set(req.Context(), id))
}

func TestRequireCapability(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("granted", func(t *testing.T) {
		handler := RequireCapability(model.CapAssetsRead)(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, identityRequest(&identity.Identity{Capabilities: []string{model.CapAssetsRead}}))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin implies everything", func(t *testing.T) {
		handler := RequireCapability(model.CapAssetsWrite)(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, identityRequest(&identity.Identity{Capabilities: []string{model.CapOrgAdmin}}))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing capability", func(t *testing.T) {
		handler := RequireCapability(model.CapAssetsWrite)(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, identityRequest(&identity.Identity{Capabilities: []string{model.CapAssetsRead}}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), model.CapAssetsWrite)
	})

	t.Run("no identity", func(t *testing.T) {
		handler := RequireCapability(model.CapAssetsRead)(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/assets", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
