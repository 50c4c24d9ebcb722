package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// TestCreateDocument covers draft creation and slug conflicts
func TestCreateDocument(t *testing.T) {
	t.Run("documents start as drafts", func(t *testing.T) {
		orgID := uuid.New()

		docs := NewMockDocsStore()
		docs.On("CreateDocument", mock.Anything).Return(nil)

		id := testIdentity(orgID, model.CapDocsWrite)

		handler := handleCreateDocument(docs)
		body := `{"title": "Remote Work Policy", "slug": "remote-work-policy"}`
		req := requestWithIdentity("POST", "/api/docs", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created model.Document
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, model.DocumentDraft, created.Status)
		assert.Equal(t, orgID, created.OrgID)
	})

	t.Run("a duplicate slug is a conflict", func(t *testing.T) {
		orgID := uuid.New()

		docs := NewMockDocsStore()
		docs.On("CreateDocument", mock.Anything).Return(store.ErrDocumentSlugTaken)

		id := testIdentity(orgID, model.CapDocsWrite)

		handler := handleCreateDocument(docs)
		body := `{"title": "Remote Work Policy", "slug": "remote-work-policy"}`
		req := requestWithIdentity("POST", "/api/docs", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

// TestPublishDocument covers version lookup and publication
func TestPublishDocument(t *testing.T) {
	t.Run("publishes the requested version", func(t *testing.T) {
		orgID := uuid.New()
		document := &model.Document{ID: uuid.New(), OrgID: orgID, Title: "Remote Work Policy", Slug: "remote-work-policy", Status: model.DocumentDraft}
		version := &model.DocumentVersion{ID: uuid.New(), OrgID: orgID, DocumentID: document.ID, Version: 2, Body: "updated body"}

		docs := NewMockDocsStore()
		docs.On("GetDocument", orgID, document.ID).Return(document, nil)
		docs.On("GetVersion", document.ID, 2).Return(version, nil)
		docs.On("PublishDocument", document, version).Return(nil)

		id := testIdentity(orgID, model.CapDocsPublish)

		handler := handlePublishDocument(docs)
		req := requestWithIdentity("POST", "/api/docs/"+document.ID.String()+"/publish", `{"version": 2}`, id)
		req = withMuxVars(req, map[string]string{"id": document.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		docs.AssertCalled(t, "PublishDocument", document, version)
	})

	t.Run("an unknown version is not found", func(t *testing.T) {
		orgID := uuid.New()
		document := &model.Document{ID: uuid.New(), OrgID: orgID, Title: "Remote Work Policy", Slug: "remote-work-policy"}

		docs := NewMockDocsStore()
		docs.On("GetDocument", orgID, document.ID).Return(document, nil)
		docs.On("GetVersion", document.ID, 9).Return(nil, store.ErrVersionNotFound)

		id := testIdentity(orgID, model.CapDocsPublish)

		handler := handlePublishDocument(docs)
		req := requestWithIdentity("POST", "/api/docs/"+document.ID.String()+"/publish", `{"version": 9}`, id)
		req = withMuxVars(req, map[string]string{"id": document.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		docs.AssertNotCalled(t, "PublishDocument", mock.Anything, mock.Anything)
	})
}

// TestVersionHTML renders a Markdown body through goldmark
func TestVersionHTML(t *testing.T) {
	orgID := uuid.New()
	document := &model.Document{ID: uuid.New(), OrgID: orgID, Title: "Handbook", Slug: "handbook"}
	version := &model.DocumentVersion{ID: uuid.New(), DocumentID: document.ID, Version: 1, Body: "# Welcome\n\nRead this first."}

	docs := NewMockDocsStore()
	docs.On("GetDocument", orgID, document.ID).Return(document, nil)
	docs.On("GetVersion", document.ID, 1).Return(version, nil)

	id := testIdentity(orgID, model.CapDocsRead)

	handler := handleVersionHTML(docs)
	req := requestWithIdentity("GET", "/api/docs/"+document.ID.String()+"/versions/1/html", "", id)
	req = withMuxVars(req, map[string]string{"id": document.ID.String(), "n": "1"})
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1>Welcome</h1>")
	assert.Contains(t, w.Body.String(), "<p>Read this first.</p>")
}

// TestCreateRollout covers the published-only guard and version pinning
func TestCreateRollout(t *testing.T) {
	t.Run("only published documents can be rolled out", func(t *testing.T) {
		orgID := uuid.New()
		document := &model.Document{ID: uuid.New(), OrgID: orgID, Title: "Draft Policy", Slug: "draft-policy", Status: model.DocumentDraft}

		docs := NewMockDocsStore()
		docs.On("GetDocument", orgID, document.ID).Return(document, nil)

		id := testIdentity(orgID, model.CapDocsPublish)

		handler := handleCreateRollout(docs)
		body := `{"document_id": "` + document.ID.String() + `"}`
		req := requestWithIdentity("POST", "/api/docs/rollouts", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "only published documents")
		docs.AssertNotCalled(t, "CreateRollout", mock.Anything)
	})

	t.Run("pins the document's current version", func(t *testing.T) {
		orgID := uuid.New()
		currentVersion := uuid.New()
		document := &model.Document{
			ID:               uuid.New(),
			OrgID:            orgID,
			Title:            "Remote Work Policy",
			Slug:             "remote-work-policy",
			Status:           model.DocumentPublished,
			CurrentVersionID: &currentVersion,
		}

		docs := NewMockDocsStore()
		docs.On("GetDocument", orgID, document.ID).Return(document, nil)
		docs.On("CreateRollout", mock.Anything).Return(nil)

		id := testIdentity(orgID, model.CapDocsPublish)

		handler := handleCreateRollout(docs)
		body := `{"document_id": "` + document.ID.String() + `"}`
		req := requestWithIdentity("POST", "/api/docs/rollouts", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var rollout model.Rollout
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rollout))
		assert.Equal(t, currentVersion, rollout.VersionID)
		assert.Equal(t, model.RolloutActive, rollout.Status)
		assert.Equal(t, id.Email, rollout.CreatedBy)
	})
}

// ackFixture builds an active org-wide rollout and a caller linked to a
// person inside the audience.
func ackFixture(orgID uuid.UUID) (*model.Rollout, *model.Person) {
	rollout := &model.Rollout{
		ID:         uuid.New(),
		OrgID:      orgID,
		DocumentID: uuid.New(),
		VersionID:  uuid.New(),
		Status:     model.RolloutActive,
		CreatedBy:  "admin@acme.example",
	}
	person := &model.Person{ID: uuid.New(), OrgID: orgID, FirstName: "Alice", LastName: "Smith", Email: "alice@acme.example"}
	return rollout, person
}

// TestAcknowledgeRollout covers audience checks, idempotency and
// auto-completion
func TestAcknowledgeRollout(t *testing.T) {
	ackRequest := func(rollout *model.Rollout, id *identity.Identity) *http.Request {
		req := requestWithIdentity("POST", "/api/docs/rollouts/"+rollout.ID.String()+"/ack", "", id)
		return withMuxVars(req, map[string]string{"id": rollout.ID.String()})
	}

	t.Run("the first acknowledgment is created", func(t *testing.T) {
		orgID := uuid.New()
		rollout, person := ackFixture(orgID)
		ack := &model.Acknowledgment{ID: uuid.New(), OrgID: orgID, RolloutID: rollout.ID, PersonID: person.ID, AcknowledgedAt: time.Now()}

		docs := NewMockDocsStore()
		people := NewMockPeopleStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)
		people.On("GetPerson", orgID, person.ID).Return(person, nil)
		docs.On("Acknowledge", rollout, person.ID).Return(ack, true, nil)
		docs.On("RolloutProgress", rollout).Return(&store.RolloutProgress{Total: 5, Acknowledged: 1}, nil)

		id := testIdentity(orgID, model.CapDocsAcknowledge)
		id.PersonID = &person.ID

		handler := handleAcknowledgeRollout(docs, people)
		w := httptest.NewRecorder()
		handler(w, ackRequest(rollout, id))

		assert.Equal(t, http.StatusCreated, w.Code)
		docs.AssertNotCalled(t, "UpdateRollout", mock.Anything)
	})

	t.Run("a repeat acknowledgment returns the existing record", func(t *testing.T) {
		orgID := uuid.New()
		rollout, person := ackFixture(orgID)
		ack := &model.Acknowledgment{ID: uuid.New(), OrgID: orgID, RolloutID: rollout.ID, PersonID: person.ID}

		docs := NewMockDocsStore()
		people := NewMockPeopleStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)
		people.On("GetPerson", orgID, person.ID).Return(person, nil)
		docs.On("Acknowledge", rollout, person.ID).Return(ack, false, nil)

		id := testIdentity(orgID, model.CapDocsAcknowledge)
		id.PersonID = &person.ID

		handler := handleAcknowledgeRollout(docs, people)
		w := httptest.NewRecorder()
		handler(w, ackRequest(rollout, id))

		assert.Equal(t, http.StatusOK, w.Code)
		docs.AssertNotCalled(t, "RolloutProgress", mock.Anything)
	})

	t.Run("the final acknowledgment completes the rollout", func(t *testing.T) {
		orgID := uuid.New()
		rollout, person := ackFixture(orgID)
		ack := &model.Acknowledgment{ID: uuid.New(), OrgID: orgID, RolloutID: rollout.ID, PersonID: person.ID}

		docs := NewMockDocsStore()
		people := NewMockPeopleStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)
		people.On("GetPerson", orgID, person.ID).Return(person, nil)
		docs.On("Acknowledge", rollout, person.ID).Return(ack, true, nil)
		docs.On("RolloutProgress", rollout).Return(&store.RolloutProgress{Total: 2, Acknowledged: 2}, nil)
		docs.On("UpdateRollout", rollout).Return(nil)

		id := testIdentity(orgID, model.CapDocsAcknowledge)
		id.PersonID = &person.ID

		handler := handleAcknowledgeRollout(docs, people)
		w := httptest.NewRecorder()
		handler(w, ackRequest(rollout, id))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, model.RolloutCompleted, rollout.Status)
		docs.AssertCalled(t, "UpdateRollout", rollout)
	})

	t.Run("accounts without a person record cannot acknowledge", func(t *testing.T) {
		orgID := uuid.New()
		rollout, _ := ackFixture(orgID)

		docs := NewMockDocsStore()
		people := NewMockPeopleStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)

		id := testIdentity(orgID, model.CapDocsAcknowledge)

		handler := handleAcknowledgeRollout(docs, people)
		w := httptest.NewRecorder()
		handler(w, ackRequest(rollout, id))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "no linked person record")
	})

	t.Run("persons outside a team audience are rejected", func(t *testing.T) {
		orgID := uuid.New()
		rollout, person := ackFixture(orgID)
		teamID := uuid.New()
		rollout.TeamID = &teamID

		docs := NewMockDocsStore()
		people := NewMockPeopleStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)
		people.On("GetPerson", orgID, person.ID).Return(person, nil)

		id := testIdentity(orgID, model.CapDocsAcknowledge)
		id.PersonID = &person.ID

		handler := handleAcknowledgeRollout(docs, people)
		w := httptest.NewRecorder()
		handler(w, ackRequest(rollout, id))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "outside the rollout audience")
		docs.AssertNotCalled(t, "Acknowledge", mock.Anything, mock.Anything)
	})

	t.Run("closed rollouts conflict", func(t *testing.T) {
		orgID := uuid.New()
		rollout, person := ackFixture(orgID)

		docs := NewMockDocsStore()
		people := NewMockPeopleStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)
		people.On("GetPerson", orgID, person.ID).Return(person, nil)
		docs.On("Acknowledge", rollout, person.ID).Return(nil, false, store.ErrRolloutClosed)

		id := testIdentity(orgID, model.CapDocsAcknowledge)
		id.PersonID = &person.ID

		handler := handleAcknowledgeRollout(docs, people)
		w := httptest.NewRecorder()
		handler(w, ackRequest(rollout, id))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

// TestCancelRollout covers the active-only cancel guard
func TestCancelRollout(t *testing.T) {
	t.Run("cancels an active rollout", func(t *testing.T) {
		orgID := uuid.New()
		rollout, _ := ackFixture(orgID)

		docs := NewMockDocsStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)
		docs.On("UpdateRollout", rollout).Return(nil)

		id := testIdentity(orgID, model.CapDocsPublish)

		handler := handleCancelRollout(docs)
		req := requestWithIdentity("POST", "/api/docs/rollouts/"+rollout.ID.String()+"/cancel", "", id)
		req = withMuxVars(req, map[string]string{"id": rollout.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.RolloutCancelled, rollout.Status)
	})

	t.Run("a completed rollout cannot be cancelled", func(t *testing.T) {
		orgID := uuid.New()
		rollout, _ := ackFixture(orgID)
		rollout.Status = model.RolloutCompleted

		docs := NewMockDocsStore()
		docs.On("GetRollout", orgID, rollout.ID).Return(rollout, nil)

		id := testIdentity(orgID, model.CapDocsPublish)

		handler := handleCancelRollout(docs)
		req := requestWithIdentity("POST", "/api/docs/rollouts/"+rollout.ID.String()+"/cancel", "", id)
		req = withMuxVars(req, map[string]string{"id": rollout.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		docs.AssertNotCalled(t, "UpdateRollout", mock.Anything)
	})
}
