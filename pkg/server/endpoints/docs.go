package endpoints

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// RegisterDocsEndpoints registers the document, version and rollout endpoints
func RegisterDocsEndpoints(s *server.Server) {
	docs := s.Docs
	people := s.People
	cfg := s.Config

	router := s.Router.PathPrefix("/api/docs").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	// GET /api/docs - List documents with filters and paging
	router.Handle("", requireCap(model.CapDocsRead, handleListDocuments(docs, cfg))).Methods("GET")

	// POST /api/docs - Create a document
	router.Handle("", requireCap(model.CapDocsWrite, handleCreateDocument(docs))).Methods("POST")

	// Rollout routes come before {id} so "rollouts" never parses as a
	// document ID.

	// GET /api/docs/rollouts - List rollouts, optionally for one document
	router.Handle("/rollouts", requireCap(model.CapDocsRead, handleListRollouts(docs))).Methods("GET")

	// POST /api/docs/rollouts - Start a rollout of a published document
	router.Handle("/rollouts", requireCap(model.CapDocsPublish, handleCreateRollout(docs))).Methods("POST")

	// GET /api/docs/rollouts/{id} - Fetch one rollout
	router.Handle("/rollouts/{id}", requireCap(model.CapDocsRead, handleGetRollout(docs))).Methods("GET")

	// POST /api/docs/rollouts/{id}/cancel - Cancel a rollout
	router.Handle("/rollouts/{id}/cancel", requireCap(model.CapDocsPublish, handleCancelRollout(docs))).Methods("POST")

	// POST /api/docs/rollouts/{id}/ack - Acknowledge on behalf of the caller
	router.Handle("/rollouts/{id}/ack", requireCap(model.CapDocsAcknowledge, handleAcknowledgeRollout(docs, people))).Methods("POST")

	// GET /api/docs/rollouts/{id}/progress - Acknowledgment progress
	router.Handle("/rollouts/{id}/progress", requireCap(model.CapDocsRead, handleRolloutProgress(docs))).Methods("GET")

	// GET /api/docs/{id} - Fetch one document
	router.Handle("/{id}", requireCap(model.CapDocsRead, handleGetDocument(docs))).Methods("GET")

	// PUT /api/docs/{id} - Update a document
	router.Handle("/{id}", requireCap(model.CapDocsWrite, handleUpdateDocument(docs))).Methods("PUT")

	// DELETE /api/docs/{id} - Soft-delete a document
	router.Handle("/{id}", requireCap(model.CapDocsWrite, handleDeleteDocument(docs))).Methods("DELETE")

	// POST /api/docs/{id}/versions - Append a new version
	router.Handle("/{id}/versions", requireCap(model.CapDocsWrite, handleCreateVersion(docs))).Methods("POST")

	// GET /api/docs/{id}/versions - List versions, newest first
	router.Handle("/{id}/versions", requireCap(model.CapDocsRead, handleListVersions(docs))).Methods("GET")

	// GET /api/docs/{id}/versions/{n}/html - Version body rendered as HTML
	router.Handle("/{id}/versions/{n:[0-9]+}/html", requireCap(model.CapDocsRead, handleVersionHTML(docs))).Methods("GET")

	// POST /api/docs/{id}/publish - Publish one version
	router.Handle("/{id}/publish", requireCap(model.CapDocsPublish, handlePublishDocument(docs))).Methods("POST")
}

// documentRequest is the payload for creating and updating a document.
// Status published is only reachable through the publish endpoint.
type documentRequest struct {
	Title    string     `json:"title" validate:"required"`
	Slug     string     `json:"slug" validate:"required"`
	Category string     `json:"category"`
	Status   string     `json:"status" validate:"omitempty,oneof=draft archived"`
	OwnerID  *uuid.UUID `json:"owner_id"`
}

type versionRequest struct {
	Body       string `json:"body" validate:"required"`
	ChangeNote string `json:"change_note"`
}

type publishRequest struct {
	Version int `json:"version" validate:"required,min=1"`
}

type rolloutRequest struct {
	DocumentID uuid.UUID  `json:"document_id" validate:"required"`
	TeamID     *uuid.UUID `json:"team_id"`
	DueAt      *time.Time `json:"due_at"`
}

func handleListDocuments(docs store.DocsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		filter := store.DocumentFilter{
			Search:   r.URL.Query().Get("q"),
			Status:   r.URL.Query().Get("status"),
			Category: r.URL.Query().Get("category"),
		}
		filter.Limit, filter.Offset = parsePagination(r, cfg)

		total, err := docs.CountDocuments(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to count documents")
			return
		}
		list, err := docs.ListDocuments(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list documents")
			return
		}

		setTotalCount(w, total)
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateDocument(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req documentRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		document := &model.Document{
			ID:       uuid.New(),
			OrgID:    id.OrgID,
			Title:    req.Title,
			Slug:     req.Slug,
			Category: req.Category,
			Status:   model.DocumentDraft,
			OwnerID:  req.OwnerID,
		}
		if err := docs.CreateDocument(document); err != nil {
			if err == store.ErrDocumentSlugTaken {
				respondWithError(w, http.StatusConflict, "a document with this slug already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create document")
			return
		}

		respondWithJSON(w, http.StatusCreated, document)
	}
}

func handleGetDocument(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, document)
	}
}

func handleUpdateDocument(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		var req documentRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		document.Title = req.Title
		document.Slug = req.Slug
		document.Category = req.Category
		document.OwnerID = req.OwnerID
		if req.Status != "" {
			document.Status = req.Status
		}

		if err := docs.UpdateDocument(document); err != nil {
			if err == store.ErrDocumentSlugTaken {
				respondWithError(w, http.StatusConflict, "a document with this slug already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update document")
			return
		}

		respondWithJSON(w, http.StatusOK, document)
	}
}

func handleDeleteDocument(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		if err := docs.DeleteDocument(document); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete document")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCreateVersion(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		var req versionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		version, err := docs.CreateVersion(document, req.Body, req.ChangeNote, id.Email)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create version")
			return
		}

		respondWithJSON(w, http.StatusCreated, version)
	}
}

func handleListVersions(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		versions, err := docs.ListVersions(document.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list versions")
			return
		}

		respondWithJSON(w, http.StatusOK, versions)
	}
}

func handleVersionHTML(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		number, err := strconv.Atoi(mux.Vars(r)["n"])
		if err != nil {
			respondWithError(w, http.StatusNotFound, "version not found")
			return
		}
		version, err := docs.GetVersion(document.ID, number)
		if err != nil {
			if err == store.ErrVersionNotFound {
				respondWithError(w, http.StatusNotFound, "version not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch version")
			return
		}

		var buf bytes.Buffer
		if err := goldmark.New().Convert([]byte(version.Body), &buf); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to render version")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

func handlePublishDocument(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		document, ok := fetchDocument(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		var req publishRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		version, err := docs.GetVersion(document.ID, req.Version)
		if err != nil {
			if err == store.ErrVersionNotFound {
				respondWithError(w, http.StatusNotFound, "version not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch version")
			return
		}

		if err := docs.PublishDocument(document, version); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to publish document")
			return
		}

		audit.Log(audit.DocumentEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			Document:  document.Slug,
			Operation: "publish",
			Detail:    "v" + strconv.Itoa(version.Version),
		})

		respondWithJSON(w, http.StatusOK, document)
	}
}

func handleListRollouts(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		documentID, err := queryUUID(r, "document")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid document filter")
			return
		}

		rollouts, err := docs.ListRollouts(id.OrgID, documentID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list rollouts")
			return
		}

		respondWithJSON(w, http.StatusOK, rollouts)
	}
}

func handleCreateRollout(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req rolloutRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		document, err := docs.GetDocument(id.OrgID, req.DocumentID)
		if err != nil {
			if err == store.ErrDocumentNotFound {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch document")
			return
		}
		if document.Status != model.DocumentPublished || document.CurrentVersionID == nil {
			respondWithError(w, http.StatusConflict, "only published documents can be rolled out")
			return
		}

		rollout := &model.Rollout{
			ID:         uuid.New(),
			OrgID:      id.OrgID,
			DocumentID: document.ID,
			VersionID:  *document.CurrentVersionID,
			TeamID:     req.TeamID,
			Status:     model.RolloutActive,
			DueAt:      req.DueAt,
			CreatedBy:  id.Email,
		}
		if err := docs.CreateRollout(rollout); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create rollout")
			return
		}

		audience := "the whole organization"
		if req.TeamID != nil {
			audience = "team " + req.TeamID.String()
		}
		audit.Log(audit.DocumentEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			Document:  document.Slug,
			Operation: "rollout",
			Detail:    audience,
		})

		respondWithJSON(w, http.StatusCreated, rollout)
	}
}

func handleGetRollout(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		rollout, ok := fetchRollout(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, rollout)
	}
}

func handleCancelRollout(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		rollout, ok := fetchRollout(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		if rollout.Status != model.RolloutActive {
			respondWithError(w, http.StatusConflict, "rollout is not active")
			return
		}

		rollout.Status = model.RolloutCancelled
		if err := docs.UpdateRollout(rollout); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to cancel rollout")
			return
		}

		respondWithJSON(w, http.StatusOK, rollout)
	}
}

func handleAcknowledgeRollout(docs store.DocsStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		rollout, ok := fetchRollout(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		if id.PersonID == nil {
			respondWithError(w, http.StatusForbidden, "account has no linked person record")
			return
		}
		person, err := people.GetPerson(id.OrgID, *id.PersonID)
		if err != nil {
			respondWithError(w, http.StatusForbidden, "account has no linked person record")
			return
		}
		if rollout.TeamID != nil && (person.TeamID == nil || *person.TeamID != *rollout.TeamID) {
			respondWithError(w, http.StatusForbidden, "person is outside the rollout audience")
			return
		}

		ack, created, err := docs.Acknowledge(rollout, person.ID)
		if err != nil {
			if err == store.ErrRolloutClosed {
				respondWithError(w, http.StatusConflict, "rollout is closed")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to acknowledge rollout")
			return
		}

		if created {
			audit.Log(audit.DocumentEvent{
				OrgID:     id.OrgID.String(),
				Actor:     id.Email,
				Document:  rollout.DocumentID.String(),
				Operation: "acknowledge",
			})
			completeRolloutIfDone(docs, rollout)
			respondWithJSON(w, http.StatusCreated, ack)
			return
		}
		respondWithJSON(w, http.StatusOK, ack)
	}
}

func handleRolloutProgress(docs store.DocsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		rollout, ok := fetchRollout(w, r, docs, id.OrgID)
		if !ok {
			return
		}

		progress, err := docs.RolloutProgress(rollout)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to compute rollout progress")
			return
		}

		respondWithJSON(w, http.StatusOK, progress)
	}
}

func fetchDocument(w http.ResponseWriter, r *http.Request, docs store.DocsStore, orgID uuid.UUID) (*model.Document, bool) {
	documentID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "document not found")
		return nil, false
	}

	document, err := docs.GetDocument(orgID, documentID)
	if err != nil {
		if err == store.ErrDocumentNotFound {
			respondWithError(w, http.StatusNotFound, "document not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch document")
		return nil, false
	}
	return document, true
}

func fetchRollout(w http.ResponseWriter, r *http.Request, docs store.DocsStore, orgID uuid.UUID) (*model.Rollout, bool) {
	rolloutID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "rollout not found")
		return nil, false
	}

	rollout, err := docs.GetRollout(orgID, rolloutID)
	if err != nil {
		if err == store.ErrRolloutNotFound {
			respondWithError(w, http.StatusNotFound, "rollout not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch rollout")
		return nil, false
	}
	return rollout, true
}

// completeRolloutIfDone flips a rollout to completed once everyone in the
// audience has acknowledged. Failures are ignored; the next ack or a manual
// pass will settle it.
func completeRolloutIfDone(docs store.DocsStore, rollout *model.Rollout) {
	progress, err := docs.RolloutProgress(rollout)
	if err != nil || progress.Total == 0 || progress.Acknowledged < progress.Total {
		return
	}
	rollout.Status = model.RolloutCompleted
	_ = docs.UpdateRollout(rollout)
}
