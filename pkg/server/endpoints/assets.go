package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/devicesync"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// RegisterAssetsEndpoints registers the hardware inventory endpoints
func RegisterAssetsEndpoints(s *server.Server) {
	assets := s.Assets
	people := s.People
	cfg := s.Config

	router := s.Router.PathPrefix("/api/assets").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	// GET /api/assets - List assets with filters and paging
	router.Handle("", requireCap(model.CapAssetsRead, handleListAssets(assets, cfg))).Methods("GET")

	// POST /api/assets - Create an asset
	router.Handle("", requireCap(model.CapAssetsWrite, handleCreateAsset(assets))).Methods("POST")

	// Fixed segments before the {id} routes so they are not swallowed by
	// the UUID pattern.

	// GET /api/assets/categories - List categories
	router.Handle("/categories", requireCap(model.CapAssetsRead, handleListAssetCategories(assets))).Methods("GET")

	// POST /api/assets/categories - Create a category
	router.Handle("/categories", requireCap(model.CapAssetsWrite, handleCreateAssetCategory(assets))).Methods("POST")

	// DELETE /api/assets/categories/{id} - Delete a category
	router.Handle("/categories/{id}", requireCap(model.CapAssetsWrite, handleDeleteAssetCategory(assets))).Methods("DELETE")

	// POST /api/assets/sync - Run the Intune device reconciliation
	router.Handle("/sync", requireCap(model.CapSyncRun, handleAssetSync(s.Syncer))).Methods("POST")

	// GET /api/assets/{id} - Fetch one asset
	router.Handle("/{id}", requireCap(model.CapAssetsRead, handleGetAsset(assets))).Methods("GET")

	// PUT /api/assets/{id} - Update an asset
	router.Handle("/{id}", requireCap(model.CapAssetsWrite, handleUpdateAsset(assets))).Methods("PUT")

	// DELETE /api/assets/{id} - Soft-delete an asset
	router.Handle("/{id}", requireCap(model.CapAssetsWrite, handleDeleteAsset(assets))).Methods("DELETE")

	// POST /api/assets/{id}/assign - Hand the asset to a person
	router.Handle("/{id}/assign", requireCap(model.CapAssetsWrite, handleAssignAsset(assets, people))).Methods("POST")

	// POST /api/assets/{id}/return - Take the asset back
	router.Handle("/{id}/return", requireCap(model.CapAssetsWrite, handleReturnAsset(assets))).Methods("POST")

	// GET /api/assets/{id}/events - Lifecycle log
	router.Handle("/{id}/events", requireCap(model.CapAssetsRead, handleAssetEvents(assets))).Methods("GET")

	// GET /api/assets/{id}/assignments - Custody history
	router.Handle("/{id}/assignments", requireCap(model.CapAssetsRead, handleAssetAssignments(assets))).Methods("GET")
}

// assetRequest is the payload for creating and updating an asset. An empty
// tag on create is filled with the next free IT-<NNNN> tag.
type assetRequest struct {
	Tag           string     `json:"tag"`
	Name          string     `json:"name" validate:"required"`
	CategoryID    *uuid.UUID `json:"category_id"`
	Status        string     `json:"status" validate:"omitempty,oneof=available assigned in_repair retired lost"`
	SerialNumber  string     `json:"serial_number"`
	Model         string     `json:"model"`
	Manufacturer  string     `json:"manufacturer"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	WarrantyUntil *time.Time `json:"warranty_until"`
	Notes         string     `json:"notes"`
}

func (req *assetRequest) apply(a *model.Asset) {
	a.Tag = req.Tag
	a.Name = req.Name
	a.CategoryID = req.CategoryID
	a.Status = req.Status
	a.SerialNumber = req.SerialNumber
	a.Model = req.Model
	a.Manufacturer = req.Manufacturer
	a.PurchaseDate = req.PurchaseDate
	a.WarrantyUntil = req.WarrantyUntil
	a.Notes = req.Notes
}

type assignAssetRequest struct {
	PersonID uuid.UUID `json:"person_id" validate:"required"`
	Note     string    `json:"note"`
}

func handleListAssets(assets store.AssetsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		filter := store.AssetFilter{
			Search: r.URL.Query().Get("q"),
			Status: r.URL.Query().Get("status"),
		}
		var err error
		if filter.CategoryID, err = queryUUID(r, "category"); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid category filter")
			return
		}
		if filter.AssignedTo, err = queryUUID(r, "assignee"); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid assignee filter")
			return
		}
		filter.Limit, filter.Offset = parsePagination(r, cfg)

		total, err := assets.CountAssets(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to count assets")
			return
		}
		list, err := assets.ListAssets(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list assets")
			return
		}

		setTotalCount(w, total)
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req assetRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = model.AssetAvailable
		}
		if req.Tag == "" {
			tag, err := assets.NextAssetTag(id.OrgID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to allocate asset tag")
				return
			}
			req.Tag = tag
		}

		asset := &model.Asset{ID: uuid.New(), OrgID: id.OrgID}
		req.apply(asset)

		if err := assets.CreateAsset(asset); err != nil {
			if err == store.ErrAssetTagTaken {
				respondWithError(w, http.StatusConflict, "an asset with this tag already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create asset")
			return
		}

		recordAssetEvent(assets, asset, model.AssetEventCreated, id.Email, "")
		respondWithJSON(w, http.StatusCreated, asset)
	}
}

func handleGetAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, asset)
	}
}

func handleUpdateAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		var req assetRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = asset.Status
		}
		if req.Tag == "" {
			req.Tag = asset.Tag
		}

		previousStatus := asset.Status
		req.apply(asset)
		if err := assets.UpdateAsset(asset); err != nil {
			if err == store.ErrAssetTagTaken {
				respondWithError(w, http.StatusConflict, "an asset with this tag already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update asset")
			return
		}

		if asset.Status != previousStatus {
			recordAssetEvent(assets, asset, model.AssetEventStatusChanged, id.Email, previousStatus+" to "+asset.Status)
		} else {
			recordAssetEvent(assets, asset, model.AssetEventUpdated, id.Email, "")
		}
		respondWithJSON(w, http.StatusOK, asset)
	}
}

func handleDeleteAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		if err := assets.DeleteAsset(asset); err != nil {
			if err == store.ErrAssetAlreadyAssigned {
				respondWithError(w, http.StatusConflict, "asset is assigned; return it before deleting")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to delete asset")
			return
		}

		recordAssetEvent(assets, asset, model.AssetEventDeleted, id.Email, "")
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAssignAsset(assets store.AssetsStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		var req assignAssetRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if asset.Status == model.AssetRetired || asset.Status == model.AssetLost {
			respondWithError(w, http.StatusConflict, "a "+asset.Status+" asset cannot be assigned")
			return
		}

		person, err := people.GetPerson(id.OrgID, req.PersonID)
		if err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown person")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch person")
			return
		}

		assignment, err := assets.AssignAsset(asset, person.ID, id.Email, req.Note)
		if err != nil {
			if err == store.ErrAssetAlreadyAssigned {
				respondWithError(w, http.StatusConflict, "asset is already assigned")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to assign asset")
			return
		}

		recordAssetEvent(assets, asset, model.AssetEventAssigned, id.Email, "assigned to "+person.Email)
		audit.Log(audit.AssetAssignEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			AssetTag:  asset.Tag,
			Person:    person.Email,
			Operation: "assign",
		})

		respondWithJSON(w, http.StatusCreated, assignment)
	}
}

func handleReturnAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		assignment, err := assets.ActiveAssignment(asset.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch assignment")
			return
		}

		if err := assets.ReturnAsset(asset, id.Email); err != nil {
			if err == store.ErrAssetNotAssigned {
				respondWithError(w, http.StatusConflict, "asset is not assigned")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to return asset")
			return
		}

		holder := ""
		if assignment != nil && assignment.Person != nil {
			holder = assignment.Person.Email
		}
		recordAssetEvent(assets, asset, model.AssetEventReturned, id.Email, "")
		audit.Log(audit.AssetAssignEvent{
			OrgID:     id.OrgID.String(),
			Actor:     id.Email,
			AssetTag:  asset.Tag,
			Person:    holder,
			Operation: "return",
		})

		asset.Status = model.AssetAvailable
		respondWithJSON(w, http.StatusOK, asset)
	}
}

func handleAssetEvents(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		events, err := assets.AssetEvents(asset.ID, 200)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list asset events")
			return
		}

		respondWithJSON(w, http.StatusOK, events)
	}
}

func handleAssetAssignments(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		asset, ok := fetchAsset(w, r, assets, id.OrgID)
		if !ok {
			return
		}

		history, err := assets.AssignmentHistory(asset.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list assignments")
			return
		}

		respondWithJSON(w, http.StatusOK, history)
	}
}

func handleListAssetCategories(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		categories, err := assets.ListAssetCategories(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list categories")
			return
		}

		respondWithJSON(w, http.StatusOK, categories)
	}
}

type assetCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func handleCreateAssetCategory(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req assetCategoryRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		category, err := assets.GetOrCreateAssetCategory(id.OrgID, req.Name)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create category")
			return
		}

		respondWithJSON(w, http.StatusCreated, category)
	}
}

func handleDeleteAssetCategory(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		categoryID, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "category not found")
			return
		}

		category, err := assets.GetAssetCategory(id.OrgID, categoryID)
		if err != nil {
			if err == store.ErrAssetCategoryNotFound {
				respondWithError(w, http.StatusNotFound, "category not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch category")
			return
		}

		if err := assets.DeleteAssetCategory(category); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete category")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAssetSync(syncer *devicesync.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		if syncer == nil {
			respondWithError(w, http.StatusServiceUnavailable, "device sync is not configured")
			return
		}

		report, err := syncer.Run(r.Context(), id.OrgID, id.Email)
		if err != nil {
			audit.Log(audit.SyncEvent{
				OrgID:        id.OrgID.String(),
				Actor:        id.Email,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusBadGateway, "device sync failed: "+err.Error())
			return
		}

		audit.Log(audit.SyncEvent{
			OrgID:      id.OrgID.String(),
			Actor:      id.Email,
			Created:    report.Created,
			Updated:    report.Updated,
			Reassigned: report.Reassigned,
			Orphaned:   report.Orphaned,
			Unchanged:  report.Unchanged,
			Success:    true,
		})

		respondWithJSON(w, http.StatusOK, report)
	}
}

// fetchAsset loads the asset in the {id} path var, writing the error
// response when it cannot.
func fetchAsset(w http.ResponseWriter, r *http.Request, assets store.AssetsStore, orgID uuid.UUID) (*model.Asset, bool) {
	assetID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "asset not found")
		return nil, false
	}

	asset, err := assets.GetAsset(orgID, assetID)
	if err != nil {
		if err == store.ErrAssetNotFound {
			respondWithError(w, http.StatusNotFound, "asset not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch asset")
		return nil, false
	}
	return asset, true
}

// recordAssetEvent appends to the lifecycle log. Log failures do not fail
// the request; the write that matters has already happened.
func recordAssetEvent(assets store.AssetsStore, asset *model.Asset, eventType, actor, detail string) {
	_ = assets.RecordAssetEvent(model.NewAssetEvent(asset.OrgID, asset.ID, eventType, actor, detail))
}
