package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// RegisterSecurityEndpoints registers the compliance endpoints: frameworks,
// controls, the statement of applicability, risks and evidence
func RegisterSecurityEndpoints(s *server.Server) {
	security := s.Security

	router := s.Router.PathPrefix("/api/security").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	// Frameworks
	router.Handle("/frameworks", requireCap(model.CapSecurityRead, handleListFrameworks(security))).Methods("GET")
	router.Handle("/frameworks", requireCap(model.CapSecurityWrite, handleCreateFramework(security))).Methods("POST")
	router.Handle("/frameworks/{id}", requireCap(model.CapSecurityRead, handleGetFramework(security))).Methods("GET")
	router.Handle("/frameworks/{id}", requireCap(model.CapSecurityWrite, handleUpdateFramework(security))).Methods("PUT")
	router.Handle("/frameworks/{id}", requireCap(model.CapSecurityWrite, handleDeleteFramework(security))).Methods("DELETE")

	// Statement of applicability
	router.Handle("/frameworks/{id}/soa", requireCap(model.CapSecurityRead, handleFrameworkSoA(security))).Methods("GET")
	router.Handle("/frameworks/{id}/soa/{control_id}", requireCap(model.CapSecurityWrite, handleUpsertSoAItem(security))).Methods("PUT")

	// Controls
	router.Handle("/controls", requireCap(model.CapSecurityRead, handleListControls(security))).Methods("GET")
	router.Handle("/controls", requireCap(model.CapSecurityWrite, handleCreateControl(security))).Methods("POST")
	router.Handle("/controls/{id}", requireCap(model.CapSecurityRead, handleGetControl(security))).Methods("GET")
	router.Handle("/controls/{id}", requireCap(model.CapSecurityWrite, handleUpdateControl(security))).Methods("PUT")
	router.Handle("/controls/{id}", requireCap(model.CapSecurityWrite, handleDeleteControl(security))).Methods("DELETE")
	router.Handle("/controls/{id}/evidence", requireCap(model.CapSecurityRead, handleControlEvidence(security))).Methods("GET")

	// Risks; the matrix route sits before {id} so "matrix" never parses
	// as a risk ID
	router.Handle("/risks", requireCap(model.CapSecurityRead, handleListRisks(security))).Methods("GET")
	router.Handle("/risks", requireCap(model.CapSecurityWrite, handleCreateRisk(security))).Methods("POST")
	router.Handle("/risks/matrix", requireCap(model.CapSecurityRead, handleRiskMatrix(security))).Methods("GET")
	router.Handle("/risks/{id}", requireCap(model.CapSecurityRead, handleGetRisk(security))).Methods("GET")
	router.Handle("/risks/{id}", requireCap(model.CapSecurityWrite, handleUpdateRisk(security))).Methods("PUT")
	router.Handle("/risks/{id}", requireCap(model.CapSecurityWrite, handleDeleteRisk(security))).Methods("DELETE")

	// Evidence
	router.Handle("/evidence", requireCap(model.CapSecurityWrite, handleCreateEvidence(security))).Methods("POST")
	router.Handle("/evidence/{id}", requireCap(model.CapSecurityRead, handleGetEvidence(security))).Methods("GET")
	router.Handle("/evidence/{id}", requireCap(model.CapSecurityWrite, handleDeleteEvidence(security))).Methods("DELETE")
}

type frameworkRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

func (req *frameworkRequest) apply(f *model.Framework) {
	f.Code = req.Code
	f.Name = req.Name
	f.Description = req.Description
	f.Version = req.Version
}

// controlRequest is the payload for creating and updating a control.
// framework_id is required on create and ignored on update; controls do not
// move between frameworks.
type controlRequest struct {
	FrameworkID *uuid.UUID `json:"framework_id"`
	Code        string     `json:"code" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      string     `json:"status" validate:"omitempty,oneof=not_implemented in_progress implemented not_applicable"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

func (req *controlRequest) apply(c *model.Control) {
	c.Code = req.Code
	c.Title = req.Title
	c.Description = req.Description
	c.Category = req.Category
	c.Status = req.Status
	c.OwnerID = req.OwnerID
	c.ReviewedAt = req.ReviewedAt
}

type soaItemRequest struct {
	Applicable    *bool  `json:"applicable" validate:"required"`
	Justification string `json:"justification"`
}

type riskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Likelihood  int        `json:"likelihood" validate:"required,min=1,max=5"`
	Impact      int        `json:"impact" validate:"required,min=1,max=5"`
	Status      string     `json:"status" validate:"omitempty,oneof=open mitigating accepted closed"`
	Mitigation  string     `json:"mitigation"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	ReviewAt    *time.Time `json:"review_at"`
}

func (req *riskRequest) apply(risk *model.Risk) {
	risk.Title = req.Title
	risk.Description = req.Description
	risk.Category = req.Category
	risk.Likelihood = req.Likelihood
	risk.Impact = req.Impact
	risk.Status = req.Status
	risk.Mitigation = req.Mitigation
	risk.OwnerID = req.OwnerID
	risk.ReviewAt = req.ReviewAt
	risk.Recalculate()
}

type evidenceRequest struct {
	ControlID   uuid.UUID  `json:"control_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func handleListFrameworks(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		frameworks, err := security.ListFrameworks(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list frameworks")
			return
		}

		respondWithJSON(w, http.StatusOK, frameworks)
	}
}

func handleCreateFramework(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req frameworkRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		framework := &model.Framework{ID: uuid.New(), OrgID: id.OrgID}
		req.apply(framework)

		if err := security.CreateFramework(framework); err != nil {
			if err == store.ErrFrameworkCodeTaken {
				respondWithError(w, http.StatusConflict, "a framework with this code already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create framework")
			return
		}

		respondWithJSON(w, http.StatusCreated, framework)
	}
}

func handleGetFramework(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		framework, ok := fetchFramework(w, r, security, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, framework)
	}
}

func handleUpdateFramework(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		framework, ok := fetchFramework(w, r, security, id.OrgID)
		if !ok {
			return
		}

		var req frameworkRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		req.apply(framework)
		if err := security.UpdateFramework(framework); err != nil {
			if err == store.ErrFrameworkCodeTaken {
				respondWithError(w, http.StatusConflict, "a framework with this code already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update framework")
			return
		}

		respondWithJSON(w, http.StatusOK, framework)
	}
}

func handleDeleteFramework(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		framework, ok := fetchFramework(w, r, security, id.OrgID)
		if !ok {
			return
		}

		if err := security.DeleteFramework(framework); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete framework")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleFrameworkSoA(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		framework, ok := fetchFramework(w, r, security, id.OrgID)
		if !ok {
			return
		}

		rows, err := security.SoAForFramework(id.OrgID, framework.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to build statement of applicability")
			return
		}

		respondWithJSON(w, http.StatusOK, rows)
	}
}

func handleUpsertSoAItem(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		framework, ok := fetchFramework(w, r, security, id.OrgID)
		if !ok {
			return
		}

		controlID, err := pathID(r, "control_id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "control not found")
			return
		}
		control, err := security.GetControl(id.OrgID, controlID)
		if err != nil {
			if err == store.ErrControlNotFound {
				respondWithError(w, http.StatusNotFound, "control not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch control")
			return
		}
		if control.FrameworkID != framework.ID {
			respondWithError(w, http.StatusBadRequest, "control belongs to a different framework")
			return
		}

		var req soaItemRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		item := &model.SoAItem{
			ID:            uuid.New(),
			OrgID:         id.OrgID,
			FrameworkID:   framework.ID,
			ControlID:     control.ID,
			Applicable:    *req.Applicable,
			Justification: req.Justification,
			ReviewedBy:    id.Email,
			ReviewedAt:    time.Now().UTC(),
		}
		if err := security.UpsertSoAItem(item); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save statement of applicability item")
			return
		}

		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleListControls(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		frameworkID, err := queryUUID(r, "framework")
		if err != nil || frameworkID == nil {
			respondWithError(w, http.StatusBadRequest, "framework query parameter is required")
			return
		}

		controls, err := security.ListControls(id.OrgID, *frameworkID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list controls")
			return
		}

		respondWithJSON(w, http.StatusOK, controls)
	}
}

func handleCreateControl(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req controlRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.FrameworkID == nil {
			respondWithError(w, http.StatusBadRequest, "framework_id is required")
			return
		}
		if _, err := security.GetFramework(id.OrgID, *req.FrameworkID); err != nil {
			if err == store.ErrFrameworkNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown framework")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch framework")
			return
		}
		if req.Status == "" {
			req.Status = model.ControlNotImplemented
		}

		control := &model.Control{ID: uuid.New(), OrgID: id.OrgID, FrameworkID: *req.FrameworkID}
		req.apply(control)

		if err := security.CreateControl(control); err != nil {
			if err == store.ErrControlCodeTaken {
				respondWithError(w, http.StatusConflict, "a control with this code already exists in the framework")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create control")
			return
		}

		respondWithJSON(w, http.StatusCreated, control)
	}
}

func handleGetControl(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		control, ok := fetchControl(w, r, security, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, control)
	}
}

func handleUpdateControl(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		control, ok := fetchControl(w, r, security, id.OrgID)
		if !ok {
			return
		}

		var req controlRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = control.Status
		}

		req.apply(control)
		if err := security.UpdateControl(control); err != nil {
			if err == store.ErrControlCodeTaken {
				respondWithError(w, http.StatusConflict, "a control with this code already exists in the framework")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update control")
			return
		}

		respondWithJSON(w, http.StatusOK, control)
	}
}

func handleDeleteControl(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		control, ok := fetchControl(w, r, security, id.OrgID)
		if !ok {
			return
		}

		if err := security.DeleteControl(control); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete control")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleControlEvidence(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		control, ok := fetchControl(w, r, security, id.OrgID)
		if !ok {
			return
		}

		evidence, err := security.ListEvidence(id.OrgID, control.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list evidence")
			return
		}

		respondWithJSON(w, http.StatusOK, evidence)
	}
}

func handleListRisks(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		filter := store.RiskFilter{
			Status:   r.URL.Query().Get("status"),
			Category: r.URL.Query().Get("category"),
		}

		risks, err := security.ListRisks(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list risks")
			return
		}

		respondWithJSON(w, http.StatusOK, risks)
	}
}

func handleCreateRisk(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req riskRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = model.RiskOpen
		}

		risk := &model.Risk{ID: uuid.New(), OrgID: id.OrgID}
		req.apply(risk)

		if err := security.CreateRisk(risk); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create risk")
			return
		}

		respondWithJSON(w, http.StatusCreated, risk)
	}
}

func handleGetRisk(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		risk, ok := fetchRisk(w, r, security, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, risk)
	}
}

func handleUpdateRisk(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		risk, ok := fetchRisk(w, r, security, id.OrgID)
		if !ok {
			return
		}

		var req riskRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = risk.Status
		}

		req.apply(risk)
		if err := security.UpdateRisk(risk); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to update risk")
			return
		}

		respondWithJSON(w, http.StatusOK, risk)
	}
}

func handleDeleteRisk(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		risk, ok := fetchRisk(w, r, security, id.OrgID)
		if !ok {
			return
		}

		if err := security.DeleteRisk(risk); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete risk")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRiskMatrix(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		cells, err := security.RiskMatrix(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to build risk matrix")
			return
		}

		respondWithJSON(w, http.StatusOK, cells)
	}
}

func handleCreateEvidence(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req evidenceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if _, err := security.GetControl(id.OrgID, req.ControlID); err != nil {
			if err == store.ErrControlNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown control")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch control")
			return
		}

		evidence := &model.Evidence{
			ID:          uuid.New(),
			OrgID:       id.OrgID,
			ControlID:   req.ControlID,
			Title:       req.Title,
			Description: req.Description,
			URL:         req.URL,
			CollectedBy: id.Email,
			ExpiresAt:   req.ExpiresAt,
		}
		if err := security.CreateEvidence(evidence); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create evidence")
			return
		}

		respondWithJSON(w, http.StatusCreated, evidence)
	}
}

func handleGetEvidence(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		evidenceID, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "evidence not found")
			return
		}

		evidence, err := security.GetEvidence(id.OrgID, evidenceID)
		if err != nil {
			if err == store.ErrEvidenceNotFound {
				respondWithError(w, http.StatusNotFound, "evidence not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch evidence")
			return
		}

		respondWithJSON(w, http.StatusOK, evidence)
	}
}

func handleDeleteEvidence(security store.SecurityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		evidenceID, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "evidence not found")
			return
		}

		evidence, err := security.GetEvidence(id.OrgID, evidenceID)
		if err != nil {
			if err == store.ErrEvidenceNotFound {
				respondWithError(w, http.StatusNotFound, "evidence not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch evidence")
			return
		}

		if err := security.DeleteEvidence(evidence); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete evidence")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func fetchFramework(w http.ResponseWriter, r *http.Request, security store.SecurityStore, orgID uuid.UUID) (*model.Framework, bool) {
	frameworkID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "framework not found")
		return nil, false
	}

	framework, err := security.GetFramework(orgID, frameworkID)
	if err != nil {
		if err == store.ErrFrameworkNotFound {
			respondWithError(w, http.StatusNotFound, "framework not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch framework")
		return nil, false
	}
	return framework, true
}

func fetchControl(w http.ResponseWriter, r *http.Request, security store.SecurityStore, orgID uuid.UUID) (*model.Control, bool) {
	controlID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "control not found")
		return nil, false
	}

	control, err := security.GetControl(orgID, controlID)
	if err != nil {
		if err == store.ErrControlNotFound {
			respondWithError(w, http.StatusNotFound, "control not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch control")
		return nil, false
	}
	return control, true
}

func fetchRisk(w http.ResponseWriter, r *http.Request, security store.SecurityStore, orgID uuid.UUID) (*model.Risk, bool) {
	riskID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "risk not found")
		return nil, false
	}

	risk, err := security.GetRisk(orgID, riskID)
	if err != nil {
		if err == store.ErrRiskNotFound {
			respondWithError(w, http.StatusNotFound, "risk not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch risk")
		return nil, false
	}
	return risk, true
}
