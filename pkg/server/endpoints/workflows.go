package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// RegisterWorkflowsEndpoints registers the workflow template, instance and
// step endpoints
func RegisterWorkflowsEndpoints(s *server.Server) {
	workflows := s.Workflows
	people := s.People
	cfg := s.Config

	router := s.Router.PathPrefix("/api/workflows").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	// Templates
	router.Handle("/templates", requireCap(model.CapWorkflowsRead, handleListTemplates(workflows))).Methods("GET")
	router.Handle("/templates", requireCap(model.CapWorkflowsWrite, handleCreateTemplate(workflows))).Methods("POST")
	router.Handle("/templates/{id}", requireCap(model.CapWorkflowsRead, handleGetTemplate(workflows))).Methods("GET")
	router.Handle("/templates/{id}", requireCap(model.CapWorkflowsWrite, handleUpdateTemplate(workflows))).Methods("PUT")
	router.Handle("/templates/{id}", requireCap(model.CapWorkflowsWrite, handleDeleteTemplate(workflows))).Methods("DELETE")

	// Instances
	router.Handle("/instances", requireCap(model.CapWorkflowsRead, handleListInstances(workflows, cfg))).Methods("GET")
	router.Handle("/instances", requireCap(model.CapWorkflowsWrite, handleCreateInstance(workflows, people))).Methods("POST")
	router.Handle("/instances/{id}", requireCap(model.CapWorkflowsRead, handleGetInstance(workflows))).Methods("GET")
	router.Handle("/instances/{id}", requireCap(model.CapWorkflowsWrite, handleDeleteInstance(workflows))).Methods("DELETE")
	router.Handle("/instances/{id}/status", requireCap(model.CapWorkflowsWrite, handleInstanceStatus(workflows))).Methods("POST")
	router.Handle("/instances/{id}/board", requireCap(model.CapWorkflowsRead, handleInstanceBoard(workflows))).Methods("GET")

	// Steps
	router.Handle("/steps/{id}", requireCap(model.CapWorkflowsWrite, handlePatchStep(workflows, people))).Methods("PATCH")
	router.Handle("/steps/{id}/transition", requireCap(model.CapWorkflowsTransition, handleTransitionStep(workflows))).Methods("POST")
}

// templateRequest is the payload for creating and updating a template. A
// template may carry zero steps; only instantiation requires at least one.
type templateRequest struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Steps       []templateStepRequest `json:"steps" validate:"dive"`
}

type templateStepRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	AssigneeRole  string `json:"assignee_role"`
	DueOffsetDays *int   `json:"due_offset_days"`
}

func (req *templateRequest) apply(t *model.WorkflowTemplate) {
	t.Name = req.Name
	t.Description = req.Description
	t.Category = req.Category
	t.Steps = make([]model.WorkflowTemplateStep, len(req.Steps))
	for i, s := range req.Steps {
		t.Steps[i] = model.WorkflowTemplateStep{
			Position:      i + 1,
			Title:         s.Title,
			Description:   s.Description,
			AssigneeRole:  s.AssigneeRole,
			DueOffsetDays: s.DueOffsetDays,
		}
	}
}

type instanceRequest struct {
	TemplateID      uuid.UUID  `json:"template_id" validate:"required"`
	Name            string     `json:"name"`
	SubjectPersonID *uuid.UUID `json:"subject_person_id"`
	StartDate       *time.Time `json:"start_date"`
}

type instanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type stepTransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type stepPatchRequest struct {
	AssigneePersonID *uuid.UUID `json:"assignee_person_id"`
	DueAt            *time.Time `json:"due_at"`
}

func handleListTemplates(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		templates, err := workflows.ListTemplates(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list templates")
			return
		}

		respondWithJSON(w, http.StatusOK, templates)
	}
}

func handleCreateTemplate(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req templateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		template := &model.WorkflowTemplate{ID: uuid.New(), OrgID: id.OrgID}
		req.apply(template)

		if err := workflows.CreateTemplate(template); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create template")
			return
		}

		respondWithJSON(w, http.StatusCreated, template)
	}
}

func handleGetTemplate(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		template, ok := fetchTemplate(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, template)
	}
}

func handleUpdateTemplate(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		template, ok := fetchTemplate(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		var req templateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		req.apply(template)
		if err := workflows.UpdateTemplate(template); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to update template")
			return
		}

		respondWithJSON(w, http.StatusOK, template)
	}
}

func handleDeleteTemplate(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		template, ok := fetchTemplate(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		// Instances stamped out from the template survive; they only lose
		// the template reference.
		if err := workflows.DeleteTemplate(template); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete template")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListInstances(workflows store.WorkflowsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		filter := store.InstanceFilter{
			Status: r.URL.Query().Get("status"),
		}
		var err error
		if filter.TemplateID, err = queryUUID(r, "template"); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid template filter")
			return
		}
		if filter.SubjectPersonID, err = queryUUID(r, "subject"); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid subject filter")
			return
		}
		filter.Limit, filter.Offset = parsePagination(r, cfg)

		total, err := workflows.CountInstances(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to count instances")
			return
		}
		instances, err := workflows.ListInstances(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list instances")
			return
		}

		setTotalCount(w, total)
		respondWithJSON(w, http.StatusOK, instances)
	}
}

func handleCreateInstance(workflows store.WorkflowsStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req instanceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		template, err := workflows.GetTemplate(id.OrgID, req.TemplateID)
		if err != nil {
			if err == store.ErrTemplateNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown template")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch template")
			return
		}

		if req.SubjectPersonID != nil {
			if _, err := people.GetPerson(id.OrgID, *req.SubjectPersonID); err != nil {
				if err == store.ErrPersonNotFound {
					respondWithError(w, http.StatusBadRequest, "unknown subject person")
					return
				}
				respondWithError(w, http.StatusInternalServerError, "failed to fetch subject person")
				return
			}
		}

		start := time.Now()
		if req.StartDate != nil {
			start = *req.StartDate
		}
		name := req.Name
		if name == "" {
			name = template.Name
		}

		instance, err := workflows.CreateInstance(template, name, req.SubjectPersonID, id.Email, start)
		if err != nil {
			if err == store.ErrTemplateEmpty {
				respondWithError(w, http.StatusBadRequest, "template has no steps")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create instance")
			return
		}

		respondWithJSON(w, http.StatusCreated, instance)
	}
}

func handleGetInstance(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		instance, ok := fetchInstance(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, instance)
	}
}

func handleDeleteInstance(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		instance, ok := fetchInstance(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		if err := workflows.DeleteInstance(instance); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete instance")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleInstanceStatus(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		instance, ok := fetchInstance(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		var req instanceStatusRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		target, err := workflow.InstanceStatusString(req.Status)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "unknown instance status "+req.Status)
			return
		}

		from := instance.Status
		if !workflow.CanTransitionInstance(from, target) {
			respondWithJSON(w, http.StatusConflict, map[string]interface{}{
				"error": "invalid instance transition",
				"from":  from.String(),
				"to":    target.String(),
			})
			return
		}

		// Resuming must land on the status the steps imply.
		if from == workflow.InstanceOnHold && target != workflow.InstanceCancelled {
			derived := workflow.DeriveInstanceStatus(instance.StepStatuses())
			if target != derived {
				respondWithJSON(w, http.StatusConflict, map[string]interface{}{
					"error":   "resume must land on the derived status",
					"derived": derived.String(),
				})
				return
			}
		}

		instance.Status = target
		if err := workflows.UpdateInstance(instance); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to update instance")
			return
		}

		audit.Log(audit.WorkflowEvent{
			OrgID:    id.OrgID.String(),
			Actor:    id.Email,
			Instance: instance.Name,
			From:     from.String(),
			To:       target.String(),
		})

		respondWithJSON(w, http.StatusOK, instance)
	}
}

func handleInstanceBoard(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		instance, ok := fetchInstance(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		columns := make(map[string][]model.WorkflowStep, len(workflow.StepStatusStrings()))
		for _, status := range workflow.StepStatusStrings() {
			columns[status] = []model.WorkflowStep{}
		}
		for _, step := range instance.Steps {
			columns[step.Status.String()] = append(columns[step.Status.String()], step)
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"instance": instance,
			"columns":  columns,
			"progress": workflow.ComputeProgress(instance.StepStatuses()),
		})
	}
}

func handleTransitionStep(workflows store.WorkflowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		step, ok := fetchStep(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		instance, err := workflows.GetInstance(id.OrgID, step.InstanceID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to fetch instance")
			return
		}
		if instance.Status.Terminal() {
			respondWithError(w, http.StatusConflict, "instance is "+instance.Status.String())
			return
		}
		if instance.Status == workflow.InstanceOnHold {
			respondWithError(w, http.StatusConflict, "instance is on hold")
			return
		}

		// workflows:transition covers the caller's own steps; anyone
		// else's need workflows:write on top.
		own := step.AssigneePersonID != nil && id.PersonID != nil && *step.AssigneePersonID == *id.PersonID
		if !own && !id.HasCapability(model.CapWorkflowsWrite) {
			respondWithError(w, http.StatusForbidden, "step is not assigned to you")
			return
		}

		var req stepTransitionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		target, err := workflow.StepStatusString(req.Status)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "unknown step status "+req.Status)
			return
		}
		if target == workflow.StepBlocked && req.Reason == "" {
			respondWithError(w, http.StatusBadRequest, "blocking a step requires a reason")
			return
		}

		from := step.Status
		if !workflow.CanTransitionStep(from, target) {
			respondWithJSON(w, http.StatusConflict, map[string]interface{}{
				"error": "invalid step transition",
				"from":  from.String(),
				"to":    target.String(),
			})
			return
		}

		step.Status = target
		switch target {
		case workflow.StepBlocked:
			step.BlockedReason = req.Reason
		case workflow.StepCompleted:
			now := time.Now()
			step.CompletedAt = &now
			step.CompletedBy = id.Email
			step.BlockedReason = ""
		default:
			step.BlockedReason = ""
		}

		updated, err := workflows.SaveStep(step)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save step")
			return
		}

		audit.Log(audit.WorkflowEvent{
			OrgID:    id.OrgID.String(),
			Actor:    id.Email,
			Instance: updated.Name,
			Step:     step.Title,
			From:     from.String(),
			To:       target.String(),
		})

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"step":     step,
			"instance": updated,
		})
	}
}

func handlePatchStep(workflows store.WorkflowsStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		step, ok := fetchStep(w, r, workflows, id.OrgID)
		if !ok {
			return
		}

		var req stepPatchRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if req.AssigneePersonID != nil {
			if _, err := people.GetPerson(id.OrgID, *req.AssigneePersonID); err != nil {
				if err == store.ErrPersonNotFound {
					respondWithError(w, http.StatusBadRequest, "unknown assignee")
					return
				}
				respondWithError(w, http.StatusInternalServerError, "failed to fetch assignee")
				return
			}
		}

		step.AssigneePersonID = req.AssigneePersonID
		step.DueAt = req.DueAt

		if _, err := workflows.SaveStep(step); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to save step")
			return
		}

		respondWithJSON(w, http.StatusOK, step)
	}
}

func fetchTemplate(w http.ResponseWriter, r *http.Request, workflows store.WorkflowsStore, orgID uuid.UUID) (*model.WorkflowTemplate, bool) {
	templateID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "template not found")
		return nil, false
	}

	template, err := workflows.GetTemplate(orgID, templateID)
	if err != nil {
		if err == store.ErrTemplateNotFound {
			respondWithError(w, http.StatusNotFound, "template not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch template")
		return nil, false
	}
	return template, true
}

func fetchInstance(w http.ResponseWriter, r *http.Request, workflows store.WorkflowsStore, orgID uuid.UUID) (*model.WorkflowInstance, bool) {
	instanceID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "instance not found")
		return nil, false
	}

	instance, err := workflows.GetInstance(orgID, instanceID)
	if err != nil {
		if err == store.ErrInstanceNotFound {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch instance")
		return nil, false
	}
	return instance, true
}

func fetchStep(w http.ResponseWriter, r *http.Request, workflows store.WorkflowsStore, orgID uuid.UUID) (*model.WorkflowStep, bool) {
	stepID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "step not found")
		return nil, false
	}

	step, err := workflows.GetStep(orgID, stepID)
	if err != nil {
		if err == store.ErrStepNotFound {
			respondWithError(w, http.StatusNotFound, "step not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch step")
		return nil, false
	}
	return step, true
}
