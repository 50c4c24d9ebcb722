package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// stepFixture builds a step and its enclosing instance in the given
// statuses. The step pointer is shared with instance.Steps[0] by value, so
// mutations by handlers show up on the returned step only.
func stepFixture(orgID uuid.UUID, stepStatus workflow.StepStatus, instanceStatus workflow.InstanceStatus) (*model.WorkflowStep, *model.WorkflowInstance) {
	step := &model.WorkflowStep{
		ID:         uuid.New(),
		OrgID:      orgID,
		InstanceID: uuid.New(),
		Position:   1,
		Title:      "Prepare laptop",
		Status:     stepStatus,
	}
	instance := &model.WorkflowInstance{
		ID:     step.InstanceID,
		OrgID:  orgID,
		Name:   "Onboarding Alice Smith",
		Status: instanceStatus,
		Steps:  []model.WorkflowStep{*step},
	}
	return step, instance
}

func transitionRequest(step *model.WorkflowStep, id *identity.Identity, body string) *http.Request {
	req := requestWithIdentity("POST", "/api/workflows/steps/"+step.ID.String()+"/transition", body, id)
	return withMuxVars(req, map[string]string{"id": step.ID.String()})
}

// TestStepTransitions drives handleTransitionStep through the closed step
// transition table via mock stores
func TestStepTransitions(t *testing.T) {
	t.Run("assignee can start their own step", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("SaveStep", step).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.StepInProgress, step.Status)
		workflows.AssertCalled(t, "SaveStep", step)
	})

	t.Run("completing a step stamps the completion fields", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepInProgress, workflow.InstanceInProgress)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("SaveStep", step).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "completed"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.StepCompleted, step.Status)
		assert.NotNil(t, step.CompletedAt)
		assert.Equal(t, id.Email, step.CompletedBy)
		assert.Empty(t, step.BlockedReason)
	})

	t.Run("completed steps stay completed", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepCompleted, workflow.InstanceInProgress)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid step transition", resp["error"])
		assert.Equal(t, "completed", resp["from"])
		workflows.AssertNotCalled(t, "SaveStep", mock.Anything)
	})

	t.Run("skipped steps can reopen to pending", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepSkipped, workflow.InstanceInProgress)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("SaveStep", step).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "pending"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.StepPending, step.Status)
	})

	t.Run("blocking requires a reason", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepInProgress, workflow.InstanceInProgress)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "blocked"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "requires a reason")
		workflows.AssertNotCalled(t, "SaveStep", mock.Anything)
	})

	t.Run("leaving blocked clears the reason", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepBlocked, workflow.InstanceInProgress)
		step.AssigneePersonID = &personID
		step.BlockedReason = "waiting for hardware delivery"

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("SaveStep", step).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.StepInProgress, step.Status)
		assert.Empty(t, step.BlockedReason)
	})

	t.Run("someone else's step needs the write capability", func(t *testing.T) {
		orgID := uuid.New()
		otherPerson := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)
		step.AssigneePersonID = &otherPerson

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		callerPerson := uuid.New()
		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &callerPerson

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "not assigned to you")
		workflows.AssertNotCalled(t, "SaveStep", mock.Anything)
	})

	t.Run("the write capability covers any step", func(t *testing.T) {
		orgID := uuid.New()
		otherPerson := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)
		step.AssigneePersonID = &otherPerson

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("SaveStep", step).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition, model.CapWorkflowsWrite)

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unassigned steps need the write capability", func(t *testing.T) {
		orgID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		callerPerson := uuid.New()
		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &callerPerson

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("a held instance rejects transitions", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstanceOnHold)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "on hold")
		workflows.AssertNotCalled(t, "SaveStep", mock.Anything)
	})

	t.Run("a cancelled instance rejects transitions", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstanceCancelled)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "cancelled")
	})

	t.Run("unknown target status is a bad request", func(t *testing.T) {
		orgID := uuid.New()
		personID := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)
		step.AssigneePersonID = &personID

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsTransition)
		id.PersonID = &personID

		handler := handleTransitionStep(workflows)
		w := httptest.NewRecorder()
		handler(w, transitionRequest(step, id, `{"status": "paused"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown step status")
	})

	t.Run("unknown step is not found", func(t *testing.T) {
		orgID := uuid.New()
		stepID := uuid.New()

		workflows := NewMockWorkflowsStore()
		workflows.On("GetStep", orgID, stepID).Return(nil, store.ErrStepNotFound)

		id := testIdentity(orgID, model.CapWorkflowsTransition)

		handler := handleTransitionStep(workflows)
		req := requestWithIdentity("POST", "/api/workflows/steps/"+stepID.String()+"/transition", `{"status": "in_progress"}`, id)
		req = withMuxVars(req, map[string]string{"id": stepID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestInstanceStatus exercises the manual hold/resume/cancel moves on
// handleInstanceStatus
func TestInstanceStatus(t *testing.T) {
	statusRequest := func(instance *model.WorkflowInstance, id *identity.Identity, body string) *http.Request {
		req := requestWithIdentity("POST", "/api/workflows/instances/"+instance.ID.String()+"/status", body, id)
		return withMuxVars(req, map[string]string{"id": instance.ID.String()})
	}

	t.Run("a running instance can be put on hold", func(t *testing.T) {
		orgID := uuid.New()
		_, instance := stepFixture(orgID, workflow.StepInProgress, workflow.InstanceInProgress)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("UpdateInstance", instance).Return(nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleInstanceStatus(workflows)
		w := httptest.NewRecorder()
		handler(w, statusRequest(instance, id, `{"status": "on_hold"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.InstanceOnHold, instance.Status)
	})

	t.Run("resuming must land on the derived status", func(t *testing.T) {
		orgID := uuid.New()
		_, instance := stepFixture(orgID, workflow.StepInProgress, workflow.InstanceOnHold)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleInstanceStatus(workflows)
		w := httptest.NewRecorder()
		handler(w, statusRequest(instance, id, `{"status": "pending"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "in_progress", resp["derived"])
		workflows.AssertNotCalled(t, "UpdateInstance", mock.Anything)
	})

	t.Run("resuming to the derived status succeeds", func(t *testing.T) {
		orgID := uuid.New()
		_, instance := stepFixture(orgID, workflow.StepInProgress, workflow.InstanceOnHold)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("UpdateInstance", instance).Return(nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleInstanceStatus(workflows)
		w := httptest.NewRecorder()
		handler(w, statusRequest(instance, id, `{"status": "in_progress"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.InstanceInProgress, instance.Status)
	})

	t.Run("a held instance can be cancelled", func(t *testing.T) {
		orgID := uuid.New()
		_, instance := stepFixture(orgID, workflow.StepPending, workflow.InstanceOnHold)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)
		workflows.On("UpdateInstance", instance).Return(nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleInstanceStatus(workflows)
		w := httptest.NewRecorder()
		handler(w, statusRequest(instance, id, `{"status": "cancelled"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, workflow.InstanceCancelled, instance.Status)
	})

	t.Run("derived statuses cannot be forced by hand", func(t *testing.T) {
		orgID := uuid.New()
		_, instance := stepFixture(orgID, workflow.StepInProgress, workflow.InstanceInProgress)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleInstanceStatus(workflows)
		w := httptest.NewRecorder()
		handler(w, statusRequest(instance, id, `{"status": "completed"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "invalid instance transition")
		workflows.AssertNotCalled(t, "UpdateInstance", mock.Anything)
	})

	t.Run("terminal instances accept no transitions", func(t *testing.T) {
		orgID := uuid.New()
		_, instance := stepFixture(orgID, workflow.StepCompleted, workflow.InstanceCompleted)

		workflows := NewMockWorkflowsStore()
		workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleInstanceStatus(workflows)
		w := httptest.NewRecorder()
		handler(w, statusRequest(instance, id, `{"status": "on_hold"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

// TestCreateInstance covers template lookup, subject validation and
// defaulting when stamping out an instance
func TestCreateInstance(t *testing.T) {
	t.Run("names the instance after the template by default", func(t *testing.T) {
		orgID := uuid.New()
		template := &model.WorkflowTemplate{
			ID:    uuid.New(),
			OrgID: orgID,
			Name:  "Onboarding",
			Steps: []model.WorkflowTemplateStep{{Position: 1, Title: "Prepare laptop"}},
		}
		instance := &model.WorkflowInstance{ID: uuid.New(), OrgID: orgID, Name: "Onboarding"}

		workflows := NewMockWorkflowsStore()
		people := NewMockPeopleStore()
		workflows.On("GetTemplate", orgID, template.ID).Return(template, nil)
		workflows.On("CreateInstance", template, "Onboarding", (*uuid.UUID)(nil), "tester@example.com", mock.Anything).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleCreateInstance(workflows, people)
		req := requestWithIdentity("POST", "/api/workflows/instances", `{"template_id": "`+template.ID.String()+`"}`, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		workflows.AssertCalled(t, "CreateInstance", template, "Onboarding", (*uuid.UUID)(nil), "tester@example.com", mock.Anything)
	})

	t.Run("unknown template is a bad request", func(t *testing.T) {
		orgID := uuid.New()
		templateID := uuid.New()

		workflows := NewMockWorkflowsStore()
		people := NewMockPeopleStore()
		workflows.On("GetTemplate", orgID, templateID).Return(nil, store.ErrTemplateNotFound)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleCreateInstance(workflows, people)
		req := requestWithIdentity("POST", "/api/workflows/instances", `{"template_id": "`+templateID.String()+`"}`, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown template")
	})

	t.Run("unknown subject person is a bad request", func(t *testing.T) {
		orgID := uuid.New()
		subjectID := uuid.New()
		template := &model.WorkflowTemplate{ID: uuid.New(), OrgID: orgID, Name: "Onboarding"}

		workflows := NewMockWorkflowsStore()
		people := NewMockPeopleStore()
		workflows.On("GetTemplate", orgID, template.ID).Return(template, nil)
		people.On("GetPerson", orgID, subjectID).Return(nil, store.ErrPersonNotFound)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleCreateInstance(workflows, people)
		body := `{"template_id": "` + template.ID.String() + `", "subject_person_id": "` + subjectID.String() + `"}`
		req := requestWithIdentity("POST", "/api/workflows/instances", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown subject person")
		workflows.AssertNotCalled(t, "CreateInstance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty templates cannot be instantiated", func(t *testing.T) {
		orgID := uuid.New()
		template := &model.WorkflowTemplate{ID: uuid.New(), OrgID: orgID, Name: "Empty"}

		workflows := NewMockWorkflowsStore()
		people := NewMockPeopleStore()
		workflows.On("GetTemplate", orgID, template.ID).Return(template, nil)
		workflows.On("CreateInstance", template, "Empty", (*uuid.UUID)(nil), "tester@example.com", mock.Anything).Return(nil, store.ErrTemplateEmpty)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleCreateInstance(workflows, people)
		req := requestWithIdentity("POST", "/api/workflows/instances", `{"template_id": "`+template.ID.String()+`"}`, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "template has no steps")
	})
}

// TestInstanceBoard checks the kanban grouping and progress tally
func TestInstanceBoard(t *testing.T) {
	orgID := uuid.New()
	instance := &model.WorkflowInstance{
		ID:     uuid.New(),
		OrgID:  orgID,
		Name:   "Onboarding Alice Smith",
		Status: workflow.InstanceInProgress,
		Steps: []model.WorkflowStep{
			{ID: uuid.New(), Position: 1, Title: "Prepare laptop", Status: workflow.StepCompleted},
			{ID: uuid.New(), Position: 2, Title: "Create accounts", Status: workflow.StepInProgress},
			{ID: uuid.New(), Position: 3, Title: "Intro meeting", Status: workflow.StepPending},
		},
	}

	workflows := NewMockWorkflowsStore()
	workflows.On("GetInstance", orgID, instance.ID).Return(instance, nil)

	id := testIdentity(orgID, model.CapWorkflowsRead)

	handler := handleInstanceBoard(workflows)
	req := requestWithIdentity("GET", "/api/workflows/instances/"+instance.ID.String()+"/board", "", id)
	req = withMuxVars(req, map[string]string{"id": instance.ID.String()})
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Columns  map[string][]model.WorkflowStep `json:"columns"`
		Progress workflow.Progress               `json:"progress"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Every status owns a column, even the empty ones.
	assert.Len(t, resp.Columns, len(workflow.StepStatusStrings()))
	assert.Len(t, resp.Columns["completed"], 1)
	assert.Len(t, resp.Columns["in_progress"], 1)
	assert.Len(t, resp.Columns["pending"], 1)
	assert.Len(t, resp.Columns["blocked"], 0)

	assert.Equal(t, 3, resp.Progress.Total)
	assert.Equal(t, 33, resp.Progress.Percent)
}

// TestTemplateEndpoints covers template CRUD basics
func TestTemplateEndpoints(t *testing.T) {
	t.Run("create assigns step positions in order", func(t *testing.T) {
		orgID := uuid.New()

		workflows := NewMockWorkflowsStore()
		workflows.On("CreateTemplate", mock.Anything).Return(nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleCreateTemplate(workflows)
		body := `{"name": "Offboarding", "steps": [{"title": "Collect hardware"}, {"title": "Revoke accounts"}]}`
		req := requestWithIdentity("POST", "/api/workflows/templates", body, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created model.WorkflowTemplate
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, orgID, created.OrgID)
		if assert.Len(t, created.Steps, 2) {
			assert.Equal(t, 1, created.Steps[0].Position)
			assert.Equal(t, 2, created.Steps[1].Position)
		}
	})

	t.Run("create without a name fails validation", func(t *testing.T) {
		orgID := uuid.New()
		workflows := NewMockWorkflowsStore()

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handleCreateTemplate(workflows)
		req := requestWithIdentity("POST", "/api/workflows/templates", `{"steps": []}`, id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		workflows.AssertNotCalled(t, "CreateTemplate", mock.Anything)
	})

	t.Run("unknown template is not found", func(t *testing.T) {
		orgID := uuid.New()
		templateID := uuid.New()

		workflows := NewMockWorkflowsStore()
		workflows.On("GetTemplate", orgID, templateID).Return(nil, store.ErrTemplateNotFound)

		id := testIdentity(orgID, model.CapWorkflowsRead)

		handler := handleGetTemplate(workflows)
		req := requestWithIdentity("GET", "/api/workflows/templates/"+templateID.String(), "", id)
		req = withMuxVars(req, map[string]string{"id": templateID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestListInstances verifies filter plumbing and the total count header
func TestListInstances(t *testing.T) {
	t.Run("filters and paging reach the store", func(t *testing.T) {
		orgID := uuid.New()
		filter := store.InstanceFilter{Status: "in_progress", Limit: 100}

		workflows := NewMockWorkflowsStore()
		workflows.On("CountInstances", orgID, filter).Return(int64(7), nil)
		workflows.On("ListInstances", orgID, filter).Return([]model.WorkflowInstance{}, nil)

		id := testIdentity(orgID, model.CapWorkflowsRead)

		handler := handleListInstances(workflows, testConfig())
		req := requestWithIdentity("GET", "/api/workflows/instances?status=in_progress", "", id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", w.Header().Get("X-Total-Count"))
	})

	t.Run("a malformed template filter is a bad request", func(t *testing.T) {
		orgID := uuid.New()
		workflows := NewMockWorkflowsStore()

		id := testIdentity(orgID, model.CapWorkflowsRead)

		handler := handleListInstances(workflows, testConfig())
		req := requestWithIdentity("GET", "/api/workflows/instances?template=not-a-uuid", "", id)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestPatchStep covers assignee and due date edits
func TestPatchStep(t *testing.T) {
	t.Run("assigns a person to a step", func(t *testing.T) {
		orgID := uuid.New()
		assignee := uuid.New()
		step, instance := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)

		workflows := NewMockWorkflowsStore()
		people := NewMockPeopleStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		people.On("GetPerson", orgID, assignee).Return(&model.Person{ID: assignee, OrgID: orgID}, nil)
		workflows.On("SaveStep", step).Return(instance, nil)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handlePatchStep(workflows, people)
		body := `{"assignee_person_id": "` + assignee.String() + `"}`
		req := requestWithIdentity("PATCH", "/api/workflows/steps/"+step.ID.String(), body, id)
		req = withMuxVars(req, map[string]string{"id": step.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		if assert.NotNil(t, step.AssigneePersonID) {
			assert.Equal(t, assignee, *step.AssigneePersonID)
		}
	})

	t.Run("unknown assignee is a bad request", func(t *testing.T) {
		orgID := uuid.New()
		assignee := uuid.New()
		step, _ := stepFixture(orgID, workflow.StepPending, workflow.InstancePending)

		workflows := NewMockWorkflowsStore()
		people := NewMockPeopleStore()
		workflows.On("GetStep", orgID, step.ID).Return(step, nil)
		people.On("GetPerson", orgID, assignee).Return(nil, store.ErrPersonNotFound)

		id := testIdentity(orgID, model.CapWorkflowsWrite)

		handler := handlePatchStep(workflows, people)
		body := `{"assignee_person_id": "` + assignee.String() + `"}`
		req := requestWithIdentity("PATCH", "/api/workflows/steps/"+step.ID.String(), body, id)
		req = withMuxVars(req, map[string]string{"id": step.ID.String()})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown assignee")
		workflows.AssertNotCalled(t, "SaveStep", mock.Anything)
	})
}
