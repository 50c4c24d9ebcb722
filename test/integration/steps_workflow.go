package integration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

func (s *StepsContext) registerWorkflowSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a workflow template "([^"]*)" with steps "([^"]*)" exists$`, s.aWorkflowTemplateExists)
	sc.Step(`^I start a workflow instance "([^"]*)" from template "([^"]*)"$`, s.iStartAWorkflowInstance)
	sc.Step(`^I move step (\d+) of the instance to "([^"]*)"$`, s.iMoveStepTo)
	sc.Step(`^I put the instance on hold$`, s.iPutTheInstanceOnHold)
	sc.Step(`^the instance status should be "([^"]*)"$`, s.theInstanceStatusShouldBe)
	sc.Step(`^the board column "([^"]*)" should hold (\d+) steps?$`, s.theBoardColumnShouldHold)
}

// aWorkflowTemplateExists imports a template with the given comma-separated
// step titles. Import upserts by name, so repeated backgrounds are cheap.
func (s *StepsContext) aWorkflowTemplateExists(name, stepTitles string) error {
	file := &workflow.TemplateFile{Name: name}
	for _, title := range strings.Split(stepTitles, ",") {
		file.Steps = append(file.Steps, workflow.TemplateFileStep{Title: strings.TrimSpace(title)})
	}

	template, err := gormstore.NewWorkflowsStore(s.tc.DB).ImportTemplate(s.orgID, file)
	if err != nil {
		return err
	}
	s.templateIDs[name] = template.ID
	return nil
}

func (s *StepsContext) iStartAWorkflowInstance(instanceName, templateName string) error {
	templateID, ok := s.templateIDs[templateName]
	if !ok {
		return fmt.Errorf("template %q was not set up", templateName)
	}

	body := fmt.Sprintf(`{"template_id": %q, "name": %q}`, templateID, instanceName)
	if err := s.doRequest("POST", "/api/workflows/instances", body); err != nil {
		return err
	}
	if s.response.StatusCode != 201 {
		return nil // Leave the response for a status assertion step.
	}

	if err := json.Unmarshal(s.responseBody, &s.instanceJSON); err != nil {
		return fmt.Errorf("failed to parse instance: %w", err)
	}
	id, err := uuid.Parse(fmt.Sprintf("%v", s.instanceJSON["id"]))
	if err != nil {
		return fmt.Errorf("instance has no usable id: %w", err)
	}
	s.instanceID = id
	return nil
}

func (s *StepsContext) iMoveStepTo(position int, status string) error {
	stepID, err := s.stepIDAt(position)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(`{"status": %q}`, status)
	return s.doRequest("POST", "/api/workflows/steps/"+stepID+"/transition", body)
}

func (s *StepsContext) iPutTheInstanceOnHold() error {
	return s.doRequest("POST", "/api/workflows/instances/"+s.instanceID.String()+"/status", `{"status": "on_hold"}`)
}

func (s *StepsContext) theInstanceStatusShouldBe(expected string) error {
	if err := s.doRequest("GET", "/api/workflows/instances/"+s.instanceID.String(), ""); err != nil {
		return err
	}
	if err := json.Unmarshal(s.responseBody, &s.instanceJSON); err != nil {
		return fmt.Errorf("failed to parse instance: %w", err)
	}
	if actual := fmt.Sprintf("%v", s.instanceJSON["status"]); actual != expected {
		return fmt.Errorf("expected instance status %q, got %q", expected, actual)
	}
	return nil
}

func (s *StepsContext) theBoardColumnShouldHold(column string, count int) error {
	if err := s.doRequest("GET", "/api/workflows/instances/"+s.instanceID.String()+"/board", ""); err != nil {
		return err
	}

	var board struct {
		Columns map[string][]json.RawMessage `json:"columns"`
	}
	if err := json.Unmarshal(s.responseBody, &board); err != nil {
		return fmt.Errorf("failed to parse board: %w", err)
	}

	steps, ok := board.Columns[column]
	if !ok {
		return fmt.Errorf("board has no column %q", column)
	}
	if len(steps) != count {
		return fmt.Errorf("expected %d steps in %q, got %d", count, column, len(steps))
	}
	return nil
}

// stepIDAt resolves a step ID by its 1-based position, refreshing the
// instance first so transitions in earlier steps are visible.
func (s *StepsContext) stepIDAt(position int) (string, error) {
	if err := s.doRequest("GET", "/api/workflows/instances/"+s.instanceID.String(), ""); err != nil {
		return "", err
	}
	if err := json.Unmarshal(s.responseBody, &s.instanceJSON); err != nil {
		return "", fmt.Errorf("failed to parse instance: %w", err)
	}

	steps, ok := s.instanceJSON["steps"].([]any)
	if !ok {
		return "", fmt.Errorf("instance has no steps: %s", string(s.responseBody))
	}
	for _, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if pos, ok := step["position"].(float64); ok && int(pos) == position {
			return fmt.Sprintf("%v", step["id"]), nil
		}
	}
	return "", fmt.Errorf("instance has no step at position %d", position)
}
