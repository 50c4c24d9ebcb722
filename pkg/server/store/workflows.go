package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// ErrTemplateNotFound is returned when a workflow template doesn't exist
var ErrTemplateNotFound = errors.New("workflow template not found")

// ErrTemplateEmpty is returned when instantiating a template without steps
var ErrTemplateEmpty = errors.New("workflow template has no steps")

// ErrInstanceNotFound is returned when a workflow instance doesn't exist
var ErrInstanceNotFound = errors.New("workflow instance not found")

// ErrStepNotFound is returned when a workflow step doesn't exist
var ErrStepNotFound = errors.New("workflow step not found")

// InstanceFilter narrows instance listings. Zero values mean no filtering.
type InstanceFilter struct {
	Status          string
	TemplateID      *uuid.UUID
	SubjectPersonID *uuid.UUID
	Limit           int
	Offset          int
}

// WorkflowsStore abstracts workflow storage operations
type WorkflowsStore interface {
	// ListTemplates returns all templates of an organization with steps
	ListTemplates(orgID uuid.UUID) ([]model.WorkflowTemplate, error)

	// GetTemplate retrieves a template with its steps ordered by position.
	// Returns ErrTemplateNotFound if the template doesn't exist.
	GetTemplate(orgID, id uuid.UUID) (*model.WorkflowTemplate, error)

	// CreateTemplate creates a template with its steps
	CreateTemplate(template *model.WorkflowTemplate) error

	// UpdateTemplate replaces a template's fields and steps
	UpdateTemplate(template *model.WorkflowTemplate) error

	// DeleteTemplate removes a template; existing instances keep their
	// copied steps
	DeleteTemplate(template *model.WorkflowTemplate) error

	// ImportTemplate upserts a template from a parsed template file,
	// matching by name
	ImportTemplate(orgID uuid.UUID, file *workflow.TemplateFile) (*model.WorkflowTemplate, error)

	// CreateInstance instantiates a template: copies its steps, derives
	// step due dates from the start date and stores the instance in one
	// transaction.
	// Returns ErrTemplateEmpty for templates without steps.
	CreateInstance(template *model.WorkflowTemplate, name string, subjectPersonID *uuid.UUID, createdBy string, startDate time.Time) (*model.WorkflowInstance, error)

	// ListInstances returns instances of an organization matching the
	// filter, steps preloaded
	ListInstances(orgID uuid.UUID, filter InstanceFilter) ([]model.WorkflowInstance, error)

	// CountInstances counts instances matching the filter, ignoring paging
	CountInstances(orgID uuid.UUID, filter InstanceFilter) (int64, error)

	// GetInstance retrieves an instance with its steps ordered by position.
	// Returns ErrInstanceNotFound if the instance doesn't exist.
	GetInstance(orgID, id uuid.UUID) (*model.WorkflowInstance, error)

	// UpdateInstance saves changed instance fields
	UpdateInstance(instance *model.WorkflowInstance) error

	// DeleteInstance removes an instance and its steps
	DeleteInstance(instance *model.WorkflowInstance) error

	// GetStep retrieves a step by ID.
	// Returns ErrStepNotFound if the step doesn't exist.
	GetStep(orgID, id uuid.UUID) (*model.WorkflowStep, error)

	// SaveStep persists a step write and rederives the instance status in
	// the same transaction, returning the refreshed instance
	SaveStep(step *model.WorkflowStep) (*model.WorkflowInstance, error)
}
