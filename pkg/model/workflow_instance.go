package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// WorkflowInstance is a running checklist stamped out from a template.
// TemplateID survives template deletion as a nil reference. Status follows
// the rules in pkg/workflow: derived from steps except for the manual
// on_hold and cancelled states.
type WorkflowInstance struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID           uuid.UUID               `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	TemplateID      *uuid.UUID              `gorm:"column:template_id;type:uuid" json:"template_id,omitempty"`
	Name            string                  `gorm:"column:name;not null" json:"name"`
	SubjectPersonID *uuid.UUID              `gorm:"column:subject_person_id;type:uuid" json:"subject_person_id,omitempty"`
	SubjectPerson   *Person                 `gorm:"foreignKey:SubjectPersonID" json:"subject_person,omitempty"`
	Status          workflow.InstanceStatus `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	StartDate       time.Time               `gorm:"column:start_date;not null" json:"start_date"`
	DueAt           *time.Time              `gorm:"column:due_at" json:"due_at,omitempty"`
	CompletedAt     *time.Time              `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedBy       string                  `gorm:"column:created_by;not null" json:"created_by"`
	Steps           []WorkflowStep          `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WorkflowInstance) TableName() string {
	return "workflow_instances"
}

// StepStatuses collects the statuses of the instance's steps, in position
// order, for derivation and progress.
func (i *WorkflowInstance) StepStatuses() []workflow.StepStatus {
	statuses := make([]workflow.StepStatus, len(i.Steps))
	for n, s := range i.Steps {
		statuses[n] = s.Status
	}
	return statuses
}
