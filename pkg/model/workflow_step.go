package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// WorkflowStep is one step of a running instance. BlockedReason is required
// when the step moves to blocked and cleared when it leaves it.
type WorkflowStep struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID            uuid.UUID           `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	InstanceID       uuid.UUID           `gorm:"column:instance_id;type:uuid;not null;index" json:"instance_id"`
	Position         int                 `gorm:"column:position;not null" json:"position"`
	Title            string              `gorm:"column:title;not null" json:"title"`
	Description      string              `gorm:"column:description" json:"description"`
	AssigneeRole     string              `gorm:"column:assignee_role" json:"assignee_role"`
	AssigneePersonID *uuid.UUID          `gorm:"column:assignee_person_id;type:uuid" json:"assignee_person_id,omitempty"`
	Status           workflow.StepStatus `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	BlockedReason    string              `gorm:"column:blocked_reason" json:"blocked_reason,omitempty"`
	DueAt            *time.Time          `gorm:"column:due_at" json:"due_at,omitempty"`
	CompletedAt      *time.Time          `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CompletedBy      string              `gorm:"column:completed_by" json:"completed_by,omitempty"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WorkflowStep) TableName() string {
	return "workflow_steps"
}
