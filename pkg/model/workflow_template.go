package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowTemplate is a reusable checklist definition. Name is unique per
// organization among templates.
type WorkflowTemplate struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID       uuid.UUID              `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name        string                 `gorm:"column:name;not null" json:"name"`
	Description string                 `gorm:"column:description" json:"description"`
	Category    string                 `gorm:"column:category" json:"category"`
	Steps       []WorkflowTemplateStep `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WorkflowTemplate) TableName() string {
	return "workflow_templates"
}

// WorkflowTemplateStep is one ordered step of a template. DueOffsetDays is
// nil when the step carries no deadline.
type WorkflowTemplateStep struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID         uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	TemplateID    uuid.UUID `gorm:"column:template_id;type:uuid;not null;index" json:"template_id"`
	Position      int       `gorm:"column:position;not null" json:"position"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Description   string    `gorm:"column:description" json:"description"`
	AssigneeRole  string    `gorm:"column:assignee_role" json:"assignee_role"`
	DueOffsetDays *int      `gorm:"column:due_offset_days" json:"due_offset_days,omitempty"`
}

func (WorkflowTemplateStep) TableName() string {
	return "workflow_template_steps"
}
