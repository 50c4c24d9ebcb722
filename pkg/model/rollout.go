package model

import (
	"time"

	"github.com/google/uuid"
)

// Rollout statuses.
const (
	RolloutActive    = "active"
	RolloutCompleted = "completed"
	RolloutCancelled = "cancelled"
)

// Rollout asks an audience to acknowledge a document version. A nil TeamID
// targets every live person in the organization.
type Rollout struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID      uuid.UUID  `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	DocumentID uuid.UUID  `gorm:"column:document_id;type:uuid;not null;index" json:"document_id"`
	VersionID  uuid.UUID  `gorm:"column:version_id;type:uuid;not null" json:"version_id"`
	TeamID     *uuid.UUID `gorm:"column:team_id;type:uuid" json:"team_id,omitempty"`
	Status     string     `gorm:"column:status;not null;default:active" json:"status"`
	DueAt      *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedBy  string     `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Rollout) TableName() string {
	return "rollouts"
}
