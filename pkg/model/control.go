package model

import (
	"time"

	"github.com/google/uuid"
)

// Control implementation statuses.
const (
	ControlNotImplemented = "not_implemented"
	ControlInProgress     = "in_progress"
	ControlImplemented    = "implemented"
	ControlNotApplicable  = "not_applicable"
)

// ControlStatuses lists the accepted control statuses.
func ControlStatuses() []string {
	return []string{ControlNotImplemented, ControlInProgress, ControlImplemented, ControlNotApplicable}
}

// Control is a single requirement within a framework. Code is unique per
// organization and framework.
type Control struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID       uuid.UUID  `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	FrameworkID uuid.UUID  `gorm:"column:framework_id;type:uuid;not null;index" json:"framework_id"`
	Code        string     `gorm:"column:code;not null" json:"code"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Category    string     `gorm:"column:category" json:"category"`
	Status      string     `gorm:"column:status;not null;default:not_implemented" json:"status"`
	OwnerID     *uuid.UUID `gorm:"column:owner_id;type:uuid" json:"owner_id,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Control) TableName() string {
	return "controls"
}
