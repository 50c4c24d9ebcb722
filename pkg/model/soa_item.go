package model

import (
	"time"

	"github.com/google/uuid"
)

// SoAItem is a Statement of Applicability entry for one control. Controls
// without an item are treated as applicable with no justification recorded.
// Every write is a review decision, so the reviewer stamp is always set.
type SoAItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID         uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	FrameworkID   uuid.UUID `gorm:"column:framework_id;type:uuid;not null;index" json:"framework_id"`
	ControlID     uuid.UUID `gorm:"column:control_id;type:uuid;not null" json:"control_id"`
	Applicable    bool      `gorm:"column:applicable;not null;default:true" json:"applicable"`
	Justification string    `gorm:"column:justification" json:"justification"`
	ReviewedBy    string    `gorm:"column:reviewed_by;not null" json:"reviewed_by"`
	ReviewedAt    time.Time `gorm:"column:reviewed_at;not null" json:"reviewed_at"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SoAItem) TableName() string {
	return "soa_items"
}
