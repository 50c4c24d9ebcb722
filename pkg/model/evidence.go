package model

import (
	"time"

	"github.com/google/uuid"
)

// Evidence is a pointer to proof that a control is implemented. Kantoor
// stores links and notes, not files. ExpiresAt marks when the proof goes
// stale and needs recollecting; nil means it does not age.
type Evidence struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID       uuid.UUID  `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	ControlID   uuid.UUID  `gorm:"column:control_id;type:uuid;not null;index" json:"control_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	URL         string     `gorm:"column:url" json:"url"`
	CollectedBy string     `gorm:"column:collected_by;not null" json:"collected_by"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Evidence) TableName() string {
	return "evidence"
}
