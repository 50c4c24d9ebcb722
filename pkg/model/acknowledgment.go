package model

import (
	"time"

	"github.com/google/uuid"
)

// Acknowledgment records that a person confirmed a rollout. One row per
// (rollout, person); repeat acknowledgments are no-ops.
type Acknowledgment struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID          uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	RolloutID      uuid.UUID `gorm:"column:rollout_id;type:uuid;not null;index" json:"rollout_id"`
	PersonID       uuid.UUID `gorm:"column:person_id;type:uuid;not null" json:"person_id"`
	AcknowledgedAt time.Time `gorm:"column:acknowledged_at;not null" json:"acknowledged_at"`
}

func (Acknowledgment) TableName() string {
	return "acknowledgments"
}
