package model

import (
	"time"

	"github.com/google/uuid"
)

// AssetAssignment records one custody period of an asset. The row with a
// NULL ReturnedAt is the active assignment; stores guarantee at most one per
// asset by closing the open row before creating a new one.
type AssetAssignment struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID      uuid.UUID  `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	AssetID    uuid.UUID  `gorm:"column:asset_id;type:uuid;not null;index" json:"asset_id"`
	PersonID   uuid.UUID  `gorm:"column:person_id;type:uuid;not null;index" json:"person_id"`
	Person     *Person    `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	AssignedAt time.Time  `gorm:"column:assigned_at;not null" json:"assigned_at"`
	AssignedBy string     `gorm:"column:assigned_by;not null" json:"assigned_by"`
	ReturnedAt *time.Time `gorm:"column:returned_at" json:"returned_at,omitempty"`
	ReturnedBy string     `gorm:"column:returned_by" json:"returned_by,omitempty"`
	Note       string     `gorm:"column:note" json:"note,omitempty"`
}

func (AssetAssignment) TableName() string {
	return "asset_assignments"
}

// Active reports whether the assignment is still open.
func (a *AssetAssignment) Active() bool {
	return a.ReturnedAt == nil
}
