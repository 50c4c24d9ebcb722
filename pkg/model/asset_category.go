package model

import (
	"time"

	"github.com/google/uuid"
)

// AssetCategory is a per-organization grouping for assets (laptops, phones,
// monitors). Name is unique per organization.
type AssetCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID     uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AssetCategory) TableName() string {
	return "asset_categories"
}
