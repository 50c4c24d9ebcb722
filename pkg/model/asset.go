package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset statuses. Assigned and available flip through the assignment
// endpoints; lost is also set by device sync for orphaned devices.
const (
	AssetAvailable = "available"
	AssetAssigned  = "assigned"
	AssetInRepair  = "in_repair"
	AssetRetired   = "retired"
	AssetLost      = "lost"
)

// AssetStatuses lists the accepted asset statuses.
func AssetStatuses() []string {
	return []string{AssetAvailable, AssetAssigned, AssetInRepair, AssetRetired, AssetLost}
}

// Asset is a piece of hardware tracked in the inventory. Tag is unique per
// organization among live rows. The Intune fields are populated by device
// sync and empty for manually created assets.
type Asset struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID           uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Tag             string         `gorm:"column:tag;not null" json:"tag"`
	Name            string         `gorm:"column:name;not null" json:"name"`
	CategoryID      *uuid.UUID     `gorm:"column:category_id;type:uuid" json:"category_id,omitempty"`
	Category        *AssetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Status          string         `gorm:"column:status;not null;default:available" json:"status"`
	SerialNumber    string         `gorm:"column:serial_number" json:"serial_number"`
	Model           string         `gorm:"column:model" json:"model"`
	Manufacturer    string         `gorm:"column:manufacturer" json:"manufacturer"`
	PurchaseDate    *time.Time     `gorm:"column:purchase_date" json:"purchase_date,omitempty"`
	WarrantyUntil   *time.Time     `gorm:"column:warranty_until" json:"warranty_until,omitempty"`
	Notes           string         `gorm:"column:notes" json:"notes"`
	IntuneDeviceID  *string        `gorm:"column:intune_device_id" json:"intune_device_id,omitempty"`
	ComplianceState string         `gorm:"column:compliance_state" json:"compliance_state,omitempty"`
	OSName          string         `gorm:"column:os_name" json:"os_name,omitempty"`
	OSVersion       string         `gorm:"column:os_version" json:"os_version,omitempty"`
	LastSyncAt      *time.Time     `gorm:"column:last_sync_at" json:"last_sync_at,omitempty"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Asset) TableName() string {
	return "assets"
}

// Synced reports whether the asset is linked to an Intune device.
func (a *Asset) Synced() bool {
	return a.IntuneDeviceID != nil && *a.IntuneDeviceID != ""
}
