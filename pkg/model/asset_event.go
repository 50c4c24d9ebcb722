package model

import (
	"time"

	"github.com/google/uuid"
)

// Asset event types. The event log is append-only.
const (
	AssetEventCreated       = "created"
	AssetEventUpdated       = "updated"
	AssetEventAssigned      = "assigned"
	AssetEventReturned      = "returned"
	AssetEventStatusChanged = "status_changed"
	AssetEventSynced        = "synced"
	AssetEventDeleted       = "deleted"
)

// AssetEvent is one entry in an asset's history.
type AssetEvent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID     uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;not null;index" json:"asset_id"`
	Type      string    `gorm:"column:type;not null" json:"type"`
	Actor     string    `gorm:"column:actor;not null" json:"actor"`
	Detail    string    `gorm:"column:detail" json:"detail"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AssetEvent) TableName() string {
	return "asset_events"
}

// NewAssetEvent builds an event row for an asset.
func NewAssetEvent(orgID, assetID uuid.UUID, eventType, actor, detail string) *AssetEvent {
	return &AssetEvent{
		ID:      uuid.New(),
		OrgID:   orgID,
		AssetID: assetID,
		Type:    eventType,
		Actor:   actor,
		Detail:  detail,
	}
}
