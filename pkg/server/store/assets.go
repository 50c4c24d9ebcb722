package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrAssetNotFound is returned when an asset doesn't exist
var ErrAssetNotFound = errors.New("asset not found")

// ErrAssetTagTaken is returned when another live asset already has the tag
var ErrAssetTagTaken = errors.New("asset tag already taken")

// ErrAssetAlreadyAssigned is returned when assigning an asset that has an
// active assignment
var ErrAssetAlreadyAssigned = errors.New("asset is already assigned")

// ErrAssetNotAssigned is returned when returning an asset with no active
// assignment
var ErrAssetNotAssigned = errors.New("asset is not assigned")

// ErrAssetCategoryNotFound is returned when an asset category doesn't exist
var ErrAssetCategoryNotFound = errors.New("asset category not found")

// AssetFilter narrows asset listings. Zero values mean no filtering.
type AssetFilter struct {
	Search     string
	Status     string
	CategoryID *uuid.UUID
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}

// AssetsStore abstracts hardware inventory storage operations
type AssetsStore interface {
	// ListAssets returns assets of an organization matching the filter,
	// with categories preloaded
	ListAssets(orgID uuid.UUID, filter AssetFilter) ([]model.Asset, error)

	// CountAssets counts assets matching the filter, ignoring paging
	CountAssets(orgID uuid.UUID, filter AssetFilter) (int64, error)

	// GetAsset retrieves an asset by ID.
	// Returns ErrAssetNotFound if the asset doesn't exist.
	GetAsset(orgID, id uuid.UUID) (*model.Asset, error)

	// GetAssetByIntuneDeviceID retrieves an asset linked to an Intune device
	GetAssetByIntuneDeviceID(orgID uuid.UUID, deviceID string) (*model.Asset, error)

	// GetAssetBySerialNumber retrieves an asset by serial number
	GetAssetBySerialNumber(orgID uuid.UUID, serial string) (*model.Asset, error)

	// CreateAsset creates an asset.
	// Returns ErrAssetTagTaken on a duplicate tag.
	CreateAsset(asset *model.Asset) error

	// UpdateAsset saves changed asset fields
	UpdateAsset(asset *model.Asset) error

	// DeleteAsset soft-deletes an asset.
	// Returns ErrAssetAlreadyAssigned while an assignment is active.
	DeleteAsset(asset *model.Asset) error

	// NextAssetTag returns the next free auto-generated tag (IT-0001 style)
	NextAssetTag(orgID uuid.UUID) (string, error)

	// SyncedAssets lists live assets linked to an Intune device
	SyncedAssets(orgID uuid.UUID) ([]model.Asset, error)

	// ActiveAssignment returns the open assignment of an asset, or nil
	ActiveAssignment(assetID uuid.UUID) (*model.AssetAssignment, error)

	// AssignAsset opens an assignment and flips the asset to assigned.
	// Returns ErrAssetAlreadyAssigned if an assignment is already open.
	AssignAsset(asset *model.Asset, personID uuid.UUID, assignedBy, note string) (*model.AssetAssignment, error)

	// ReturnAsset closes the open assignment and flips the asset to
	// available.
	// Returns ErrAssetNotAssigned if no assignment is open.
	ReturnAsset(asset *model.Asset, returnedBy string) error

	// AssignmentHistory lists an asset's assignments, newest first
	AssignmentHistory(assetID uuid.UUID) ([]model.AssetAssignment, error)

	// RecordAssetEvent appends an entry to the asset's lifecycle log
	RecordAssetEvent(event *model.AssetEvent) error

	// AssetEvents lists an asset's lifecycle log, newest first
	AssetEvents(assetID uuid.UUID, limit int) ([]model.AssetEvent, error)

	// ListAssetCategories returns all categories of an organization
	ListAssetCategories(orgID uuid.UUID) ([]model.AssetCategory, error)

	// GetAssetCategory retrieves a category by ID.
	// Returns ErrAssetCategoryNotFound if the category doesn't exist.
	GetAssetCategory(orgID, id uuid.UUID) (*model.AssetCategory, error)

	// GetOrCreateAssetCategory finds a category by name, creating it on
	// first use. Device sync files synced hardware under its OS name.
	GetOrCreateAssetCategory(orgID uuid.UUID, name string) (*model.AssetCategory, error)

	// CreateAssetCategory creates a category
	CreateAssetCategory(category *model.AssetCategory) error

	// DeleteAssetCategory removes a category, detaching its assets
	DeleteAssetCategory(category *model.AssetCategory) error
}
