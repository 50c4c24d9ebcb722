package gorm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure AssetsStore implements store.AssetsStore
var _ store.AssetsStore = (*AssetsStore)(nil)

// AssetsStore implements store.AssetsStore using GORM
type AssetsStore struct {
	db *gorm.DB
}

// NewAssetsStore creates a new AssetsStore
func NewAssetsStore(db *gorm.DB) *AssetsStore {
	return &AssetsStore{db: db}
}

func (s *AssetsStore) filtered(orgID uuid.UUID, filter store.AssetFilter) *gorm.DB {
	query := s.db.Model(&model.Asset{}).Where("assets.org_id = ?", orgID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"assets.tag ILIKE ? OR assets.name ILIKE ? OR assets.serial_number ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("assets.status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("assets.category_id = ?", *filter.CategoryID)
	}
	if filter.AssignedTo != nil {
		query = query.
			Joins("JOIN asset_assignments ON asset_assignments.asset_id = assets.id AND asset_assignments.returned_at IS NULL").
			Where("asset_assignments.person_id = ?", *filter.AssignedTo)
	}
	return query
}

// ListAssets returns assets of an organization matching the filter, with
// categories preloaded
func (s *AssetsStore) ListAssets(orgID uuid.UUID, filter store.AssetFilter) ([]model.Asset, error) {
	query := s.filtered(orgID, filter).Preload("Category").Order("assets.tag")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var assets []model.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// CountAssets counts assets matching the filter, ignoring paging
func (s *AssetsStore) CountAssets(orgID uuid.UUID, filter store.AssetFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetAsset retrieves an asset by ID.
func (s *AssetsStore) GetAsset(orgID, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	err := s.db.Preload("Category").Where("org_id = ? AND id = ?", orgID, id).First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// GetAssetByIntuneDeviceID retrieves an asset linked to an Intune device
func (s *AssetsStore) GetAssetByIntuneDeviceID(orgID uuid.UUID, deviceID string) (*model.Asset, error) {
	var asset model.Asset
	err := s.db.Where("org_id = ? AND intune_device_id = ?", orgID, deviceID).First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// GetAssetBySerialNumber retrieves an asset by serial number
func (s *AssetsStore) GetAssetBySerialNumber(orgID uuid.UUID, serial string) (*model.Asset, error) {
	var asset model.Asset
	err := s.db.Where("org_id = ? AND serial_number = ?", orgID, serial).First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// CreateAsset creates an asset.
func (s *AssetsStore) CreateAsset(asset *model.Asset) error {
	taken, err := s.tagTaken(asset.OrgID, asset.Tag, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrAssetTagTaken
	}

	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	return s.db.Create(asset).Error
}

// UpdateAsset saves changed asset fields
func (s *AssetsStore) UpdateAsset(asset *model.Asset) error {
	taken, err := s.tagTaken(asset.OrgID, asset.Tag, asset.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrAssetTagTaken
	}
	return s.db.Omit("Category").Save(asset).Error
}

// DeleteAsset soft-deletes an asset.
func (s *AssetsStore) DeleteAsset(asset *model.Asset) error {
	active, err := s.ActiveAssignment(asset.ID)
	if err != nil {
		return err
	}
	if active != nil {
		return store.ErrAssetAlreadyAssigned
	}
	return s.db.Delete(asset).Error
}

// NextAssetTag returns the next free auto-generated tag. Tags count up from
// the highest IT-<n> in use among live assets.
func (s *AssetsStore) NextAssetTag(orgID uuid.UUID) (string, error) {
	var highest int
	err := s.db.Raw(`
		SELECT COALESCE(MAX(CAST(SUBSTRING(tag FROM 'IT-([0-9]+)') AS INTEGER)), 0)
		FROM assets
		WHERE org_id = ? AND deleted_at IS NULL AND tag ~ '^IT-[0-9]+$'
	`, orgID).Scan(&highest).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("IT-%04d", highest+1), nil
}

// SyncedAssets lists live assets linked to an Intune device
func (s *AssetsStore) SyncedAssets(orgID uuid.UUID) ([]model.Asset, error) {
	var assets []model.Asset
	err := s.db.Where("org_id = ? AND intune_device_id IS NOT NULL", orgID).Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// ActiveAssignment returns the open assignment of an asset, or nil
func (s *AssetsStore) ActiveAssignment(assetID uuid.UUID) (*model.AssetAssignment, error) {
	var assignment model.AssetAssignment
	err := s.db.Preload("Person").
		Where("asset_id = ? AND returned_at IS NULL", assetID).
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// AssignAsset opens an assignment and flips the asset to assigned.
func (s *AssetsStore) AssignAsset(asset *model.Asset, personID uuid.UUID, assignedBy, note string) (*model.AssetAssignment, error) {
	assignment := &model.AssetAssignment{
		ID:         uuid.New(),
		OrgID:      asset.OrgID,
		AssetID:    asset.ID,
		PersonID:   personID,
		AssignedAt: time.Now(),
		AssignedBy: assignedBy,
		Note:       note,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&model.AssetAssignment{}).
			Where("asset_id = ? AND returned_at IS NULL", asset.ID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return store.ErrAssetAlreadyAssigned
		}

		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		return tx.Model(&model.Asset{}).Where("id = ?", asset.ID).
			Update("status", model.AssetAssigned).Error
	})
	if err != nil {
		return nil, err
	}

	asset.Status = model.AssetAssigned
	return assignment, nil
}

// ReturnAsset closes the open assignment and flips the asset to available.
func (s *AssetsStore) ReturnAsset(asset *model.Asset, returnedBy string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.AssetAssignment{}).
			Where("asset_id = ? AND returned_at IS NULL", asset.ID).
			Updates(map[string]interface{}{
				"returned_at": time.Now(),
				"returned_by": returnedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrAssetNotAssigned
		}

		return tx.Model(&model.Asset{}).Where("id = ?", asset.ID).
			Update("status", model.AssetAvailable).Error
	})
	if err != nil {
		return err
	}

	asset.Status = model.AssetAvailable
	return nil
}

// AssignmentHistory lists an asset's assignments, newest first
func (s *AssetsStore) AssignmentHistory(assetID uuid.UUID) ([]model.AssetAssignment, error) {
	var assignments []model.AssetAssignment
	err := s.db.Preload("Person").
		Where("asset_id = ?", assetID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// RecordAssetEvent appends an entry to the asset's lifecycle log
func (s *AssetsStore) RecordAssetEvent(event *model.AssetEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return s.db.Create(event).Error
}

// AssetEvents lists an asset's lifecycle log, newest first
func (s *AssetsStore) AssetEvents(assetID uuid.UUID, limit int) ([]model.AssetEvent, error) {
	query := s.db.Where("asset_id = ?", assetID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []model.AssetEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListAssetCategories returns all categories of an organization
func (s *AssetsStore) ListAssetCategories(orgID uuid.UUID) ([]model.AssetCategory, error) {
	var categories []model.AssetCategory
	if err := s.db.Where("org_id = ?", orgID).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetAssetCategory retrieves a category by ID.
func (s *AssetsStore) GetAssetCategory(orgID, id uuid.UUID) (*model.AssetCategory, error) {
	var category model.AssetCategory
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrAssetCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetOrCreateAssetCategory finds a category by name, creating it on first
// use
func (s *AssetsStore) GetOrCreateAssetCategory(orgID uuid.UUID, name string) (*model.AssetCategory, error) {
	var category model.AssetCategory
	err := s.db.Where("org_id = ? AND name = ?", orgID, name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	category = model.AssetCategory{ID: uuid.New(), OrgID: orgID, Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateAssetCategory creates a category
func (s *AssetsStore) CreateAssetCategory(category *model.AssetCategory) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return s.db.Create(category).Error
}

// DeleteAssetCategory removes a category, detaching its assets
func (s *AssetsStore) DeleteAssetCategory(category *model.AssetCategory) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Asset{}).
			Where("org_id = ? AND category_id = ?", category.OrgID, category.ID).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}

// tagTaken reports whether another live asset in the organization holds the
// tag. exclude skips the asset being updated.
func (s *AssetsStore) tagTaken(orgID uuid.UUID, tag string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := s.db.Model(&model.Asset{}).Where("org_id = ? AND tag = ?", orgID, tag)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
