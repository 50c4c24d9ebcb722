package devicesync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/msgraph"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// DeviceLister fetches the remote managed device list. *msgraph.Client
// satisfies it.
type DeviceLister interface {
	ListManagedDevices(ctx context.Context) ([]msgraph.ManagedDevice, error)
}

// Report tallies one reconciliation run. Every remote device lands in
// exactly one of Created, Reassigned, Updated or Unchanged; Orphaned counts
// local assets absent from the remote list.
type Report struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Reassigned int `json:"reassigned"`
	Orphaned   int `json:"orphaned"`
	Unchanged  int `json:"unchanged"`
}

// Syncer reconciles the Intune device list into the asset inventory.
// DeleteOrphans switches orphan handling from marking assets lost to
// soft-deleting them.
type Syncer struct {
	Devices       DeviceLister
	Assets        store.AssetsStore
	People        store.PeopleStore
	DeleteOrphans bool
	Logger        *zap.Logger
}

// Run fetches the remote device list and reconciles it into the
// organization's assets. Actor is recorded on every asset event the run
// writes.
func (s *Syncer) Run(ctx context.Context, orgID uuid.UUID, actor string) (*Report, error) {
	log := s.logger()

	devices, err := s.Devices.ListManagedDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing managed devices: %w", err)
	}
	log.Info("device sync started",
		zap.String("org_id", orgID.String()),
		zap.Int("devices", len(devices)))

	report := &Report{}
	seen := make(map[string]bool, len(devices))
	for _, device := range devices {
		seen[device.ID] = true
		if err := s.syncDevice(orgID, actor, device, report); err != nil {
			return nil, fmt.Errorf("syncing device %s: %w", device.ID, err)
		}
	}

	if err := s.orphanAssets(orgID, actor, seen, report); err != nil {
		return nil, err
	}

	log.Info("device sync complete",
		zap.String("org_id", orgID.String()),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("reassigned", report.Reassigned),
		zap.Int("orphaned", report.Orphaned),
		zap.Int("unchanged", report.Unchanged))
	return report, nil
}

func (s *Syncer) syncDevice(orgID uuid.UUID, actor string, device msgraph.ManagedDevice, report *Report) error {
	asset, err := s.lookupAsset(orgID, device)
	if err != nil {
		return err
	}

	if asset == nil {
		asset, err = s.createAsset(orgID, actor, device)
		if err != nil {
			return err
		}
		report.Created++
		_, err = s.reconcileAssignment(orgID, actor, asset, device)
		return err
	}

	changed := applyDevice(asset, device)
	if changed {
		if err := s.Assets.UpdateAsset(asset); err != nil {
			return err
		}
		event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventSynced, actor, "updated from Intune device "+device.DeviceName)
		if err := s.Assets.RecordAssetEvent(event); err != nil {
			return err
		}
	}

	reassigned, err := s.reconcileAssignment(orgID, actor, asset, device)
	if err != nil {
		return err
	}

	switch {
	case reassigned:
		report.Reassigned++
	case changed:
		report.Updated++
	default:
		report.Unchanged++
	}
	return nil
}

// lookupAsset matches a remote device to a local asset by Intune device ID,
// then by serial number. Returns nil when neither matches.
func (s *Syncer) lookupAsset(orgID uuid.UUID, device msgraph.ManagedDevice) (*model.Asset, error) {
	asset, err := s.Assets.GetAssetByIntuneDeviceID(orgID, device.ID)
	if err == nil {
		return asset, nil
	}
	if err != store.ErrAssetNotFound {
		return nil, err
	}

	if device.SerialNumber == "" {
		return nil, nil
	}
	asset, err = s.Assets.GetAssetBySerialNumber(orgID, device.SerialNumber)
	if err == nil {
		return asset, nil
	}
	if err == store.ErrAssetNotFound {
		return nil, nil
	}
	return nil, err
}

func (s *Syncer) createAsset(orgID uuid.UUID, actor string, device msgraph.ManagedDevice) (*model.Asset, error) {
	tag, err := s.Assets.NextAssetTag(orgID)
	if err != nil {
		return nil, err
	}

	deviceID := device.ID
	lastSync := device.LastSyncDateTime
	asset := &model.Asset{
		ID:              uuid.New(),
		OrgID:           orgID,
		Tag:             tag,
		Name:            device.DeviceName,
		Status:          model.AssetAvailable,
		SerialNumber:    device.SerialNumber,
		Model:           device.Model,
		Manufacturer:    device.Manufacturer,
		IntuneDeviceID:  &deviceID,
		ComplianceState: device.ComplianceState,
		OSName:          device.OperatingSystem,
		OSVersion:       device.OSVersion,
		LastSyncAt:      &lastSync,
	}
	if asset.Name == "" {
		asset.Name = tag
	}
	if device.OperatingSystem != "" {
		category, err := s.Assets.GetOrCreateAssetCategory(orgID, device.OperatingSystem)
		if err != nil {
			return nil, err
		}
		asset.CategoryID = &category.ID
	}

	if err := s.Assets.CreateAsset(asset); err != nil {
		return nil, err
	}

	s.logger().Debug("asset created from device",
		zap.String("tag", asset.Tag),
		zap.String("intune_device_id", device.ID))
	event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventSynced, actor, "created from Intune device "+device.DeviceName)
	if err := s.Assets.RecordAssetEvent(event); err != nil {
		return nil, err
	}
	return asset, nil
}

// reconcileAssignment makes the asset's active assignment follow the
// device's user principal name. A principal name that matches no person
// leaves custody untouched.
func (s *Syncer) reconcileAssignment(orgID uuid.UUID, actor string, asset *model.Asset, device msgraph.ManagedDevice) (bool, error) {
	current, err := s.Assets.ActiveAssignment(asset.ID)
	if err != nil {
		return false, err
	}

	if device.UserPrincipalName == "" {
		if current == nil {
			return false, nil
		}
		if err := s.Assets.ReturnAsset(asset, actor); err != nil {
			return false, err
		}
		event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventReturned, actor, "returned, Intune reports no user")
		return true, s.Assets.RecordAssetEvent(event)
	}

	person, err := s.People.GetPersonByEmail(orgID, device.UserPrincipalName)
	if err == store.ErrPersonNotFound {
		s.logger().Debug("device user matches no person",
			zap.String("user_principal_name", device.UserPrincipalName),
			zap.String("tag", asset.Tag))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if current != nil && current.PersonID == person.ID {
		return false, nil
	}
	if current != nil {
		if err := s.Assets.ReturnAsset(asset, actor); err != nil {
			return false, err
		}
		event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventReturned, actor, "reassigned by device sync")
		if err := s.Assets.RecordAssetEvent(event); err != nil {
			return false, err
		}
	}
	if _, err := s.Assets.AssignAsset(asset, person.ID, actor, "device sync"); err != nil {
		return false, err
	}
	event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventAssigned, actor, "assigned to "+person.Email+" by device sync")
	return true, s.Assets.RecordAssetEvent(event)
}

// orphanAssets handles previously synced assets missing from the remote
// list: mark them lost, or soft-delete them when DeleteOrphans is set.
func (s *Syncer) orphanAssets(orgID uuid.UUID, actor string, seen map[string]bool, report *Report) error {
	synced, err := s.Assets.SyncedAssets(orgID)
	if err != nil {
		return err
	}

	for i := range synced {
		asset := &synced[i]
		if seen[*asset.IntuneDeviceID] {
			continue
		}

		if s.DeleteOrphans {
			current, err := s.Assets.ActiveAssignment(asset.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := s.Assets.ReturnAsset(asset, actor); err != nil {
					return err
				}
			}
			if err := s.Assets.DeleteAsset(asset); err != nil {
				return err
			}
			event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventDeleted, actor, "deleted, absent from Intune")
			if err := s.Assets.RecordAssetEvent(event); err != nil {
				return err
			}
			report.Orphaned++
			continue
		}

		// An asset already marked lost was orphaned by an earlier run.
		if asset.Status == model.AssetLost {
			continue
		}
		asset.Status = model.AssetLost
		if err := s.Assets.UpdateAsset(asset); err != nil {
			return err
		}
		event := model.NewAssetEvent(orgID, asset.ID, model.AssetEventStatusChanged, actor, "marked lost, absent from Intune")
		if err := s.Assets.RecordAssetEvent(event); err != nil {
			return err
		}
		report.Orphaned++
	}
	return nil
}

// applyDevice copies drifted device fields onto the asset and reports
// whether anything changed. Remote empty strings never clobber local
// values; a lost asset that reappears remotely becomes available again.
func applyDevice(asset *model.Asset, device msgraph.ManagedDevice) bool {
	changed := false

	if !asset.Synced() || *asset.IntuneDeviceID != device.ID {
		deviceID := device.ID
		asset.IntuneDeviceID = &deviceID
		changed = true
	}
	if device.DeviceName != "" && asset.Name != device.DeviceName {
		asset.Name = device.DeviceName
		changed = true
	}
	if device.SerialNumber != "" && asset.SerialNumber != device.SerialNumber {
		asset.SerialNumber = device.SerialNumber
		changed = true
	}
	if device.Model != "" && asset.Model != device.Model {
		asset.Model = device.Model
		changed = true
	}
	if device.Manufacturer != "" && asset.Manufacturer != device.Manufacturer {
		asset.Manufacturer = device.Manufacturer
		changed = true
	}
	if device.ComplianceState != "" && asset.ComplianceState != device.ComplianceState {
		asset.ComplianceState = device.ComplianceState
		changed = true
	}
	if device.OperatingSystem != "" && asset.OSName != device.OperatingSystem {
		asset.OSName = device.OperatingSystem
		changed = true
	}
	if device.OSVersion != "" && asset.OSVersion != device.OSVersion {
		asset.OSVersion = device.OSVersion
		changed = true
	}
	if asset.Status == model.AssetLost {
		asset.Status = model.AssetAvailable
		changed = true
	}
	if asset.LastSyncAt == nil || !asset.LastSyncAt.Equal(device.LastSyncDateTime) {
		lastSync := device.LastSyncDateTime
		asset.LastSyncAt = &lastSync
		changed = true
	}

	return changed
}

func (s *Syncer) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
