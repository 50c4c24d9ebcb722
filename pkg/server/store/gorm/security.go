package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure SecurityStore implements store.SecurityStore
var _ store.SecurityStore = (*SecurityStore)(nil)

// SecurityStore implements store.SecurityStore using GORM
type SecurityStore struct {
	db *gorm.DB
}

// NewSecurityStore creates a new SecurityStore
func NewSecurityStore(db *gorm.DB) *SecurityStore {
	return &SecurityStore{db: db}
}

// ListFrameworks returns all frameworks of an organization
func (s *SecurityStore) ListFrameworks(orgID uuid.UUID) ([]model.Framework, error) {
	var frameworks []model.Framework
	if err := s.db.Where("org_id = ?", orgID).Order("code").Find(&frameworks).Error; err != nil {
		return nil, err
	}
	return frameworks, nil
}

// GetFramework retrieves a framework by ID.
func (s *SecurityStore) GetFramework(orgID, id uuid.UUID) (*model.Framework, error) {
	var framework model.Framework
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&framework).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrFrameworkNotFound
		}
		return nil, err
	}
	return &framework, nil
}

// CreateFramework creates a framework.
func (s *SecurityStore) CreateFramework(framework *model.Framework) error {
	var count int64
	err := s.db.Model(&model.Framework{}).
		Where("org_id = ? AND code = ?", framework.OrgID, framework.Code).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return store.ErrFrameworkCodeTaken
	}

	if framework.ID == uuid.Nil {
		framework.ID = uuid.New()
	}
	return s.db.Create(framework).Error
}

// UpdateFramework saves changed framework fields
func (s *SecurityStore) UpdateFramework(framework *model.Framework) error {
	return s.db.Save(framework).Error
}

// DeleteFramework removes a framework with its controls and SoA rows
func (s *SecurityStore) DeleteFramework(framework *model.Framework) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			DELETE FROM evidence WHERE control_id IN
				(SELECT id FROM controls WHERE framework_id = ?)
		`, framework.ID).Error
		if err != nil {
			return err
		}
		if err := tx.Where("framework_id = ?", framework.ID).Delete(&model.SoAItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("framework_id = ?", framework.ID).Delete(&model.Control{}).Error; err != nil {
			return err
		}
		return tx.Delete(framework).Error
	})
}

// ListControls returns the controls of a framework ordered by code
func (s *SecurityStore) ListControls(orgID, frameworkID uuid.UUID) ([]model.Control, error) {
	var controls []model.Control
	err := s.db.Where("org_id = ? AND framework_id = ?", orgID, frameworkID).
		Order("code").Find(&controls).Error
	if err != nil {
		return nil, err
	}
	return controls, nil
}

// GetControl retrieves a control by ID.
func (s *SecurityStore) GetControl(orgID, id uuid.UUID) (*model.Control, error) {
	var control model.Control
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&control).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrControlNotFound
		}
		return nil, err
	}
	return &control, nil
}

// CreateControl creates a control.
func (s *SecurityStore) CreateControl(control *model.Control) error {
	taken, err := s.controlCodeTaken(control.OrgID, control.FrameworkID, control.Code, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrControlCodeTaken
	}

	if control.ID == uuid.Nil {
		control.ID = uuid.New()
	}
	return s.db.Create(control).Error
}

// UpdateControl saves changed control fields
func (s *SecurityStore) UpdateControl(control *model.Control) error {
	taken, err := s.controlCodeTaken(control.OrgID, control.FrameworkID, control.Code, control.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrControlCodeTaken
	}
	return s.db.Save(control).Error
}

// DeleteControl removes a control with its SoA row and evidence
func (s *SecurityStore) DeleteControl(control *model.Control) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("control_id = ?", control.ID).Delete(&model.Evidence{}).Error; err != nil {
			return err
		}
		if err := tx.Where("control_id = ?", control.ID).Delete(&model.SoAItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(control).Error
	})
}

// SoAForFramework returns every control of a framework joined with its SoA
// entry, ordered by control code. Controls without an entry carry a nil
// item and count as applicable.
func (s *SecurityStore) SoAForFramework(orgID, frameworkID uuid.UUID) ([]store.SoARow, error) {
	controls, err := s.ListControls(orgID, frameworkID)
	if err != nil {
		return nil, err
	}

	var items []model.SoAItem
	err = s.db.Where("org_id = ? AND framework_id = ?", orgID, frameworkID).Find(&items).Error
	if err != nil {
		return nil, err
	}

	byControl := make(map[uuid.UUID]*model.SoAItem, len(items))
	for i := range items {
		byControl[items[i].ControlID] = &items[i]
	}

	rows := make([]store.SoARow, len(controls))
	for i, control := range controls {
		rows[i] = store.SoARow{Control: control, Item: byControl[control.ID]}
	}
	return rows, nil
}

// UpsertSoAItem writes the SoA entry for a control, replacing any previous
// statement
func (s *SecurityStore) UpsertSoAItem(item *model.SoAItem) error {
	var existing model.SoAItem
	err := s.db.Where("org_id = ? AND control_id = ?", item.OrgID, item.ControlID).First(&existing).Error
	if err == nil {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		return s.db.Save(item).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return s.db.Create(item).Error
}

// ListRisks returns risks of an organization matching the filter
func (s *SecurityStore) ListRisks(orgID uuid.UUID, filter store.RiskFilter) ([]model.Risk, error) {
	query := s.db.Where("org_id = ?", orgID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var risks []model.Risk
	if err := query.Order("score DESC, title").Find(&risks).Error; err != nil {
		return nil, err
	}
	return risks, nil
}

// GetRisk retrieves a risk by ID.
func (s *SecurityStore) GetRisk(orgID, id uuid.UUID) (*model.Risk, error) {
	var risk model.Risk
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&risk).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrRiskNotFound
		}
		return nil, err
	}
	return &risk, nil
}

// CreateRisk creates a risk
func (s *SecurityStore) CreateRisk(risk *model.Risk) error {
	if risk.ID == uuid.Nil {
		risk.ID = uuid.New()
	}
	risk.Recalculate()
	return s.db.Create(risk).Error
}

// UpdateRisk saves changed risk fields
func (s *SecurityStore) UpdateRisk(risk *model.Risk) error {
	risk.Recalculate()
	return s.db.Save(risk).Error
}

// DeleteRisk removes a risk
func (s *SecurityStore) DeleteRisk(risk *model.Risk) error {
	return s.db.Delete(risk).Error
}

// RiskMatrix counts non-closed risks per likelihood/impact cell
func (s *SecurityStore) RiskMatrix(orgID uuid.UUID) ([]store.RiskCell, error) {
	var cells []store.RiskCell
	err := s.db.Model(&model.Risk{}).
		Select("likelihood, impact, COUNT(*) AS count").
		Where("org_id = ? AND status <> ?", orgID, model.RiskClosed).
		Group("likelihood, impact").
		Order("likelihood, impact").
		Scan(&cells).Error
	if err != nil {
		return nil, err
	}
	return cells, nil
}

// ListEvidence returns the evidence attached to a control
func (s *SecurityStore) ListEvidence(orgID, controlID uuid.UUID) ([]model.Evidence, error) {
	var evidence []model.Evidence
	err := s.db.Where("org_id = ? AND control_id = ?", orgID, controlID).
		Order("created_at DESC").Find(&evidence).Error
	if err != nil {
		return nil, err
	}
	return evidence, nil
}

// GetEvidence retrieves an evidence record by ID.
func (s *SecurityStore) GetEvidence(orgID, id uuid.UUID) (*model.Evidence, error) {
	var evidence model.Evidence
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&evidence).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrEvidenceNotFound
		}
		return nil, err
	}
	return &evidence, nil
}

// CreateEvidence attaches evidence to a control
func (s *SecurityStore) CreateEvidence(evidence *model.Evidence) error {
	if evidence.ID == uuid.Nil {
		evidence.ID = uuid.New()
	}
	return s.db.Create(evidence).Error
}

// DeleteEvidence removes an evidence record
func (s *SecurityStore) DeleteEvidence(evidence *model.Evidence) error {
	return s.db.Delete(evidence).Error
}

// controlCodeTaken reports whether another control of the framework holds
// the code. exclude skips the control being updated.
func (s *SecurityStore) controlCodeTaken(orgID, frameworkID uuid.UUID, code string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := s.db.Model(&model.Control{}).
		Where("org_id = ? AND framework_id = ? AND code = ?", orgID, frameworkID, code)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
