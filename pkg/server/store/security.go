package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrFrameworkNotFound is returned when a framework doesn't exist
var ErrFrameworkNotFound = errors.New("framework not found")

// ErrFrameworkCodeTaken is returned when a framework code is already in use
var ErrFrameworkCodeTaken = errors.New("framework code already taken")

// ErrControlNotFound is returned when a control doesn't exist
var ErrControlNotFound = errors.New("control not found")

// ErrControlCodeTaken is returned when a control code is already in use
// within its framework
var ErrControlCodeTaken = errors.New("control code already taken")

// ErrRiskNotFound is returned when a risk doesn't exist
var ErrRiskNotFound = errors.New("risk not found")

// ErrEvidenceNotFound is returned when an evidence record doesn't exist
var ErrEvidenceNotFound = errors.New("evidence not found")

// SoARow pairs a control with its Statement of Applicability entry. Item is
// nil until the statement has been written; such controls default to
// applicable.
type SoARow struct {
	Control model.Control  `json:"control"`
	Item    *model.SoAItem `json:"item"`
}

// RiskFilter narrows risk listings. Zero values mean no filtering.
type RiskFilter struct {
	Status   string
	Category string
}

// RiskCell is one cell of the 5x5 likelihood/impact matrix.
type RiskCell struct {
	Likelihood int `json:"likelihood"`
	Impact     int `json:"impact"`
	Count      int `json:"count"`
}

// SecurityStore abstracts compliance storage operations
type SecurityStore interface {
	// ListFrameworks returns all frameworks of an organization
	ListFrameworks(orgID uuid.UUID) ([]model.Framework, error)

	// GetFramework retrieves a framework by ID.
	// Returns ErrFrameworkNotFound if the framework doesn't exist.
	GetFramework(orgID, id uuid.UUID) (*model.Framework, error)

	// CreateFramework creates a framework.
	// Returns ErrFrameworkCodeTaken on a duplicate code.
	CreateFramework(framework *model.Framework) error

	// UpdateFramework saves changed framework fields
	UpdateFramework(framework *model.Framework) error

	// DeleteFramework removes a framework with its controls and SoA rows
	DeleteFramework(framework *model.Framework) error

	// ListControls returns the controls of a framework ordered by code
	ListControls(orgID, frameworkID uuid.UUID) ([]model.Control, error)

	// GetControl retrieves a control by ID.
	// Returns ErrControlNotFound if the control doesn't exist.
	GetControl(orgID, id uuid.UUID) (*model.Control, error)

	// CreateControl creates a control.
	// Returns ErrControlCodeTaken on a duplicate code within the framework.
	CreateControl(control *model.Control) error

	// UpdateControl saves changed control fields
	UpdateControl(control *model.Control) error

	// DeleteControl removes a control with its SoA row and evidence
	DeleteControl(control *model.Control) error

	// SoAForFramework returns every control of a framework joined with its
	// SoA entry, ordered by control code
	SoAForFramework(orgID, frameworkID uuid.UUID) ([]SoARow, error)

	// UpsertSoAItem writes the SoA entry for a control, replacing any
	// previous statement
	UpsertSoAItem(item *model.SoAItem) error

	// ListRisks returns risks of an organization matching the filter
	ListRisks(orgID uuid.UUID, filter RiskFilter) ([]model.Risk, error)

	// GetRisk retrieves a risk by ID.
	// Returns ErrRiskNotFound if the risk doesn't exist.
	GetRisk(orgID, id uuid.UUID) (*model.Risk, error)

	// CreateRisk creates a risk
	CreateRisk(risk *model.Risk) error

	// UpdateRisk saves changed risk fields
	UpdateRisk(risk *model.Risk) error

	// DeleteRisk removes a risk
	DeleteRisk(risk *model.Risk) error

	// RiskMatrix counts open risks per likelihood/impact cell
	RiskMatrix(orgID uuid.UUID) ([]RiskCell, error)

	// ListEvidence returns the evidence attached to a control
	ListEvidence(orgID, controlID uuid.UUID) ([]model.Evidence, error)

	// GetEvidence retrieves an evidence record by ID.
	// Returns ErrEvidenceNotFound if the record doesn't exist.
	GetEvidence(orgID, id uuid.UUID) (*model.Evidence, error)

	// CreateEvidence attaches evidence to a control
	CreateEvidence(evidence *model.Evidence) error

	// DeleteEvidence removes an evidence record
	DeleteEvidence(evidence *model.Evidence) error
}
