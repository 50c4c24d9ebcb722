package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrDocumentNotFound is returned when a document doesn't exist
var ErrDocumentNotFound = errors.New("document not found")

// ErrDocumentSlugTaken is returned when another live document already has
// the slug
var ErrDocumentSlugTaken = errors.New("document slug already taken")

// ErrVersionNotFound is returned when a document version doesn't exist
var ErrVersionNotFound = errors.New("document version not found")

// ErrRolloutNotFound is returned when a rollout doesn't exist
var ErrRolloutNotFound = errors.New("rollout not found")

// ErrRolloutClosed is returned on acknowledgment of a completed or
// cancelled rollout
var ErrRolloutClosed = errors.New("rollout is closed")

// DocumentFilter narrows document listings. Zero values mean no filtering.
type DocumentFilter struct {
	Search   string
	Status   string
	Category string
	Limit    int
	Offset   int
}

// RolloutProgress summarizes acknowledgment state of a rollout.
type RolloutProgress struct {
	Total        int            `json:"total"`
	Acknowledged int            `json:"acknowledged"`
	Pending      []model.Person `json:"pending"`
}

// DocsStore abstracts document storage operations
type DocsStore interface {
	// ListDocuments returns documents of an organization matching the filter
	ListDocuments(orgID uuid.UUID, filter DocumentFilter) ([]model.Document, error)

	// CountDocuments counts documents matching the filter, ignoring paging
	CountDocuments(orgID uuid.UUID, filter DocumentFilter) (int64, error)

	// GetDocument retrieves a document by ID.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	GetDocument(orgID, id uuid.UUID) (*model.Document, error)

	// GetDocumentBySlug retrieves a document by slug
	GetDocumentBySlug(orgID uuid.UUID, slug string) (*model.Document, error)

	// CreateDocument creates a document.
	// Returns ErrDocumentSlugTaken on a duplicate slug.
	CreateDocument(document *model.Document) error

	// UpdateDocument saves changed document fields
	UpdateDocument(document *model.Document) error

	// DeleteDocument soft-deletes a document
	DeleteDocument(document *model.Document) error

	// CreateVersion appends a new version with the next number for the
	// document
	CreateVersion(document *model.Document, body, changeNote, createdBy string) (*model.DocumentVersion, error)

	// ListVersions lists a document's versions, newest first
	ListVersions(documentID uuid.UUID) ([]model.DocumentVersion, error)

	// GetVersion retrieves one version by its number.
	// Returns ErrVersionNotFound if the version doesn't exist.
	GetVersion(documentID uuid.UUID, number int) (*model.DocumentVersion, error)

	// PublishDocument marks the document published with the given version
	// as current
	PublishDocument(document *model.Document, version *model.DocumentVersion) error

	// CreateRollout starts a rollout of a document version to an audience
	CreateRollout(rollout *model.Rollout) error

	// GetRollout retrieves a rollout by ID.
	// Returns ErrRolloutNotFound if the rollout doesn't exist.
	GetRollout(orgID, id uuid.UUID) (*model.Rollout, error)

	// ListRollouts lists rollouts of an organization, optionally narrowed
	// to one document
	ListRollouts(orgID uuid.UUID, documentID *uuid.UUID) ([]model.Rollout, error)

	// UpdateRollout saves changed rollout fields
	UpdateRollout(rollout *model.Rollout) error

	// Acknowledge records that a person has read the rolled-out version.
	// A second acknowledgment returns the existing record with created
	// false. Returns ErrRolloutClosed for completed or cancelled rollouts.
	Acknowledge(rollout *model.Rollout, personID uuid.UUID) (*model.Acknowledgment, bool, error)

	// RolloutProgress reports acknowledgment counts and the pending persons
	RolloutProgress(rollout *model.Rollout) (*RolloutProgress, error)

	// AudiencePersons lists the live persons a rollout addresses: the
	// team's members, or every person when the rollout is org-wide
	AudiencePersons(orgID uuid.UUID, teamID *uuid.UUID) ([]model.Person, error)
}
