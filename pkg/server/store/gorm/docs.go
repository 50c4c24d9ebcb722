package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure DocsStore implements store.DocsStore
var _ store.DocsStore = (*DocsStore)(nil)

// DocsStore implements store.DocsStore using GORM
type DocsStore struct {
	db *gorm.DB
}

// NewDocsStore creates a new DocsStore
func NewDocsStore(db *gorm.DB) *DocsStore {
	return &DocsStore{db: db}
}

func (s *DocsStore) filtered(orgID uuid.UUID, filter store.DocumentFilter) *gorm.DB {
	query := s.db.Model(&model.Document{}).Where("org_id = ?", orgID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR slug ILIKE ?", pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	return query
}

// ListDocuments returns documents of an organization matching the filter
func (s *DocsStore) ListDocuments(orgID uuid.UUID, filter store.DocumentFilter) ([]model.Document, error) {
	query := s.filtered(orgID, filter).Order("title")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var documents []model.Document
	if err := query.Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// CountDocuments counts documents matching the filter, ignoring paging
func (s *DocsStore) CountDocuments(orgID uuid.UUID, filter store.DocumentFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetDocument retrieves a document by ID.
func (s *DocsStore) GetDocument(orgID, id uuid.UUID) (*model.Document, error) {
	var document model.Document
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&document).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrDocumentNotFound
		}
		return nil, err
	}
	return &document, nil
}

// GetDocumentBySlug retrieves a document by slug
func (s *DocsStore) GetDocumentBySlug(orgID uuid.UUID, slug string) (*model.Document, error) {
	var document model.Document
	err := s.db.Where("org_id = ? AND slug = ?", orgID, slug).First(&document).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrDocumentNotFound
		}
		return nil, err
	}
	return &document, nil
}

// CreateDocument creates a document.
func (s *DocsStore) CreateDocument(document *model.Document) error {
	taken, err := s.slugTaken(document.OrgID, document.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrDocumentSlugTaken
	}

	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	return s.db.Create(document).Error
}

// UpdateDocument saves changed document fields
func (s *DocsStore) UpdateDocument(document *model.Document) error {
	taken, err := s.slugTaken(document.OrgID, document.Slug, document.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrDocumentSlugTaken
	}
	return s.db.Save(document).Error
}

// DeleteDocument soft-deletes a document
func (s *DocsStore) DeleteDocument(document *model.Document) error {
	return s.db.Delete(document).Error
}

// CreateVersion appends a new version with the next number for the
// document. The document row is locked so concurrent writers cannot take
// the same number.
func (s *DocsStore) CreateVersion(document *model.Document, body, changeNote, createdBy string) (*model.DocumentVersion, error) {
	version := &model.DocumentVersion{
		ID:         uuid.New(),
		OrgID:      document.OrgID,
		DocumentID: document.ID,
		Body:       body,
		ChangeNote: changeNote,
		CreatedBy:  createdBy,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT id FROM documents WHERE id = ? FOR UPDATE", document.ID).Error; err != nil {
			return err
		}

		var latest int
		err := tx.Raw(
			"SELECT COALESCE(MAX(version), 0) FROM document_versions WHERE document_id = ?",
			document.ID,
		).Scan(&latest).Error
		if err != nil {
			return err
		}

		version.Version = latest + 1
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// ListVersions lists a document's versions, newest first
func (s *DocsStore) ListVersions(documentID uuid.UUID) ([]model.DocumentVersion, error) {
	var versions []model.DocumentVersion
	err := s.db.Where("document_id = ?", documentID).Order("version DESC").Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersion retrieves one version by its number.
func (s *DocsStore) GetVersion(documentID uuid.UUID, number int) (*model.DocumentVersion, error) {
	var version model.DocumentVersion
	err := s.db.Where("document_id = ? AND version = ?", documentID, number).First(&version).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

// PublishDocument marks the document published with the given version as
// current
func (s *DocsStore) PublishDocument(document *model.Document, version *model.DocumentVersion) error {
	document.Status = model.DocumentPublished
	document.CurrentVersionID = &version.ID
	return s.db.Save(document).Error
}

// CreateRollout starts a rollout of a document version to an audience
func (s *DocsStore) CreateRollout(rollout *model.Rollout) error {
	if rollout.ID == uuid.Nil {
		rollout.ID = uuid.New()
	}
	return s.db.Create(rollout).Error
}

// GetRollout retrieves a rollout by ID.
func (s *DocsStore) GetRollout(orgID, id uuid.UUID) (*model.Rollout, error) {
	var rollout model.Rollout
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&rollout).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrRolloutNotFound
		}
		return nil, err
	}
	return &rollout, nil
}

// ListRollouts lists rollouts of an organization, optionally narrowed to
// one document
func (s *DocsStore) ListRollouts(orgID uuid.UUID, documentID *uuid.UUID) ([]model.Rollout, error) {
	query := s.db.Where("org_id = ?", orgID)
	if documentID != nil {
		query = query.Where("document_id = ?", *documentID)
	}

	var rollouts []model.Rollout
	if err := query.Order("created_at DESC").Find(&rollouts).Error; err != nil {
		return nil, err
	}
	return rollouts, nil
}

// UpdateRollout saves changed rollout fields
func (s *DocsStore) UpdateRollout(rollout *model.Rollout) error {
	return s.db.Save(rollout).Error
}

// Acknowledge records that a person has read the rolled-out version. A
// second acknowledgment returns the existing record.
func (s *DocsStore) Acknowledge(rollout *model.Rollout, personID uuid.UUID) (*model.Acknowledgment, bool, error) {
	if rollout.Status != model.RolloutActive {
		return nil, false, store.ErrRolloutClosed
	}

	var existing model.Acknowledgment
	err := s.db.Where("rollout_id = ? AND person_id = ?", rollout.ID, personID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	ack := &model.Acknowledgment{
		ID:             uuid.New(),
		OrgID:          rollout.OrgID,
		RolloutID:      rollout.ID,
		PersonID:       personID,
		AcknowledgedAt: time.Now(),
	}
	if err := s.db.Create(ack).Error; err != nil {
		return nil, false, err
	}
	return ack, true, nil
}

// RolloutProgress reports acknowledgment counts and the pending persons
func (s *DocsStore) RolloutProgress(rollout *model.Rollout) (*store.RolloutProgress, error) {
	audience, err := s.AudiencePersons(rollout.OrgID, rollout.TeamID)
	if err != nil {
		return nil, err
	}

	var acks []model.Acknowledgment
	if err := s.db.Where("rollout_id = ?", rollout.ID).Find(&acks).Error; err != nil {
		return nil, err
	}

	acked := make(map[uuid.UUID]bool, len(acks))
	for _, ack := range acks {
		acked[ack.PersonID] = true
	}

	progress := &store.RolloutProgress{Total: len(audience), Pending: []model.Person{}}
	for _, person := range audience {
		if acked[person.ID] {
			progress.Acknowledged++
		} else {
			progress.Pending = append(progress.Pending, person)
		}
	}
	return progress, nil
}

// AudiencePersons lists the live persons a rollout addresses: the team's
// members, or every person when the rollout is org-wide
func (s *DocsStore) AudiencePersons(orgID uuid.UUID, teamID *uuid.UUID) ([]model.Person, error) {
	query := s.db.Where("org_id = ?", orgID)
	if teamID != nil {
		query = query.Where("team_id = ?", *teamID)
	}

	var persons []model.Person
	if err := query.Order("last_name, first_name").Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

// slugTaken reports whether another live document in the organization holds
// the slug. exclude skips the document being updated.
func (s *DocsStore) slugTaken(orgID uuid.UUID, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := s.db.Model(&model.Document{}).Where("org_id = ? AND slug = ?", orgID, slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
