package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// Ensure WorkflowsStore implements store.WorkflowsStore
var _ store.WorkflowsStore = (*WorkflowsStore)(nil)

// WorkflowsStore implements store.WorkflowsStore using GORM
type WorkflowsStore struct {
	db *gorm.DB
}

// NewWorkflowsStore creates a new WorkflowsStore
func NewWorkflowsStore(db *gorm.DB) *WorkflowsStore {
	return &WorkflowsStore{db: db}
}

func stepOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// ListTemplates returns all templates of an organization with their steps
func (s *WorkflowsStore) ListTemplates(orgID uuid.UUID) ([]model.WorkflowTemplate, error) {
	var templates []model.WorkflowTemplate
	err := s.db.Where("org_id = ?", orgID).
		Preload("Steps", stepOrder).
		Order("name").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate retrieves a template with its steps ordered by position.
func (s *WorkflowsStore) GetTemplate(orgID, id uuid.UUID) (*model.WorkflowTemplate, error) {
	var template model.WorkflowTemplate
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).
		Preload("Steps", stepOrder).
		First(&template).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

// CreateTemplate creates a template with its steps
func (s *WorkflowsStore) CreateTemplate(template *model.WorkflowTemplate) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	normalizeTemplateSteps(template)
	return s.db.Create(template).Error
}

// UpdateTemplate replaces a template's fields and steps
func (s *WorkflowsStore) UpdateTemplate(template *model.WorkflowTemplate) error {
	normalizeTemplateSteps(template)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", template.ID).Delete(&model.WorkflowTemplateStep{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Steps").Save(template).Error; err != nil {
			return err
		}
		if len(template.Steps) == 0 {
			return nil
		}
		return tx.Create(&template.Steps).Error
	})
}

// DeleteTemplate removes a template and its steps. Instances stamped out
// from it keep their copied steps and lose only the template reference.
func (s *WorkflowsStore) DeleteTemplate(template *model.WorkflowTemplate) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.WorkflowInstance{}).
			Where("template_id = ?", template.ID).
			Update("template_id", nil).Error
		if err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", template.ID).Delete(&model.WorkflowTemplateStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(template).Error
	})
}

// ImportTemplate upserts a template from a parsed template file, matching
// by name within the organization
func (s *WorkflowsStore) ImportTemplate(orgID uuid.UUID, file *workflow.TemplateFile) (*model.WorkflowTemplate, error) {
	template := &model.WorkflowTemplate{
		OrgID:       orgID,
		Name:        file.Name,
		Description: file.Description,
		Category:    file.Category,
	}
	for i, fileStep := range file.Steps {
		template.Steps = append(template.Steps, model.WorkflowTemplateStep{
			Position:      i + 1,
			Title:         fileStep.Title,
			Description:   fileStep.Description,
			AssigneeRole:  fileStep.AssigneeRole,
			DueOffsetDays: fileStep.DueOffsetDays,
		})
	}

	var existing model.WorkflowTemplate
	err := s.db.Where("org_id = ? AND name = ?", orgID, file.Name).First(&existing).Error
	switch {
	case err == nil:
		template.ID = existing.ID
		template.CreatedAt = existing.CreatedAt
		if err := s.UpdateTemplate(template); err != nil {
			return nil, err
		}
	case err == gorm.ErrRecordNotFound:
		if err := s.CreateTemplate(template); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return template, nil
}

// CreateInstance stamps out an instance from a template. Steps are copied
// with due dates computed from the start date; the instance due date is the
// latest step due date.
func (s *WorkflowsStore) CreateInstance(template *model.WorkflowTemplate, name string, subjectPersonID *uuid.UUID, createdBy string, startDate time.Time) (*model.WorkflowInstance, error) {
	if len(template.Steps) == 0 {
		return nil, store.ErrTemplateEmpty
	}

	instance := &model.WorkflowInstance{
		ID:              uuid.New(),
		OrgID:           template.OrgID,
		TemplateID:      &template.ID,
		Name:            name,
		SubjectPersonID: subjectPersonID,
		Status:          workflow.InstancePending,
		StartDate:       startDate,
		CreatedBy:       createdBy,
	}

	dues := make([]*time.Time, 0, len(template.Steps))
	for _, templateStep := range template.Steps {
		due := workflow.StepDue(startDate, templateStep.DueOffsetDays)
		dues = append(dues, due)
		instance.Steps = append(instance.Steps, model.WorkflowStep{
			ID:           uuid.New(),
			OrgID:        template.OrgID,
			InstanceID:   instance.ID,
			Position:     templateStep.Position,
			Title:        templateStep.Title,
			Description:  templateStep.Description,
			AssigneeRole: templateStep.AssigneeRole,
			Status:       workflow.StepPending,
			DueAt:        due,
		})
	}
	instance.DueAt = workflow.InstanceDue(dues)

	if err := s.db.Create(instance).Error; err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *WorkflowsStore) filteredInstances(orgID uuid.UUID, filter store.InstanceFilter) *gorm.DB {
	query := s.db.Model(&model.WorkflowInstance{}).Where("org_id = ?", orgID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}
	if filter.SubjectPersonID != nil {
		query = query.Where("subject_person_id = ?", *filter.SubjectPersonID)
	}
	return query
}

// ListInstances returns instances of an organization matching the filter,
// newest first, steps and subject preloaded
func (s *WorkflowsStore) ListInstances(orgID uuid.UUID, filter store.InstanceFilter) ([]model.WorkflowInstance, error) {
	query := s.filteredInstances(orgID, filter).
		Preload("Steps", stepOrder).
		Preload("SubjectPerson").
		Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var instances []model.WorkflowInstance
	if err := query.Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// CountInstances counts instances matching the filter, ignoring paging
func (s *WorkflowsStore) CountInstances(orgID uuid.UUID, filter store.InstanceFilter) (int64, error) {
	var count int64
	err := s.filteredInstances(orgID, filter).Count(&count).Error
	return count, err
}

// GetInstance retrieves an instance with its steps ordered by position.
func (s *WorkflowsStore) GetInstance(orgID, id uuid.UUID) (*model.WorkflowInstance, error) {
	var instance model.WorkflowInstance
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).
		Preload("Steps", stepOrder).
		Preload("SubjectPerson").
		First(&instance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrInstanceNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// UpdateInstance saves changed instance fields
func (s *WorkflowsStore) UpdateInstance(instance *model.WorkflowInstance) error {
	return s.db.Omit("Steps", "SubjectPerson").Save(instance).Error
}

// DeleteInstance removes an instance and its steps
func (s *WorkflowsStore) DeleteInstance(instance *model.WorkflowInstance) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("instance_id = ?", instance.ID).Delete(&model.WorkflowStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(instance).Error
	})
}

// GetStep retrieves a step by ID.
func (s *WorkflowsStore) GetStep(orgID, id uuid.UUID) (*model.WorkflowStep, error) {
	var step model.WorkflowStep
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&step).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrStepNotFound
		}
		return nil, err
	}
	return &step, nil
}

// SaveStep persists a step write and rederives the instance status in the
// same transaction. On hold and cancelled instances keep their manual
// status; everything else follows the steps, with CompletedAt maintained
// alongside.
func (s *WorkflowsStore) SaveStep(step *model.WorkflowStep) (*model.WorkflowInstance, error) {
	var instance model.WorkflowInstance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(step).Error; err != nil {
			return err
		}

		err := tx.Where("id = ?", step.InstanceID).
			Preload("Steps", stepOrder).
			Preload("SubjectPerson").
			First(&instance).Error
		if err != nil {
			return err
		}

		if instance.Status == workflow.InstanceOnHold || instance.Status == workflow.InstanceCancelled {
			return nil
		}

		derived := workflow.DeriveInstanceStatus(instance.StepStatuses())
		if derived == instance.Status {
			return nil
		}

		instance.Status = derived
		if derived == workflow.InstanceCompleted {
			now := time.Now()
			instance.CompletedAt = &now
		} else {
			instance.CompletedAt = nil
		}
		return tx.Omit("Steps", "SubjectPerson").Save(&instance).Error
	})
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// normalizeTemplateSteps stamps org, template and position onto a
// template's steps and assigns IDs where missing
func normalizeTemplateSteps(template *model.WorkflowTemplate) {
	for i := range template.Steps {
		step := &template.Steps[i]
		if step.ID == uuid.Nil {
			step.ID = uuid.New()
		}
		step.OrgID = template.OrgID
		step.TemplateID = template.ID
		step.Position = i + 1
	}
}
