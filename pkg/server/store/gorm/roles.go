package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// ListRoles returns all roles of an organization
func (s *RolesStore) ListRoles(orgID uuid.UUID) ([]model.Role, error) {
	var roles []model.Role
	if err := s.db.Where("org_id = ?", orgID).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRole retrieves a role by ID.
func (s *RolesStore) GetRole(orgID, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// GetRoleByName retrieves a role by name
func (s *RolesStore) GetRoleByName(orgID uuid.UUID, name string) (*model.Role, error) {
	var role model.Role
	err := s.db.Where("org_id = ? AND name = ?", orgID, name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// CreateRole creates a custom role.
func (s *RolesStore) CreateRole(role *model.Role) error {
	var count int64
	if err := s.db.Model(&model.Role{}).Where("org_id = ? AND name = ?", role.OrgID, role.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return store.ErrRoleNameTaken
	}

	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	role.System = false
	return s.db.Create(role).Error
}

// UpdateRole saves changed role fields.
func (s *RolesStore) UpdateRole(role *model.Role) error {
	if role.System {
		return store.ErrSystemRole
	}
	return s.db.Save(role).Error
}

// DeleteRole removes a custom role.
func (s *RolesStore) DeleteRole(role *model.Role) error {
	if role.System {
		return store.ErrSystemRole
	}
	return s.db.Delete(role).Error
}
