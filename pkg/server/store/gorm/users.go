package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// ListUsers returns all users of an organization with their roles
func (s *UsersStore) ListUsers(orgID uuid.UUID) ([]model.User, error) {
	var users []model.User
	if err := s.db.Preload("Role").Where("org_id = ?", orgID).Order("email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser retrieves a user by ID with the role preloaded.
func (s *UsersStore) GetUser(orgID, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := s.db.Preload("Role").Where("org_id = ? AND id = ?", orgID, id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, any organization
func (s *UsersStore) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := s.db.Preload("Role").Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByAzureObjectID retrieves a user by Azure AD object ID
func (s *UsersStore) GetUserByAzureObjectID(objectID string) (*model.User, error) {
	var user model.User
	err := s.db.Preload("Role").Where("azure_object_id = ?", objectID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user.
func (s *UsersStore) CreateUser(user *model.User) error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("LOWER(email) = LOWER(?)", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return store.ErrUserEmailTaken
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return s.db.Create(user).Error
}

// UpdateUser saves changed user fields. When the change demotes or disables
// an admin it verifies another active admin remains.
func (s *UsersStore) UpdateUser(user *model.User) error {
	var current model.User
	err := s.db.Preload("Role").Where("org_id = ? AND id = ?", user.OrgID, user.ID).First(&current).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return store.ErrUserNotFound
		}
		return err
	}

	if current.Role != nil && current.Role.HasCapability(model.CapOrgAdmin) && !current.Disabled {
		demoted := false
		if user.RoleID != current.RoleID {
			var newRole model.Role
			if err := s.db.Where("org_id = ? AND id = ?", user.OrgID, user.RoleID).First(&newRole).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return store.ErrRoleNotFound
				}
				return err
			}
			demoted = !newRole.HasCapability(model.CapOrgAdmin)
		}
		if demoted || user.Disabled {
			admins, err := s.CountActiveAdmins(user.OrgID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return store.ErrLastAdmin
			}
		}
	}

	// Role association is read-only here; Save would cascade it.
	user.Role = nil
	return s.db.Omit("Role").Save(user).Error
}

// SetPassword replaces a user's password hash
func (s *UsersStore) SetPassword(userID uuid.UUID, passwordHash string) error {
	return s.db.Model(&model.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

// TouchLastLogin records a successful login
func (s *UsersStore) TouchLastLogin(userID uuid.UUID) error {
	return s.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login_at", time.Now()).Error
}

// CountActiveAdmins counts enabled users holding the org:admin capability
func (s *UsersStore) CountActiveAdmins(orgID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&model.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.org_id = ? AND users.disabled = false AND ? = ANY(roles.capabilities)", orgID, model.CapOrgAdmin).
		Count(&count).Error
	return count, err
}
