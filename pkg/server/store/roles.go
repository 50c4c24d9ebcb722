package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrRoleNotFound is returned when a role doesn't exist
var ErrRoleNotFound = errors.New("role not found")

// ErrRoleNameTaken is returned when a role name is already in use
var ErrRoleNameTaken = errors.New("role name already taken")

// ErrSystemRole is returned on attempts to modify or delete a seeded role
var ErrSystemRole = errors.New("system roles cannot be modified")

// RolesStore abstracts capability role storage operations
type RolesStore interface {
	// ListRoles returns all roles of an organization
	ListRoles(orgID uuid.UUID) ([]model.Role, error)

	// GetRole retrieves a role by ID.
	// Returns ErrRoleNotFound if the role doesn't exist.
	GetRole(orgID, id uuid.UUID) (*model.Role, error)

	// GetRoleByName retrieves a role by name
	GetRoleByName(orgID uuid.UUID, name string) (*model.Role, error)

	// CreateRole creates a custom role.
	// Returns ErrRoleNameTaken on a duplicate name.
	CreateRole(role *model.Role) error

	// UpdateRole saves changed role fields.
	// Returns ErrSystemRole for seeded roles.
	UpdateRole(role *model.Role) error

	// DeleteRole removes a custom role.
	// Returns ErrSystemRole for seeded roles.
	DeleteRole(role *model.Role) error
}
