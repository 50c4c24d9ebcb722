package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// ErrUserEmailTaken is returned when a user email is already registered
var ErrUserEmailTaken = errors.New("user email already taken")

// ErrLastAdmin is returned when a change would leave the organization
// without an active admin
var ErrLastAdmin = errors.New("organization must keep at least one active admin")

// UsersStore abstracts user storage operations. Lookups by email and Azure
// object ID are global; email is unique across organizations so a login
// resolves to exactly one tenant.
type UsersStore interface {
	// ListUsers returns all users of an organization with their roles
	ListUsers(orgID uuid.UUID) ([]model.User, error)

	// GetUser retrieves a user by ID with the role preloaded.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUser(orgID, id uuid.UUID) (*model.User, error)

	// GetUserByEmail retrieves a user by email, any organization
	GetUserByEmail(email string) (*model.User, error)

	// GetUserByAzureObjectID retrieves a user by Azure AD object ID
	GetUserByAzureObjectID(objectID string) (*model.User, error)

	// CreateUser creates a user.
	// Returns ErrUserEmailTaken on a duplicate email.
	CreateUser(user *model.User) error

	// UpdateUser saves changed user fields.
	// Returns ErrLastAdmin when the change would demote or disable the
	// last active admin.
	UpdateUser(user *model.User) error

	// SetPassword replaces a user's password hash
	SetPassword(userID uuid.UUID, passwordHash string) error

	// TouchLastLogin records a successful login
	TouchLastLogin(userID uuid.UUID) error

	// CountActiveAdmins counts enabled users holding the org:admin
	// capability
	CountActiveAdmins(orgID uuid.UUID) (int64, error)
}
