package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrOrgNotFound is returned when an organization doesn't exist
var ErrOrgNotFound = errors.New("organization not found")

// ErrOrgSlugTaken is returned when an organization slug is already in use
var ErrOrgSlugTaken = errors.New("organization slug already taken")

// ProvisionedOrg is the result of provisioning a tenant: the organization,
// its seeded roles and the initial admin user.
type ProvisionedOrg struct {
	Org   *model.Organization
	Roles []model.Role
	Admin *model.User
}

// OrgsStore abstracts organization storage operations
type OrgsStore interface {
	// ListOrgs returns all organizations
	ListOrgs() ([]model.Organization, error)

	// GetOrg retrieves an organization by ID.
	// Returns ErrOrgNotFound if the organization doesn't exist.
	GetOrg(id uuid.UUID) (*model.Organization, error)

	// GetOrgBySlug retrieves an organization by slug
	GetOrgBySlug(slug string) (*model.Organization, error)

	// GetOrgByDomain retrieves the organization owning an email domain
	GetOrgByDomain(domain string) (*model.Organization, error)

	// ProvisionOrg creates an organization with its seeded system roles and
	// an admin user, in one transaction.
	// Returns ErrOrgSlugTaken if the slug is already in use.
	ProvisionOrg(name, slug, domain, adminEmail, adminName, adminPasswordHash string) (*ProvisionedOrg, error)

	// UpdateOrg saves changed organization fields
	UpdateOrg(org *model.Organization) error

	// DeleteOrg removes an organization and all its data
	DeleteOrg(org *model.Organization) error
}
