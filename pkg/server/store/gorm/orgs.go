package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure OrgsStore implements store.OrgsStore
var _ store.OrgsStore = (*OrgsStore)(nil)

// OrgsStore implements store.OrgsStore using GORM
type OrgsStore struct {
	db *gorm.DB
}

// NewOrgsStore creates a new OrgsStore
func NewOrgsStore(db *gorm.DB) *OrgsStore {
	return &OrgsStore{db: db}
}

// ListOrgs returns all organizations
func (s *OrgsStore) ListOrgs() ([]model.Organization, error) {
	var orgs []model.Organization
	if err := s.db.Order("slug").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// GetOrg retrieves an organization by ID.
func (s *OrgsStore) GetOrg(id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.First(&org, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

// GetOrgBySlug retrieves an organization by slug
func (s *OrgsStore) GetOrgBySlug(slug string) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.First(&org, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

// GetOrgByDomain retrieves the organization owning an email domain
func (s *OrgsStore) GetOrgByDomain(domain string) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.First(&org, "domain = ?", domain).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ProvisionOrg creates an organization with its seeded system roles and an
// admin user, in one transaction.
func (s *OrgsStore) ProvisionOrg(name, slug, domain, adminEmail, adminName, adminPasswordHash string) (*store.ProvisionedOrg, error) {
	var count int64
	if err := s.db.Model(&model.Organization{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, store.ErrOrgSlugTaken
	}

	org := model.NewOrganization(name, slug)
	org.Domain = domain
	roles := model.SeedRoles(org.ID)

	var adminRole model.Role
	for _, role := range roles {
		if role.Name == model.RoleAdmin {
			adminRole = role
		}
	}

	admin := &model.User{
		ID:           uuid.New(),
		OrgID:        org.ID,
		Email:        adminEmail,
		DisplayName:  adminName,
		PasswordHash: adminPasswordHash,
		RoleID:       adminRole.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		if err := tx.Create(&roles).Error; err != nil {
			return err
		}
		return tx.Create(admin).Error
	})
	if err != nil {
		return nil, err
	}

	admin.Role = &adminRole
	return &store.ProvisionedOrg{Org: org, Roles: roles, Admin: admin}, nil
}

// UpdateOrg saves changed organization fields
func (s *OrgsStore) UpdateOrg(org *model.Organization) error {
	return s.db.Save(org).Error
}

// DeleteOrg removes an organization and all its data
func (s *OrgsStore) DeleteOrg(org *model.Organization) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Dependency order: rows referencing other tenant rows go first.
		tables := []string{
			"acknowledgments", "rollouts", "document_versions", "documents",
			"workflow_steps", "workflow_instances", "workflow_template_steps", "workflow_templates",
			"evidence", "soa_items", "risks", "controls", "frameworks",
			"asset_events", "asset_assignments", "assets", "asset_categories",
			"persons", "teams", "users", "roles",
		}
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM "+table+" WHERE org_id = ?", org.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(org).Error
	})
}
