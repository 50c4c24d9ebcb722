package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Names of the roles seeded into every new organization.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
	RoleViewer  = "viewer"
)

// Role is a named capability set within an organization.
type Role struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID        uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Description  string         `gorm:"column:description" json:"description"`
	Capabilities pq.StringArray `gorm:"column:capabilities;type:text[];not null" json:"capabilities"`
	System       bool           `gorm:"column:system;not null;default:false" json:"system"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// HasCapability reports whether the role grants the capability. org:admin
// short-circuits every check.
func (r *Role) HasCapability(capability string) bool {
	for _, c := range r.Capabilities {
		if c == CapOrgAdmin || c == capability {
			return true
		}
	}
	return false
}

// SeedRoles returns the four built-in roles for a new organization.
func SeedRoles(orgID uuid.UUID) []Role {
	return []Role{
		{
			ID:           uuid.New(),
			OrgID:        orgID,
			Name:         RoleAdmin,
			Description:  "Full access to everything in the organization",
			Capabilities: pq.StringArray{CapOrgAdmin},
			System:       true,
		},
		{
			ID:          uuid.New(),
			OrgID:       orgID,
			Name:        RoleManager,
			Description: "Runs the directory, inventory, documents and workflows",
			Capabilities: pq.StringArray{
				CapPeopleRead, CapPeopleWrite,
				CapTeamsRead, CapTeamsWrite,
				CapAssetsRead, CapAssetsWrite,
				CapSecurityRead, CapSecurityWrite,
				CapDocsRead, CapDocsWrite, CapDocsPublish, CapDocsAcknowledge,
				CapWorkflowsRead, CapWorkflowsWrite, CapWorkflowsTransition,
				CapUsersRead, CapSyncRun,
			},
			System: true,
		},
		{
			ID:          uuid.New(),
			OrgID:       orgID,
			Name:        RoleMember,
			Description: "Works with the directory and acts on assigned work",
			Capabilities: pq.StringArray{
				CapPeopleRead, CapTeamsRead, CapAssetsRead,
				CapDocsRead, CapDocsAcknowledge,
				CapWorkflowsRead, CapWorkflowsTransition,
			},
			System: true,
		},
		{
			ID:          uuid.New(),
			OrgID:       orgID,
			Name:        RoleViewer,
			Description: "Read-only access",
			Capabilities: pq.StringArray{
				CapPeopleRead, CapTeamsRead, CapAssetsRead,
				CapSecurityRead, CapDocsRead, CapWorkflowsRead,
			},
			System: true,
		},
	}
}
