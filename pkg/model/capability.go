package model

// Capability strings gate every API route. Roles carry a set of these;
// OrgAdmin implies all of them.
const (
	CapPeopleRead          = "people:read"
	CapPeopleWrite         = "people:write"
	CapTeamsRead           = "teams:read"
	CapTeamsWrite          = "teams:write"
	CapAssetsRead          = "assets:read"
	CapAssetsWrite         = "assets:write"
	CapSecurityRead        = "security:read"
	CapSecurityWrite       = "security:write"
	CapDocsRead            = "docs:read"
	CapDocsWrite           = "docs:write"
	CapDocsPublish         = "docs:publish"
	CapDocsAcknowledge     = "docs:acknowledge"
	CapWorkflowsRead       = "workflows:read"
	CapWorkflowsWrite      = "workflows:write"
	CapWorkflowsTransition = "workflows:transition"
	CapUsersRead           = "users:read"
	CapUsersWrite          = "users:write"
	CapOrgAdmin            = "org:admin"
	CapSyncRun             = "sync:run"
	CapAuditRead           = "audit:read"
)

// AllCapabilities lists every known capability, in display order.
func AllCapabilities() []string {
	return []string{
		CapPeopleRead, CapPeopleWrite,
		CapTeamsRead, CapTeamsWrite,
		CapAssetsRead, CapAssetsWrite,
		CapSecurityRead, CapSecurityWrite,
		CapDocsRead, CapDocsWrite, CapDocsPublish, CapDocsAcknowledge,
		CapWorkflowsRead, CapWorkflowsWrite, CapWorkflowsTransition,
		CapUsersRead, CapUsersWrite,
		CapOrgAdmin, CapSyncRun, CapAuditRead,
	}
}

// IsCapability reports whether s is a known capability string.
func IsCapability(s string) bool {
	for _, c := range AllCapabilities() {
		if c == s {
			return true
		}
	}
	return false
}
