package audit

import "fmt"

// AssetAssignEvent represents an asset changing hands.
type AssetAssignEvent struct {
	OrgID     string
	Actor     string
	AssetTag  string
	Person    string
	Operation string // "assign" or "return"
}

func (e AssetAssignEvent) MessageID() string {
	return "asset"
}

func (e AssetAssignEvent) Message() string {
	if e.Operation == "return" {
		return fmt.Sprintf("%s returned asset %s from %s", e.Actor, e.AssetTag, e.Person)
	}
	return fmt.Sprintf("%s assigned asset %s to %s", e.Actor, e.AssetTag, e.Person)
}

func (e AssetAssignEvent) Severity() Severity {
	return SeverityInfo
}

func (e AssetAssignEvent) Facility() int {
	return FacilityAuth
}

func (e AssetAssignEvent) Org() string {
	return e.OrgID
}

func (e AssetAssignEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"asset":  e.AssetTag,
			"person": e.Person,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
}
