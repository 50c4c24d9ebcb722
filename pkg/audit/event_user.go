package audit

import "fmt"

// UserEvent represents account administration: creation, role changes,
// disabling, password resets.
type UserEvent struct {
	OrgID     string
	Actor     string
	Target    string
	Operation string // "create", "role-change", "disable", "enable", "password-reset"
	Detail    string
}

func (e UserEvent) MessageID() string {
	return "user"
}

func (e UserEvent) Message() string {
	msg := fmt.Sprintf("%s performed %s on account %s", e.Actor, e.Operation, e.Target)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e UserEvent) Severity() Severity {
	return SeverityNotice
}

func (e UserEvent) Facility() int {
	return FacilityAuthPriv
}

func (e UserEvent) Org() string {
	return e.OrgID
}

func (e UserEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"account": e.Target,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.Detail != "" {
		sd[SDIDAction]["detail"] = e.Detail
	}
	return sd
}
