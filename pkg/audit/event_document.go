package audit

import "fmt"

// DocumentEvent represents a document lifecycle action.
type DocumentEvent struct {
	OrgID     string
	Actor     string
	Document  string
	Operation string // "publish", "rollout", "acknowledge"
	Detail    string
}

func (e DocumentEvent) MessageID() string {
	return "document"
}

func (e DocumentEvent) Message() string {
	switch e.Operation {
	case "publish":
		return fmt.Sprintf("%s published document %q (%s)", e.Actor, e.Document, e.Detail)
	case "rollout":
		return fmt.Sprintf("%s rolled out document %q to %s", e.Actor, e.Document, e.Detail)
	case "acknowledge":
		return fmt.Sprintf("%s acknowledged document %q", e.Actor, e.Document)
	default:
		return fmt.Sprintf("%s %s document %q", e.Actor, e.Operation, e.Document)
	}
}

func (e DocumentEvent) Severity() Severity {
	return SeverityInfo
}

func (e DocumentEvent) Facility() int {
	return FacilityAuth
}

func (e DocumentEvent) Org() string {
	return e.OrgID
}

func (e DocumentEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"document": e.Document,
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
