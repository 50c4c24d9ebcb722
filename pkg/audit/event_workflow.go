package audit

import "fmt"

// WorkflowEvent represents a workflow step or instance transition.
type WorkflowEvent struct {
	OrgID    string
	Actor    string
	Instance string
	Step     string // empty for instance-level transitions
	From     string
	To       string
}

func (e WorkflowEvent) MessageID() string {
	return "workflow"
}

func (e WorkflowEvent) Message() string {
	if e.Step != "" {
		return fmt.Sprintf("%s moved step %q of %q from %s to %s", e.Actor, e.Step, e.Instance, e.From, e.To)
	}
	return fmt.Sprintf("%s moved workflow %q from %s to %s", e.Actor, e.Instance, e.From, e.To)
}

func (e WorkflowEvent) Severity() Severity {
	return SeverityInfo
}

func (e WorkflowEvent) Facility() int {
	return FacilityAuth
}

func (e WorkflowEvent) Org() string {
	return e.OrgID
}

func (e WorkflowEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"instance": e.Instance,
		},
		SDIDAction: {
			"operation": "transition",
			"from":      e.From,
			"to":        e.To,
		},
	}
	if e.Step != "" {
		sd[SDIDSubject]["step"] = e.Step
	}
	return sd
}
