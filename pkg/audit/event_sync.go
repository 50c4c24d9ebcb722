package audit

import (
	"fmt"
	"strconv"
)

// SyncEvent represents one device sync run against Intune.
type SyncEvent struct {
	OrgID        string
	Actor        string
	Created      int
	Updated      int
	Reassigned   int
	Orphaned     int
	Unchanged    int
	Success      bool
	ErrorMessage string
}

func (e SyncEvent) MessageID() string {
	return "sync"
}

func (e SyncEvent) Message() string {
	if !e.Success {
		msg := fmt.Sprintf("%s ran device sync: failed", e.Actor)
		if e.ErrorMessage != "" {
			msg += ": " + e.ErrorMessage
		}
		return msg
	}
	return fmt.Sprintf("%s ran device sync: %d created, %d updated, %d reassigned, %d orphaned, %d unchanged",
		e.Actor, e.Created, e.Updated, e.Reassigned, e.Orphaned, e.Unchanged)
}

func (e SyncEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e SyncEvent) Facility() int {
	return FacilityAuth
}

func (e SyncEvent) Org() string {
	return e.OrgID
}

func (e SyncEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSync: {
			"created":    strconv.Itoa(e.Created),
			"updated":    strconv.Itoa(e.Updated),
			"reassigned": strconv.Itoa(e.Reassigned),
			"orphaned":   strconv.Itoa(e.Orphaned),
			"unchanged":  strconv.Itoa(e.Unchanged),
		},
		SDIDAction: {
			"operation": "device-sync",
			"result":    result,
		},
	}
}
