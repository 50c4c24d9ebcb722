package workflow

// stepTransitions is the closed transition table for steps. A step that is
// completed stays completed; a skipped step may be reopened to pending.
var stepTransitions = map[StepStatus][]StepStatus{
	StepPending:    {StepInProgress, StepSkipped},
	StepInProgress: {StepCompleted, StepBlocked, StepSkipped},
	StepBlocked:    {StepInProgress, StepSkipped},
	StepSkipped:    {StepPending},
	StepCompleted:  {},
}

// instanceTransitions covers the manual instance transitions only. Moves into
// pending/in_progress/completed come from derivation, with the exception of
// resuming from on_hold, which must land on the derived status.
var instanceTransitions = map[InstanceStatus][]InstanceStatus{
	InstancePending:    {InstanceOnHold, InstanceCancelled},
	InstanceInProgress: {InstanceOnHold, InstanceCancelled},
	InstanceOnHold:     {InstancePending, InstanceInProgress, InstanceCancelled},
	InstanceCompleted:  {},
	InstanceCancelled:  {},
}

// CanTransitionStep reports whether a step may move from one status to another.
func CanTransitionStep(from, to StepStatus) bool {
	for _, t := range stepTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// StepTargets returns the statuses a step in the given status may move to.
func StepTargets(from StepStatus) []StepStatus {
	targets := stepTransitions[from]
	out := make([]StepStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionInstance reports whether an instance may be moved manually
// from one status to another. Callers resuming from on_hold must additionally
// check the target equals the derived status.
func CanTransitionInstance(from, to InstanceStatus) bool {
	for _, t := range instanceTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// InstanceTargets returns the manual transition targets for an instance status.
func InstanceTargets(from InstanceStatus) []InstanceStatus {
	targets := instanceTransitions[from]
	out := make([]InstanceStatus, len(targets))
	copy(out, targets)
	return out
}

// DeriveInstanceStatus computes the instance status implied by its step
// statuses: completed once every step is completed or skipped, pending while
// nothing has moved, in_progress otherwise. On_hold and cancelled never come
// out of derivation.
func DeriveInstanceStatus(steps []StepStatus) InstanceStatus {
	if len(steps) == 0 {
		return InstancePending
	}

	done := 0
	touched := 0
	for _, s := range steps {
		switch s {
		case StepCompleted, StepSkipped:
			done++
			touched++
		case StepPending:
		default:
			touched++
		}
	}

	switch {
	case done == len(steps):
		return InstanceCompleted
	case touched > 0:
		return InstanceInProgress
	default:
		return InstancePending
	}
}

// Progress summarises step counts for an instance.
type Progress struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Skipped    int `json:"skipped"`
	Blocked    int `json:"blocked"`
	Percent    int `json:"percent"`
}

// ComputeProgress tallies step statuses. Percent counts completed and skipped
// steps against the total, rounded down.
func ComputeProgress(steps []StepStatus) Progress {
	p := Progress{Total: len(steps)}
	for _, s := range steps {
		switch s {
		case StepPending:
			p.Pending++
		case StepInProgress:
			p.InProgress++
		case StepCompleted:
			p.Completed++
		case StepSkipped:
			p.Skipped++
		case StepBlocked:
			p.Blocked++
		}
	}
	if p.Total > 0 {
		p.Percent = (p.Completed + p.Skipped) * 100 / p.Total
	}
	return p
}
