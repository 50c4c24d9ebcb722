package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionStep(t *testing.T) {
	testCases := []struct {
		name    string
		from    StepStatus
		to      StepStatus
		allowed bool
	}{
		{name: "pending-to-in-progress", from: StepPending, to: StepInProgress, allowed: true},
		{name: "pending-to-skipped", from: StepPending, to: StepSkipped, allowed: true},
		{name: "pending-to-completed", from: StepPending, to: StepCompleted, allowed: false},
		{name: "pending-to-blocked", from: StepPending, to: StepBlocked, allowed: false},
		{name: "in-progress-to-completed", from: StepInProgress, to: StepCompleted, allowed: true},
		{name: "in-progress-to-blocked", from: StepInProgress, to: StepBlocked, allowed: true},
		{name: "in-progress-to-skipped", from: StepInProgress, to: StepSkipped, allowed: true},
		{name: "in-progress-to-pending", from: StepInProgress, to: StepPending, allowed: false},
		{name: "blocked-to-in-progress", from: StepBlocked, to: StepInProgress, allowed: true},
		{name: "blocked-to-skipped", from: StepBlocked, to: StepSkipped, allowed: true},
		{name: "blocked-to-completed", from: StepBlocked, to: StepCompleted, allowed: false},
		{name: "skipped-to-pending", from: StepSkipped, to: StepPending, allowed: true},
		{name: "skipped-to-completed", from: StepSkipped, to: StepCompleted, allowed: false},
		{name: "completed-is-terminal", from: StepCompleted, to: StepInProgress, allowed: false},
		{name: "no-self-transition", from: StepPending, to: StepPending, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionStep(tc.from, tc.to))
		})
	}
}

func TestCanTransitionInstance(t *testing.T) {
	testCases := []struct {
		name    string
		from    InstanceStatus
		to      InstanceStatus
		allowed bool
	}{
		{name: "pending-to-on-hold", from: InstancePending, to: InstanceOnHold, allowed: true},
		{name: "pending-to-cancelled", from: InstancePending, to: InstanceCancelled, allowed: true},
		{name: "pending-to-completed", from: InstancePending, to: InstanceCompleted, allowed: false},
		{name: "in-progress-to-on-hold", from: InstanceInProgress, to: InstanceOnHold, allowed: true},
		{name: "in-progress-to-completed", from: InstanceInProgress, to: InstanceCompleted, allowed: false},
		{name: "on-hold-resume-pending", from: InstanceOnHold, to: InstancePending, allowed: true},
		{name: "on-hold-resume-in-progress", from: InstanceOnHold, to: InstanceInProgress, allowed: true},
		{name: "on-hold-to-cancelled", from: InstanceOnHold, to: InstanceCancelled, allowed: true},
		{name: "completed-is-terminal", from: InstanceCompleted, to: InstanceCancelled, allowed: false},
		{name: "cancelled-is-terminal", from: InstanceCancelled, to: InstancePending, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionInstance(tc.from, tc.to))
		})
	}
}

func TestDeriveInstanceStatus(t *testing.T) {
	testCases := []struct {
		name     string
		steps    []StepStatus
		expected InstanceStatus
	}{
		{name: "no-steps", steps: nil, expected: InstancePending},
		{name: "all-pending", steps: []StepStatus{StepPending, StepPending}, expected: InstancePending},
		{name: "one-started", steps: []StepStatus{StepInProgress, StepPending}, expected: InstanceInProgress},
		{name: "one-blocked", steps: []StepStatus{StepBlocked, StepPending}, expected: InstanceInProgress},
		{name: "partially-done", steps: []StepStatus{StepCompleted, StepPending}, expected: InstanceInProgress},
		{name: "all-completed", steps: []StepStatus{StepCompleted, StepCompleted}, expected: InstanceCompleted},
		{name: "all-skipped", steps: []StepStatus{StepSkipped, StepSkipped}, expected: InstanceCompleted},
		{name: "completed-and-skipped", steps: []StepStatus{StepCompleted, StepSkipped}, expected: InstanceCompleted},
		{name: "skip-does-not-finish-early", steps: []StepStatus{StepSkipped, StepInProgress}, expected: InstanceInProgress},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveInstanceStatus(tc.steps))
		})
	}
}

func TestComputeProgress(t *testing.T) {
	p := ComputeProgress([]StepStatus{
		StepCompleted, StepCompleted, StepSkipped, StepInProgress, StepBlocked, StepPending,
	})

	assert.Equal(t, 6, p.Total)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 1, p.Skipped)
	assert.Equal(t, 1, p.InProgress)
	assert.Equal(t, 1, p.Blocked)
	assert.Equal(t, 1, p.Pending)
	assert.Equal(t, 50, p.Percent)
}

func TestComputeProgressEmpty(t *testing.T) {
	p := ComputeProgress(nil)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.Percent)
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range StepStatusValues() {
		parsed, err := StepStatusString(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	for _, s := range InstanceStatusValues() {
		parsed, err := InstanceStatusString(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := StepStatusString("paused")
	assert.Error(t, err)
}
