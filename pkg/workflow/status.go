package workflow

//go:generate go run github.com/dmarkham/enumer -type StepStatus -trimprefix Step -transform snake -json -sql -yaml -output step_status.gen.go

// StepStatus is the state of a single workflow step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepInProgress
	StepCompleted
	StepSkipped
	StepBlocked
)

//go:generate go run github.com/dmarkham/enumer -type InstanceStatus -trimprefix Instance -transform snake -json -sql -yaml -output instance_status.gen.go

// InstanceStatus is the state of a workflow instance. Completed is always
// derived from the step states; on_hold and cancelled are set manually.
type InstanceStatus int

const (
	InstancePending InstanceStatus = iota
	InstanceInProgress
	InstanceOnHold
	InstanceCompleted
	InstanceCancelled
)

// Terminal reports whether no further transitions are possible for a step.
func (i StepStatus) Terminal() bool {
	return i == StepCompleted
}

// Terminal reports whether no further transitions are possible for an instance.
func (i InstanceStatus) Terminal() bool {
	return i == InstanceCompleted || i == InstanceCancelled
}
