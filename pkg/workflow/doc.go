// Package workflow implements the workflow state machine.
//
// A workflow instance is a set of ordered steps stamped out from a template.
// Steps move through a closed transition table (pending, in_progress,
// completed, skipped, blocked) and the instance status is derived from the
// step states, except for the manual on_hold and cancelled states.
//
// The package is deliberately free of storage concerns: callers hand it
// status slices and get statuses back.
package workflow
