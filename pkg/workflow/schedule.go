package workflow

import "time"

// StepDue computes a step's due date from the instance start date and the
// template's day offset. A nil offset means the step carries no due date.
func StepDue(start time.Time, offsetDays *int) *time.Time {
	if offsetDays == nil {
		return nil
	}
	due := start.AddDate(0, 0, *offsetDays)
	return &due
}

// InstanceDue returns the latest step due date, or nil when no step has one.
func InstanceDue(stepDues []*time.Time) *time.Time {
	var latest *time.Time
	for _, d := range stepDues {
		if d == nil {
			continue
		}
		if latest == nil || d.After(*latest) {
			t := *d
			latest = &t
		}
	}
	return latest
}
