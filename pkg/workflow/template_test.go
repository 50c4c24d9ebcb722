package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateFile(t *testing.T) {
	doc := `
name: Employee onboarding
description: Standard onboarding run for new hires
category: onboarding
steps:
  - title: Create accounts
    description: Directory, mail and chat accounts
    assignee_role: it
    due_offset_days: 0
  - title: Ship laptop
    assignee_role: it
    due_offset_days: 3
  - title: Intro with manager
    assignee_role: manager
`

	f, err := ParseTemplateFile([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Employee onboarding", f.Name)
	assert.Equal(t, "onboarding", f.Category)
	require.Len(t, f.Steps, 3)
	assert.Equal(t, "Create accounts", f.Steps[0].Title)
	require.NotNil(t, f.Steps[0].DueOffsetDays)
	assert.Equal(t, 0, *f.Steps[0].DueOffsetDays)
	require.NotNil(t, f.Steps[1].DueOffsetDays)
	assert.Equal(t, 3, *f.Steps[1].DueOffsetDays)
	assert.Nil(t, f.Steps[2].DueOffsetDays)
}

func TestParseTemplateFileInvalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "not-yaml", doc: "{{nope"},
		{name: "missing-name", doc: "steps:\n  - title: A step\n"},
		{name: "no-steps", doc: "name: Empty\n"},
		{name: "untitled-step", doc: "name: Bad\nsteps:\n  - description: no title here\n"},
		{name: "negative-offset", doc: "name: Bad\nsteps:\n  - title: A step\n    due_offset_days: -1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTemplateFile([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestStepDue(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, StepDue(start, nil))

	three := 3
	due := StepDue(start, &three)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), *due)
}

func TestInstanceDue(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	one, five := 1, 5
	dues := []*time.Time{StepDue(start, &one), nil, StepDue(start, &five)}

	latest := InstanceDue(dues)
	require.NotNil(t, latest)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *latest)

	assert.Nil(t, InstanceDue([]*time.Time{nil, nil}))
}
