package orgchart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantoorhq/kantoor/pkg/model"
)

func person(first, last string, manager *uuid.UUID) model.Person {
	return model.Person{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
		ManagerID: manager,
	}
}

func TestBuildSingleRoot(t *testing.T) {
	ceo := person("Carla", "Vos", nil)
	cto := person("Tim", "Bakker", &ceo.ID)
	eng1 := person("Alice", "Janssen", &cto.ID)
	eng2 := person("Bob", "deVries", &cto.ID)
	ops := person("Olaf", "Smit", &ceo.ID)

	roots, err := Build([]model.Person{ceo, cto, eng1, eng2, ops})
	require.NoError(t, err)
	require.Len(t, roots, 1)

	root := roots[0]
	assert.Equal(t, "Carla Vos", root.Name)
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, 3.0, root.Width)
	assert.Equal(t, 1.5, root.X)

	require.Len(t, root.Reports, 2)
	// Children sorted by last name: Bakker before Smit
	assert.Equal(t, "Tim Bakker", root.Reports[0].Name)
	assert.Equal(t, "Olaf Smit", root.Reports[1].Name)
	assert.Equal(t, 1, root.Reports[0].Depth)

	ctoNode := root.Reports[0]
	assert.Equal(t, 2.0, ctoNode.Width)
	assert.Equal(t, 1.0, ctoNode.X)
	require.Len(t, ctoNode.Reports, 2)
	assert.Equal(t, 2, ctoNode.Reports[0].Depth)

	opsNode := root.Reports[1]
	assert.Equal(t, 1.0, opsNode.Width)
	assert.Equal(t, 2.5, opsNode.X)
}

func TestBuildMultipleRoots(t *testing.T) {
	a := person("Ada", "Aa", nil)
	b := person("Ben", "Bb", nil)
	c := person("Cas", "Cc", &b.ID)

	roots, err := Build([]model.Person{a, b, c})
	require.NoError(t, err)
	require.Len(t, roots, 2)

	// Second root's subtree is laid out after the first
	assert.Equal(t, 0.5, roots[0].X)
	assert.Equal(t, 1.5, roots[1].X)
}

func TestBuildMissingManagerBecomesRoot(t *testing.T) {
	gone := uuid.New()
	orphan := person("Olly", "Orphan", &gone)

	roots, err := Build([]model.Person{orphan})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Olly Orphan", roots[0].Name)
}

func TestBuildDetectsCycle(t *testing.T) {
	a := person("Ada", "Aa", nil)
	b := person("Ben", "Bb", nil)
	a.ManagerID = &b.ID
	b.ManagerID = &a.ID

	_, err := Build([]model.Person{a, b})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildEmpty(t *testing.T) {
	roots, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestPersonWouldCycle(t *testing.T) {
	ceo := person("Carla", "Vos", nil)
	cto := person("Tim", "Bakker", &ceo.ID)
	eng := person("Alice", "Janssen", &cto.ID)
	persons := []model.Person{ceo, cto, eng}

	// CEO reporting to a leaf of their own tree closes a loop
	assert.True(t, PersonWouldCycle(persons, ceo.ID, eng.ID))
	// Direct loop
	assert.True(t, PersonWouldCycle(persons, cto.ID, eng.ID))
	// Self-management
	assert.True(t, PersonWouldCycle(persons, eng.ID, eng.ID))
	// Sideways move is fine
	assert.False(t, PersonWouldCycle(persons, eng.ID, ceo.ID))
}

func TestTeamWouldCycle(t *testing.T) {
	root := model.Team{ID: uuid.New(), Name: "Company"}
	eng := model.Team{ID: uuid.New(), Name: "Engineering", ParentID: &root.ID}
	platform := model.Team{ID: uuid.New(), Name: "Platform", ParentID: &eng.ID}
	teams := []model.Team{root, eng, platform}

	assert.True(t, TeamWouldCycle(teams, root.ID, platform.ID))
	assert.True(t, TeamWouldCycle(teams, eng.ID, eng.ID))
	assert.False(t, TeamWouldCycle(teams, platform.ID, root.ID))
}
