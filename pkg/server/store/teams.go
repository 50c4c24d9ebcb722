package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrTeamNotFound is returned when a team doesn't exist
var ErrTeamNotFound = errors.New("team not found")

// ErrTeamSlugTaken is returned when another live team already has the slug
var ErrTeamSlugTaken = errors.New("team slug already taken")

// TeamsStore abstracts team storage operations
type TeamsStore interface {
	// ListTeams returns all live teams of an organization
	ListTeams(orgID uuid.UUID) ([]model.Team, error)

	// GetTeam retrieves a team by ID.
	// Returns ErrTeamNotFound if the team doesn't exist.
	GetTeam(orgID, id uuid.UUID) (*model.Team, error)

	// GetTeamBySlug retrieves a team by slug
	GetTeamBySlug(orgID uuid.UUID, slug string) (*model.Team, error)

	// CreateTeam creates a team.
	// Returns ErrTeamSlugTaken on a duplicate slug.
	CreateTeam(team *model.Team) error

	// UpdateTeam saves changed team fields
	UpdateTeam(team *model.Team) error

	// UpdateTeamPosition persists the chart coordinates of a team
	UpdateTeamPosition(orgID, id uuid.UUID, x, y float64) error

	// DeleteTeam soft-deletes a team, detaching member persons and
	// child teams
	DeleteTeam(team *model.Team) error

	// TeamMembers lists live persons belonging to a team
	TeamMembers(orgID, teamID uuid.UUID) ([]model.Person, error)
}
