package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure TeamsStore implements store.TeamsStore
var _ store.TeamsStore = (*TeamsStore)(nil)

// TeamsStore implements store.TeamsStore using GORM
type TeamsStore struct {
	db *gorm.DB
}

// NewTeamsStore creates a new TeamsStore
func NewTeamsStore(db *gorm.DB) *TeamsStore {
	return &TeamsStore{db: db}
}

// ListTeams returns all live teams of an organization
func (s *TeamsStore) ListTeams(orgID uuid.UUID) ([]model.Team, error) {
	var teams []model.Team
	if err := s.db.Where("org_id = ?", orgID).Order("name").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam retrieves a team by ID.
func (s *TeamsStore) GetTeam(orgID, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&team).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// GetTeamBySlug retrieves a team by slug
func (s *TeamsStore) GetTeamBySlug(orgID uuid.UUID, slug string) (*model.Team, error) {
	var team model.Team
	err := s.db.Where("org_id = ? AND slug = ?", orgID, slug).First(&team).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// CreateTeam creates a team.
func (s *TeamsStore) CreateTeam(team *model.Team) error {
	taken, err := s.slugTaken(team.OrgID, team.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrTeamSlugTaken
	}

	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	return s.db.Create(team).Error
}

// UpdateTeam saves changed team fields
func (s *TeamsStore) UpdateTeam(team *model.Team) error {
	taken, err := s.slugTaken(team.OrgID, team.Slug, team.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrTeamSlugTaken
	}
	return s.db.Save(team).Error
}

// UpdateTeamPosition persists the chart coordinates of a team
func (s *TeamsStore) UpdateTeamPosition(orgID, id uuid.UUID, x, y float64) error {
	result := s.db.Model(&model.Team{}).
		Where("org_id = ? AND id = ?", orgID, id).
		Updates(map[string]interface{}{"pos_x": x, "pos_y": y})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrTeamNotFound
	}
	return nil
}

// DeleteTeam soft-deletes a team, detaching member persons and child teams
func (s *TeamsStore) DeleteTeam(team *model.Team) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Person{}).
			Where("org_id = ? AND team_id = ?", team.OrgID, team.ID).
			Update("team_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Model(&model.Team{}).
			Where("org_id = ? AND parent_id = ?", team.OrgID, team.ID).
			Update("parent_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(team).Error
	})
}

// TeamMembers lists live persons belonging to a team
func (s *TeamsStore) TeamMembers(orgID, teamID uuid.UUID) ([]model.Person, error) {
	var persons []model.Person
	err := s.db.Where("org_id = ? AND team_id = ?", orgID, teamID).
		Order("last_name, first_name").Find(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}

// slugTaken reports whether another live team in the organization holds the
// slug. exclude skips the team being updated.
func (s *TeamsStore) slugTaken(orgID uuid.UUID, slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := s.db.Model(&model.Team{}).Where("org_id = ? AND slug = ?", orgID, slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
