package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// Ensure PeopleStore implements store.PeopleStore
var _ store.PeopleStore = (*PeopleStore)(nil)

// PeopleStore implements store.PeopleStore using GORM
type PeopleStore struct {
	db *gorm.DB
}

// NewPeopleStore creates a new PeopleStore
func NewPeopleStore(db *gorm.DB) *PeopleStore {
	return &PeopleStore{db: db}
}

func (s *PeopleStore) filtered(orgID uuid.UUID, filter store.PersonFilter) *gorm.DB {
	query := s.db.Model(&model.Person{}).Where("org_id = ?", orgID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}
	return query
}

// ListPeople returns persons of an organization matching the filter
func (s *PeopleStore) ListPeople(orgID uuid.UUID, filter store.PersonFilter) ([]model.Person, error) {
	query := s.filtered(orgID, filter).Order("last_name, first_name")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var persons []model.Person
	if err := query.Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

// CountPeople counts persons matching the filter, ignoring paging
func (s *PeopleStore) CountPeople(orgID uuid.UUID, filter store.PersonFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetPerson retrieves a person by ID.
func (s *PeopleStore) GetPerson(orgID, id uuid.UUID) (*model.Person, error) {
	var person model.Person
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&person).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

// GetPersonByEmail retrieves a person by email
func (s *PeopleStore) GetPersonByEmail(orgID uuid.UUID, email string) (*model.Person, error) {
	var person model.Person
	err := s.db.Where("org_id = ? AND LOWER(email) = LOWER(?)", orgID, email).First(&person).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, store.ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

// CreatePerson creates a person.
func (s *PeopleStore) CreatePerson(person *model.Person) error {
	taken, err := s.emailTaken(person.OrgID, person.Email, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrPersonEmailTaken
	}

	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}
	return s.db.Create(person).Error
}

// UpdatePerson saves changed person fields
func (s *PeopleStore) UpdatePerson(person *model.Person) error {
	taken, err := s.emailTaken(person.OrgID, person.Email, person.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrPersonEmailTaken
	}
	return s.db.Save(person).Error
}

// DeletePerson soft-deletes a person and re-parents their direct reports to
// the deleted person's own manager
func (s *PeopleStore) DeletePerson(person *model.Person) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Person{}).
			Where("org_id = ? AND manager_id = ?", person.OrgID, person.ID).
			Update("manager_id", person.ManagerID).Error
		if err != nil {
			return err
		}

		err = tx.Model(&model.Team{}).
			Where("org_id = ? AND lead_id = ?", person.OrgID, person.ID).
			Update("lead_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(person).Error
	})
}

// DirectReports lists live persons reporting to the given person
func (s *PeopleStore) DirectReports(orgID, personID uuid.UUID) ([]model.Person, error) {
	var persons []model.Person
	err := s.db.Where("org_id = ? AND manager_id = ?", orgID, personID).
		Order("last_name, first_name").Find(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}

// emailTaken reports whether another live person in the organization holds
// the email. exclude skips the person being updated.
func (s *PeopleStore) emailTaken(orgID uuid.UUID, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := s.db.Model(&model.Person{}).Where("org_id = ? AND LOWER(email) = LOWER(?)", orgID, email)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
