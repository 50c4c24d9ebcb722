package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrPersonNotFound is returned when a person doesn't exist
var ErrPersonNotFound = errors.New("person not found")

// ErrPersonEmailTaken is returned when another live person already has the email
var ErrPersonEmailTaken = errors.New("person email already taken")

// PersonFilter narrows person listings. Zero values mean no filtering.
type PersonFilter struct {
	Search     string
	Status     string
	Department string
	TeamID     *uuid.UUID
	ManagerID  *uuid.UUID
	Limit      int
	Offset     int
}

// PeopleStore abstracts HR directory storage operations
type PeopleStore interface {
	// ListPeople returns persons of an organization matching the filter
	ListPeople(orgID uuid.UUID, filter PersonFilter) ([]model.Person, error)

	// CountPeople counts persons matching the filter, ignoring paging
	CountPeople(orgID uuid.UUID, filter PersonFilter) (int64, error)

	// GetPerson retrieves a person by ID.
	// Returns ErrPersonNotFound if the person doesn't exist.
	GetPerson(orgID, id uuid.UUID) (*model.Person, error)

	// GetPersonByEmail retrieves a person by email
	GetPersonByEmail(orgID uuid.UUID, email string) (*model.Person, error)

	// CreatePerson creates a person.
	// Returns ErrPersonEmailTaken on a duplicate email.
	CreatePerson(person *model.Person) error

	// UpdatePerson saves changed person fields
	UpdatePerson(person *model.Person) error

	// DeletePerson soft-deletes a person and re-parents their direct
	// reports to the deleted person's own manager
	DeletePerson(person *model.Person) error

	// DirectReports lists live persons reporting to the given person
	DirectReports(orgID, personID uuid.UUID) ([]model.Person, error)
}
