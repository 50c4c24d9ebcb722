package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/orgchart"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// RegisterPeopleEndpoints registers the person directory endpoints
func RegisterPeopleEndpoints(s *server.Server) {
	people := s.People
	teams := s.Teams
	cfg := s.Config

	router := s.Router.PathPrefix("/api/people").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	// GET /api/people - List people with filters and paging
	router.Handle("", requireCap(model.CapPeopleRead, handleListPeople(people, cfg))).Methods("GET")

	// POST /api/people - Create a person
	router.Handle("", requireCap(model.CapPeopleWrite, handleCreatePerson(people, teams))).Methods("POST")

	// GET /api/people/orgchart - Reporting tree layout
	router.Handle("/orgchart", requireCap(model.CapPeopleRead, handleOrgChart(people))).Methods("GET")

	// GET /api/people/{id} - Fetch one person
	router.Handle("/{id}", requireCap(model.CapPeopleRead, handleGetPerson(people))).Methods("GET")

	// PUT /api/people/{id} - Update a person
	router.Handle("/{id}", requireCap(model.CapPeopleWrite, handleUpdatePerson(people, teams))).Methods("PUT")

	// DELETE /api/people/{id} - Soft-delete a person
	router.Handle("/{id}", requireCap(model.CapPeopleWrite, handleDeletePerson(people))).Methods("DELETE")
}

// personRequest is the payload for creating and updating a person.
type personRequest struct {
	FirstName  string     `json:"first_name" validate:"required"`
	LastName   string     `json:"last_name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Title      string     `json:"title"`
	Department string     `json:"department"`
	Location   string     `json:"location"`
	Phone      string     `json:"phone"`
	Status     string     `json:"status" validate:"omitempty,oneof=onboarding active offboarding left"`
	ManagerID  *uuid.UUID `json:"manager_id"`
	TeamID     *uuid.UUID `json:"team_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

func (req *personRequest) apply(p *model.Person) {
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.Email = req.Email
	p.Title = req.Title
	p.Department = req.Department
	p.Location = req.Location
	p.Phone = req.Phone
	p.Status = req.Status
	p.ManagerID = req.ManagerID
	p.TeamID = req.TeamID
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
}

func handleListPeople(people store.PeopleStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		filter := store.PersonFilter{
			Search:     r.URL.Query().Get("q"),
			Status:     r.URL.Query().Get("status"),
			Department: r.URL.Query().Get("department"),
		}
		var err error
		if filter.TeamID, err = queryUUID(r, "team"); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid team filter")
			return
		}
		if filter.ManagerID, err = queryUUID(r, "manager"); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid manager filter")
			return
		}
		filter.Limit, filter.Offset = parsePagination(r, cfg)

		total, err := people.CountPeople(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to count people")
			return
		}
		list, err := people.ListPeople(id.OrgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list people")
			return
		}

		setTotalCount(w, total)
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreatePerson(people store.PeopleStore, teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req personRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = model.PersonActive
		}
		if !checkPersonRefs(w, people, teams, id.OrgID, nil, &req) {
			return
		}

		person := &model.Person{ID: uuid.New(), OrgID: id.OrgID}
		req.apply(person)

		if err := people.CreatePerson(person); err != nil {
			if err == store.ErrPersonEmailTaken {
				respondWithError(w, http.StatusConflict, "a person with this email already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create person")
			return
		}

		respondWithJSON(w, http.StatusCreated, person)
	}
}

func handleGetPerson(people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		personID, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "person not found")
			return
		}

		person, err := people.GetPerson(id.OrgID, personID)
		if err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusNotFound, "person not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch person")
			return
		}

		respondWithJSON(w, http.StatusOK, person)
	}
}

func handleUpdatePerson(people store.PeopleStore, teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		personID, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "person not found")
			return
		}

		person, err := people.GetPerson(id.OrgID, personID)
		if err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusNotFound, "person not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch person")
			return
		}

		var req personRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Status == "" {
			req.Status = person.Status
		}
		if !checkPersonRefs(w, people, teams, id.OrgID, &personID, &req) {
			return
		}

		req.apply(person)
		if err := people.UpdatePerson(person); err != nil {
			if err == store.ErrPersonEmailTaken {
				respondWithError(w, http.StatusConflict, "a person with this email already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update person")
			return
		}

		respondWithJSON(w, http.StatusOK, person)
	}
}

func handleDeletePerson(people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		personID, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "person not found")
			return
		}

		person, err := people.GetPerson(id.OrgID, personID)
		if err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusNotFound, "person not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch person")
			return
		}

		// Direct reports are re-parented to the deleted person's manager
		// inside the store.
		if err := people.DeletePerson(person); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete person")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleOrgChart(people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		persons, err := people.ListPeople(id.OrgID, store.PersonFilter{})
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list people")
			return
		}

		roots, err := orgchart.Build(persons)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"roots": roots})
	}
}

// checkPersonRefs validates the manager and team references of a person
// payload. A nil personID means the person does not exist yet, so no
// reporting cycle is possible. Writes the error response on failure.
func checkPersonRefs(w http.ResponseWriter, people store.PeopleStore, teams store.TeamsStore, orgID uuid.UUID, personID *uuid.UUID, req *personRequest) bool {
	if req.ManagerID != nil {
		if _, err := people.GetPerson(orgID, *req.ManagerID); err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown manager")
				return false
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch manager")
			return false
		}
		if personID != nil {
			all, err := people.ListPeople(orgID, store.PersonFilter{})
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to list people")
				return false
			}
			if orgchart.PersonWouldCycle(all, *personID, *req.ManagerID) {
				respondWithError(w, http.StatusBadRequest, "manager change would create a reporting cycle")
				return false
			}
		}
	}
	if req.TeamID != nil {
		if _, err := teams.GetTeam(orgID, *req.TeamID); err != nil {
			if err == store.ErrTeamNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown team")
				return false
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch team")
			return false
		}
	}
	return true
}
