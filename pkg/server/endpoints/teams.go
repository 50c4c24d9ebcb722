package endpoints

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/orgchart"
	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// RegisterTeamsEndpoints registers the team endpoints
func RegisterTeamsEndpoints(s *server.Server) {
	teams := s.Teams
	people := s.People

	router := s.Router.PathPrefix("/api/teams").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	// GET /api/teams - List teams
	router.Handle("", requireCap(model.CapTeamsRead, handleListTeams(teams))).Methods("GET")

	// POST /api/teams - Create a team
	router.Handle("", requireCap(model.CapTeamsWrite, handleCreateTeam(teams, people))).Methods("POST")

	// GET /api/teams/{id} - Fetch one team
	router.Handle("/{id}", requireCap(model.CapTeamsRead, handleGetTeam(teams))).Methods("GET")

	// PUT /api/teams/{id} - Update a team
	router.Handle("/{id}", requireCap(model.CapTeamsWrite, handleUpdateTeam(teams, people))).Methods("PUT")

	// DELETE /api/teams/{id} - Delete a team
	router.Handle("/{id}", requireCap(model.CapTeamsWrite, handleDeleteTeam(teams))).Methods("DELETE")

	// PATCH /api/teams/{id}/position - Persist the chart position
	router.Handle("/{id}/position", requireCap(model.CapTeamsWrite, handleTeamPosition(teams))).Methods("PATCH")

	// GET /api/teams/{id}/members - List member persons
	router.Handle("/{id}/members", requireCap(model.CapTeamsRead, handleTeamMembers(teams))).Methods("GET")
}

// teamRequest is the payload for creating and updating a team.
type teamRequest struct {
	Name        string     `json:"name" validate:"required"`
	Slug        string     `json:"slug" validate:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	LeadID      *uuid.UUID `json:"lead_id"`
}

func (req *teamRequest) apply(t *model.Team) {
	t.Name = req.Name
	t.Slug = req.Slug
	t.Description = req.Description
	t.ParentID = req.ParentID
	t.LeadID = req.LeadID
}

// teamPositionRequest carries the chart coordinates of a team node.
type teamPositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func handleListTeams(teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		list, err := teams.ListTeams(id.OrgID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list teams")
			return
		}

		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateTeam(teams store.TeamsStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		var req teamRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if !checkTeamRefs(w, teams, people, id.OrgID, nil, &req) {
			return
		}

		team := &model.Team{ID: uuid.New(), OrgID: id.OrgID}
		req.apply(team)

		if err := teams.CreateTeam(team); err != nil {
			if err == store.ErrTeamSlugTaken {
				respondWithError(w, http.StatusConflict, "a team with this slug already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create team")
			return
		}

		respondWithJSON(w, http.StatusCreated, team)
	}
}

func handleGetTeam(teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		team, ok := fetchTeam(w, r, teams, id.OrgID)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, team)
	}
}

func handleUpdateTeam(teams store.TeamsStore, people store.PeopleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		team, ok := fetchTeam(w, r, teams, id.OrgID)
		if !ok {
			return
		}

		var req teamRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if !checkTeamRefs(w, teams, people, id.OrgID, &team.ID, &req) {
			return
		}

		req.apply(team)
		if err := teams.UpdateTeam(team); err != nil {
			if err == store.ErrTeamSlugTaken {
				respondWithError(w, http.StatusConflict, "a team with this slug already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to update team")
			return
		}

		respondWithJSON(w, http.StatusOK, team)
	}
}

func handleDeleteTeam(teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		team, ok := fetchTeam(w, r, teams, id.OrgID)
		if !ok {
			return
		}

		// Members and child teams are detached inside the store.
		if err := teams.DeleteTeam(team); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete team")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleTeamPosition(teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		team, ok := fetchTeam(w, r, teams, id.OrgID)
		if !ok {
			return
		}

		var req teamPositionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := teams.UpdateTeamPosition(id.OrgID, team.ID, req.X, req.Y); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to update team position")
			return
		}

		team.PosX = req.X
		team.PosY = req.Y
		respondWithJSON(w, http.StatusOK, team)
	}
}

func handleTeamMembers(teams store.TeamsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		team, ok := fetchTeam(w, r, teams, id.OrgID)
		if !ok {
			return
		}

		members, err := teams.TeamMembers(id.OrgID, team.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list team members")
			return
		}

		respondWithJSON(w, http.StatusOK, members)
	}
}

// fetchTeam loads the team in the {id} path var, writing the error response
// when it cannot.
func fetchTeam(w http.ResponseWriter, r *http.Request, teams store.TeamsStore, orgID uuid.UUID) (*model.Team, bool) {
	teamID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "team not found")
		return nil, false
	}

	team, err := teams.GetTeam(orgID, teamID)
	if err != nil {
		if err == store.ErrTeamNotFound {
			respondWithError(w, http.StatusNotFound, "team not found")
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, "failed to fetch team")
		return nil, false
	}
	return team, true
}

// checkTeamRefs validates the parent and lead references of a team payload.
// A nil teamID means the team does not exist yet, so no parent cycle is
// possible. Writes the error response on failure.
func checkTeamRefs(w http.ResponseWriter, teams store.TeamsStore, people store.PeopleStore, orgID uuid.UUID, teamID *uuid.UUID, req *teamRequest) bool {
	if req.ParentID != nil {
		if _, err := teams.GetTeam(orgID, *req.ParentID); err != nil {
			if err == store.ErrTeamNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown parent team")
				return false
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch parent team")
			return false
		}
		if teamID != nil {
			all, err := teams.ListTeams(orgID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to list teams")
				return false
			}
			if orgchart.TeamWouldCycle(all, *teamID, *req.ParentID) {
				respondWithError(w, http.StatusBadRequest, "parent change would create a team cycle")
				return false
			}
		}
	}
	if req.LeadID != nil {
		if _, err := people.GetPerson(orgID, *req.LeadID); err != nil {
			if err == store.ErrPersonNotFound {
				respondWithError(w, http.StatusBadRequest, "unknown team lead")
				return false
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch team lead")
			return false
		}
	}
	return true
}
