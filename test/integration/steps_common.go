package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/authn"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
)

// adminPassword is the fixed password every provisioned test admin gets.
const adminPassword = "kantoor-integration"

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	client       *http.Client
	response     *http.Response
	responseBody []byte
	orgID        uuid.UUID
	orgSlug      string
	adminEmail   string
	templateIDs  map[string]uuid.UUID
	instanceID   uuid.UUID
	instanceJSON map[string]any
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	// A cookie jar per scenario keeps the session cookie between steps.
	jar, _ := cookiejar.New(nil)
	return &StepsContext{
		tc:          tc,
		client:      &http.Client{Jar: jar, Timeout: tc.HTTPClient.Timeout},
		templateIDs: make(map[string]uuid.UUID),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a Kantoor server is running$`, s.aKantoorServerIsRunning)
	sc.Step(`^an organization "([^"]*)" exists$`, s.anOrganizationExists)
	sc.Step(`^I am logged in as the organization admin$`, s.iAmLoggedInAsTheAdmin)
	sc.Step(`^I log in with email "([^"]*)" and password "([^"]*)"$`, s.iLogInWith)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendRequest)
	sc.Step(`^I send a (POST|PUT|PATCH) request to "([^"]*)" with body:$`, s.iSendRequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
	sc.Step(`^the X-Total-Count header should be (\d+)$`, s.theTotalCountHeaderShouldBe)

	// Directory fixtures and assertions
	sc.Step(`^a person "([^"]*) ([^"]*)" with email "([^"]*)" exists$`, s.aPersonExists)
	sc.Step(`^person "([^"]*)" should exist$`, s.personShouldExist)
	sc.Step(`^no live person "([^"]*)" should remain$`, s.noLivePersonShouldRemain)

	s.registerWorkflowSteps(sc)
}

// Background steps

func (s *StepsContext) aKantoorServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anOrganizationExists(slug string) error {
	s.orgSlug = slug
	domain := slug + ".example"
	s.adminEmail = "admin@" + domain

	orgs := gormstore.NewOrgsStore(s.tc.DB)

	// Scenarios share the database, so reuse the organization when an
	// earlier scenario already provisioned it.
	existing, err := orgs.GetOrgBySlug(slug)
	if err == nil {
		s.orgID = existing.ID
		return nil
	}
	if err != store.ErrOrgNotFound {
		return err
	}

	hash, err := authn.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	provisioned, err := orgs.ProvisionOrg(slug, slug, domain, s.adminEmail, "Admin", hash)
	if err != nil {
		return err
	}
	s.orgID = provisioned.Org.ID
	return nil
}

func (s *StepsContext) iAmLoggedInAsTheAdmin() error {
	if err := s.iLogInWith(s.adminEmail, adminPassword); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("admin login failed with status %d: %s", s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

// iLogInWith performs the login without asserting the outcome, so scenarios
// can check failure statuses with a response step.
func (s *StepsContext) iLogInWith(email, password string) error {
	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, password)
	return s.doRequest("POST", "/auth/login", body)
}

// Request steps

func (s *StepsContext) iSendRequest(method, path string) error {
	return s.doRequest(method, path, "")
}

func (s *StepsContext) iSendRequestWithBody(method, path string, body *godog.DocString) error {
	return s.doRequest(method, path, body.Content)
}

func (s *StepsContext) doRequest(method, path, body string) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	s.response, err = s.client.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("response does not contain %q: %s", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theJSONFieldShouldBe(field, expected string) error {
	var payload map[string]any
	if err := json.Unmarshal(s.responseBody, &payload); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	actual, ok := payload[field]
	if !ok {
		return fmt.Errorf("field %q missing from response: %s", field, string(s.responseBody))
	}
	if fmt.Sprintf("%v", actual) != expected {
		return fmt.Errorf("expected %q to be %q, got %v", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theTotalCountHeaderShouldBe(expected int) error {
	header := s.response.Header.Get("X-Total-Count")
	actual, err := strconv.Atoi(header)
	if err != nil {
		return fmt.Errorf("X-Total-Count header %q is not a number", header)
	}
	if actual != expected {
		return fmt.Errorf("expected X-Total-Count %d, got %d", expected, actual)
	}
	return nil
}

// Directory fixtures and assertions

func (s *StepsContext) aPersonExists(firstName, lastName, email string) error {
	people := gormstore.NewPeopleStore(s.tc.DB)

	if _, err := people.GetPersonByEmail(s.orgID, email); err == nil {
		return nil
	} else if err != store.ErrPersonNotFound {
		return err
	}

	return people.CreatePerson(&model.Person{
		ID:        uuid.New(),
		OrgID:     s.orgID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Status:    model.PersonActive,
	})
}

func (s *StepsContext) personShouldExist(email string) error {
	_, err := gormstore.NewPeopleStore(s.tc.DB).GetPersonByEmail(s.orgID, email)
	if err == store.ErrPersonNotFound {
		return fmt.Errorf("person %s does not exist", email)
	}
	return err
}

func (s *StepsContext) noLivePersonShouldRemain(email string) error {
	_, err := gormstore.NewPeopleStore(s.tc.DB).GetPersonByEmail(s.orgID, email)
	if err == nil {
		return fmt.Errorf("person %s still exists", email)
	}
	if err != store.ErrPersonNotFound {
		return err
	}
	return nil
}
