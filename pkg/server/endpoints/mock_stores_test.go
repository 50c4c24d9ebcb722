package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/identity"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	"github.com/kantoorhq/kantoor/pkg/workflow"
)

// testIdentity builds an authenticated identity carrying the given
// capabilities, the way the session middleware would resolve one.
func testIdentity(orgID uuid.UUID, caps ...string) *identity.Identity {
	return &identity.Identity{
		UserID:       uuid.New(),
		OrgID:        orgID,
		Email:        "tester@example.com",
		DisplayName:  "Test User",
		RoleName:     "manager",
		Capabilities: caps,
	}
}

// requestWithIdentity builds a request with the identity already set in
// context, bypassing the session middleware.
func requestWithIdentity(method, target, body string, id *identity.Identity) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(identity.Set(req.Context(), id))
}

// withMuxVars injects path variables without routing through the mux
func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

func testConfig() *config.Config {
	return &config.Config{APIListLimitMax: 100, SessionTTLHours: 24}
}

// MockPeopleStore implements store.PeopleStore for testing using testify/mock
type MockPeopleStore struct {
	mock.Mock
}

func NewMockPeopleStore() *MockPeopleStore {
	return &MockPeopleStore{}
}

func (m *MockPeopleStore) ListPeople(orgID uuid.UUID, filter store.PersonFilter) ([]model.Person, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).([]model.Person), args.Error(1)
}

func (m *MockPeopleStore) CountPeople(orgID uuid.UUID, filter store.PersonFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPeopleStore) GetPerson(orgID, id uuid.UUID) (*model.Person, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPeopleStore) GetPersonByEmail(orgID uuid.UUID, email string) (*model.Person, error) {
	args := m.Called(orgID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPeopleStore) CreatePerson(person *model.Person) error {
	args := m.Called(person)
	return args.Error(0)
}

func (m *MockPeopleStore) UpdatePerson(person *model.Person) error {
	args := m.Called(person)
	return args.Error(0)
}

func (m *MockPeopleStore) DeletePerson(person *model.Person) error {
	args := m.Called(person)
	return args.Error(0)
}

func (m *MockPeopleStore) DirectReports(orgID, personID uuid.UUID) ([]model.Person, error) {
	args := m.Called(orgID, personID)
	return args.Get(0).([]model.Person), args.Error(1)
}

// MockTeamsStore implements store.TeamsStore for testing using testify/mock
type MockTeamsStore struct {
	mock.Mock
}

func NewMockTeamsStore() *MockTeamsStore {
	return &MockTeamsStore{}
}

func (m *MockTeamsStore) ListTeams(orgID uuid.UUID) ([]model.Team, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.Team), args.Error(1)
}

func (m *MockTeamsStore) GetTeam(orgID, id uuid.UUID) (*model.Team, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamsStore) GetTeamBySlug(orgID uuid.UUID, slug string) (*model.Team, error) {
	args := m.Called(orgID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamsStore) CreateTeam(team *model.Team) error {
	args := m.Called(team)
	return args.Error(0)
}

func (m *MockTeamsStore) UpdateTeam(team *model.Team) error {
	args := m.Called(team)
	return args.Error(0)
}

func (m *MockTeamsStore) UpdateTeamPosition(orgID, id uuid.UUID, x, y float64) error {
	args := m.Called(orgID, id, x, y)
	return args.Error(0)
}

func (m *MockTeamsStore) DeleteTeam(team *model.Team) error {
	args := m.Called(team)
	return args.Error(0)
}

func (m *MockTeamsStore) TeamMembers(orgID, teamID uuid.UUID) ([]model.Person, error) {
	args := m.Called(orgID, teamID)
	return args.Get(0).([]model.Person), args.Error(1)
}

// MockAssetsStore implements store.AssetsStore for testing using testify/mock
type MockAssetsStore struct {
	mock.Mock
}

func NewMockAssetsStore() *MockAssetsStore {
	return &MockAssetsStore{}
}

func (m *MockAssetsStore) ListAssets(orgID uuid.UUID, filter store.AssetFilter) ([]model.Asset, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockAssetsStore) CountAssets(orgID uuid.UUID, filter store.AssetFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetsStore) GetAsset(orgID, id uuid.UUID) (*model.Asset, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetsStore) GetAssetByIntuneDeviceID(orgID uuid.UUID, deviceID string) (*model.Asset, error) {
	args := m.Called(orgID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetsStore) GetAssetBySerialNumber(orgID uuid.UUID, serial string) (*model.Asset, error) {
	args := m.Called(orgID, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetsStore) CreateAsset(asset *model.Asset) error {
	args := m.Called(asset)
	return args.Error(0)
}

func (m *MockAssetsStore) UpdateAsset(asset *model.Asset) error {
	args := m.Called(asset)
	return args.Error(0)
}

func (m *MockAssetsStore) DeleteAsset(asset *model.Asset) error {
	args := m.Called(asset)
	return args.Error(0)
}

func (m *MockAssetsStore) NextAssetTag(orgID uuid.UUID) (string, error) {
	args := m.Called(orgID)
	return args.String(0), args.Error(1)
}

func (m *MockAssetsStore) SyncedAssets(orgID uuid.UUID) ([]model.Asset, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockAssetsStore) ActiveAssignment(assetID uuid.UUID) (*model.AssetAssignment, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssetAssignment), args.Error(1)
}

func (m *MockAssetsStore) AssignAsset(asset *model.Asset, personID uuid.UUID, assignedBy, note string) (*model.AssetAssignment, error) {
	args := m.Called(asset, personID, assignedBy, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssetAssignment), args.Error(1)
}

func (m *MockAssetsStore) ReturnAsset(asset *model.Asset, returnedBy string) error {
	args := m.Called(asset, returnedBy)
	return args.Error(0)
}

func (m *MockAssetsStore) AssignmentHistory(assetID uuid.UUID) ([]model.AssetAssignment, error) {
	args := m.Called(assetID)
	return args.Get(0).([]model.AssetAssignment), args.Error(1)
}

func (m *MockAssetsStore) RecordAssetEvent(event *model.AssetEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockAssetsStore) AssetEvents(assetID uuid.UUID, limit int) ([]model.AssetEvent, error) {
	args := m.Called(assetID, limit)
	return args.Get(0).([]model.AssetEvent), args.Error(1)
}

func (m *MockAssetsStore) ListAssetCategories(orgID uuid.UUID) ([]model.AssetCategory, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.AssetCategory), args.Error(1)
}

func (m *MockAssetsStore) GetAssetCategory(orgID, id uuid.UUID) (*model.AssetCategory, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssetCategory), args.Error(1)
}

func (m *MockAssetsStore) GetOrCreateAssetCategory(orgID uuid.UUID, name string) (*model.AssetCategory, error) {
	args := m.Called(orgID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssetCategory), args.Error(1)
}

func (m *MockAssetsStore) CreateAssetCategory(category *model.AssetCategory) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockAssetsStore) DeleteAssetCategory(category *model.AssetCategory) error {
	args := m.Called(category)
	return args.Error(0)
}

// MockSecurityStore implements store.SecurityStore for testing using testify/mock
type MockSecurityStore struct {
	mock.Mock
}

func NewMockSecurityStore() *MockSecurityStore {
	return &MockSecurityStore{}
}

func (m *MockSecurityStore) ListFrameworks(orgID uuid.UUID) ([]model.Framework, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.Framework), args.Error(1)
}

func (m *MockSecurityStore) GetFramework(orgID, id uuid.UUID) (*model.Framework, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Framework), args.Error(1)
}

func (m *MockSecurityStore) CreateFramework(framework *model.Framework) error {
	args := m.Called(framework)
	return args.Error(0)
}

func (m *MockSecurityStore) UpdateFramework(framework *model.Framework) error {
	args := m.Called(framework)
	return args.Error(0)
}

func (m *MockSecurityStore) DeleteFramework(framework *model.Framework) error {
	args := m.Called(framework)
	return args.Error(0)
}

func (m *MockSecurityStore) ListControls(orgID, frameworkID uuid.UUID) ([]model.Control, error) {
	args := m.Called(orgID, frameworkID)
	return args.Get(0).([]model.Control), args.Error(1)
}

func (m *MockSecurityStore) GetControl(orgID, id uuid.UUID) (*model.Control, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Control), args.Error(1)
}

func (m *MockSecurityStore) CreateControl(control *model.Control) error {
	args := m.Called(control)
	return args.Error(0)
}

func (m *MockSecurityStore) UpdateControl(control *model.Control) error {
	args := m.Called(control)
	return args.Error(0)
}

func (m *MockSecurityStore) DeleteControl(control *model.Control) error {
	args := m.Called(control)
	return args.Error(0)
}

func (m *MockSecurityStore) SoAForFramework(orgID, frameworkID uuid.UUID) ([]store.SoARow, error) {
	args := m.Called(orgID, frameworkID)
	return args.Get(0).([]store.SoARow), args.Error(1)
}

func (m *MockSecurityStore) UpsertSoAItem(item *model.SoAItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockSecurityStore) ListRisks(orgID uuid.UUID, filter store.RiskFilter) ([]model.Risk, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).([]model.Risk), args.Error(1)
}

func (m *MockSecurityStore) GetRisk(orgID, id uuid.UUID) (*model.Risk, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Risk), args.Error(1)
}

func (m *MockSecurityStore) CreateRisk(risk *model.Risk) error {
	args := m.Called(risk)
	return args.Error(0)
}

func (m *MockSecurityStore) UpdateRisk(risk *model.Risk) error {
	args := m.Called(risk)
	return args.Error(0)
}

func (m *MockSecurityStore) DeleteRisk(risk *model.Risk) error {
	args := m.Called(risk)
	return args.Error(0)
}

func (m *MockSecurityStore) RiskMatrix(orgID uuid.UUID) ([]store.RiskCell, error) {
	args := m.Called(orgID)
	return args.Get(0).([]store.RiskCell), args.Error(1)
}

func (m *MockSecurityStore) ListEvidence(orgID, controlID uuid.UUID) ([]model.Evidence, error) {
	args := m.Called(orgID, controlID)
	return args.Get(0).([]model.Evidence), args.Error(1)
}

func (m *MockSecurityStore) GetEvidence(orgID, id uuid.UUID) (*model.Evidence, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Evidence), args.Error(1)
}

func (m *MockSecurityStore) CreateEvidence(evidence *model.Evidence) error {
	args := m.Called(evidence)
	return args.Error(0)
}

func (m *MockSecurityStore) DeleteEvidence(evidence *model.Evidence) error {
	args := m.Called(evidence)
	return args.Error(0)
}

// MockDocsStore implements store.DocsStore for testing using testify/mock
type MockDocsStore struct {
	mock.Mock
}

func NewMockDocsStore() *MockDocsStore {
	return &MockDocsStore{}
}

func (m *MockDocsStore) ListDocuments(orgID uuid.UUID, filter store.DocumentFilter) ([]model.Document, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocsStore) CountDocuments(orgID uuid.UUID, filter store.DocumentFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocsStore) GetDocument(orgID, id uuid.UUID) (*model.Document, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocsStore) GetDocumentBySlug(orgID uuid.UUID, slug string) (*model.Document, error) {
	args := m.Called(orgID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocsStore) CreateDocument(document *model.Document) error {
	args := m.Called(document)
	return args.Error(0)
}

func (m *MockDocsStore) UpdateDocument(document *model.Document) error {
	args := m.Called(document)
	return args.Error(0)
}

func (m *MockDocsStore) DeleteDocument(document *model.Document) error {
	args := m.Called(document)
	return args.Error(0)
}

func (m *MockDocsStore) CreateVersion(document *model.Document, body, changeNote, createdBy string) (*model.DocumentVersion, error) {
	args := m.Called(document, body, changeNote, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocsStore) ListVersions(documentID uuid.UUID) ([]model.DocumentVersion, error) {
	args := m.Called(documentID)
	return args.Get(0).([]model.DocumentVersion), args.Error(1)
}

func (m *MockDocsStore) GetVersion(documentID uuid.UUID, number int) (*model.DocumentVersion, error) {
	args := m.Called(documentID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocsStore) PublishDocument(document *model.Document, version *model.DocumentVersion) error {
	args := m.Called(document, version)
	return args.Error(0)
}

func (m *MockDocsStore) CreateRollout(rollout *model.Rollout) error {
	args := m.Called(rollout)
	return args.Error(0)
}

func (m *MockDocsStore) GetRollout(orgID, id uuid.UUID) (*model.Rollout, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rollout), args.Error(1)
}

func (m *MockDocsStore) ListRollouts(orgID uuid.UUID, documentID *uuid.UUID) ([]model.Rollout, error) {
	args := m.Called(orgID, documentID)
	return args.Get(0).([]model.Rollout), args.Error(1)
}

func (m *MockDocsStore) UpdateRollout(rollout *model.Rollout) error {
	args := m.Called(rollout)
	return args.Error(0)
}

func (m *MockDocsStore) Acknowledge(rollout *model.Rollout, personID uuid.UUID) (*model.Acknowledgment, bool, error) {
	args := m.Called(rollout, personID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Acknowledgment), args.Bool(1), args.Error(2)
}

func (m *MockDocsStore) RolloutProgress(rollout *model.Rollout) (*store.RolloutProgress, error) {
	args := m.Called(rollout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.RolloutProgress), args.Error(1)
}

func (m *MockDocsStore) AudiencePersons(orgID uuid.UUID, teamID *uuid.UUID) ([]model.Person, error) {
	args := m.Called(orgID, teamID)
	return args.Get(0).([]model.Person), args.Error(1)
}

// MockWorkflowsStore implements store.WorkflowsStore for testing using testify/mock
type MockWorkflowsStore struct {
	mock.Mock
}

func NewMockWorkflowsStore() *MockWorkflowsStore {
	return &MockWorkflowsStore{}
}

func (m *MockWorkflowsStore) ListTemplates(orgID uuid.UUID) ([]model.WorkflowTemplate, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowsStore) GetTemplate(orgID, id uuid.UUID) (*model.WorkflowTemplate, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowsStore) CreateTemplate(template *model.WorkflowTemplate) error {
	args := m.Called(template)
	return args.Error(0)
}

func (m *MockWorkflowsStore) UpdateTemplate(template *model.WorkflowTemplate) error {
	args := m.Called(template)
	return args.Error(0)
}

func (m *MockWorkflowsStore) DeleteTemplate(template *model.WorkflowTemplate) error {
	args := m.Called(template)
	return args.Error(0)
}

func (m *MockWorkflowsStore) ImportTemplate(orgID uuid.UUID, file *workflow.TemplateFile) (*model.WorkflowTemplate, error) {
	args := m.Called(orgID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowTemplate), args.Error(1)
}

func (m *MockWorkflowsStore) CreateInstance(template *model.WorkflowTemplate, name string, subjectPersonID *uuid.UUID, createdBy string, startDate time.Time) (*model.WorkflowInstance, error) {
	args := m.Called(template, name, subjectPersonID, createdBy, startDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowInstance), args.Error(1)
}

func (m *MockWorkflowsStore) ListInstances(orgID uuid.UUID, filter store.InstanceFilter) ([]model.WorkflowInstance, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).([]model.WorkflowInstance), args.Error(1)
}

func (m *MockWorkflowsStore) CountInstances(orgID uuid.UUID, filter store.InstanceFilter) (int64, error) {
	args := m.Called(orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkflowsStore) GetInstance(orgID, id uuid.UUID) (*model.WorkflowInstance, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowInstance), args.Error(1)
}

func (m *MockWorkflowsStore) UpdateInstance(instance *model.WorkflowInstance) error {
	args := m.Called(instance)
	return args.Error(0)
}

func (m *MockWorkflowsStore) DeleteInstance(instance *model.WorkflowInstance) error {
	args := m.Called(instance)
	return args.Error(0)
}

func (m *MockWorkflowsStore) GetStep(orgID, id uuid.UUID) (*model.WorkflowStep, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowStep), args.Error(1)
}

func (m *MockWorkflowsStore) SaveStep(step *model.WorkflowStep) (*model.WorkflowInstance, error) {
	args := m.Called(step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowInstance), args.Error(1)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) ListUsers(orgID uuid.UUID) ([]model.User, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersStore) GetUser(orgID, id uuid.UUID) (*model.User, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetUserByAzureObjectID(objectID string) (*model.User, error) {
	args := m.Called(objectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) UpdateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) SetPassword(userID uuid.UUID, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockUsersStore) TouchLastLogin(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUsersStore) CountActiveAdmins(orgID uuid.UUID) (int64, error) {
	args := m.Called(orgID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRolesStore implements store.RolesStore for testing using testify/mock
type MockRolesStore struct {
	mock.Mock
}

func NewMockRolesStore() *MockRolesStore {
	return &MockRolesStore{}
}

func (m *MockRolesStore) ListRoles(orgID uuid.UUID) ([]model.Role, error) {
	args := m.Called(orgID)
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *MockRolesStore) GetRole(orgID, id uuid.UUID) (*model.Role, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRolesStore) GetRoleByName(orgID uuid.UUID, name string) (*model.Role, error) {
	args := m.Called(orgID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRolesStore) CreateRole(role *model.Role) error {
	args := m.Called(role)
	return args.Error(0)
}

func (m *MockRolesStore) UpdateRole(role *model.Role) error {
	args := m.Called(role)
	return args.Error(0)
}

func (m *MockRolesStore) DeleteRole(role *model.Role) error {
	args := m.Called(role)
	return args.Error(0)
}

// MockOrgsStore implements store.OrgsStore for testing using testify/mock
type MockOrgsStore struct {
	mock.Mock
}

func NewMockOrgsStore() *MockOrgsStore {
	return &MockOrgsStore{}
}

func (m *MockOrgsStore) ListOrgs() ([]model.Organization, error) {
	args := m.Called()
	return args.Get(0).([]model.Organization), args.Error(1)
}

func (m *MockOrgsStore) GetOrg(id uuid.UUID) (*model.Organization, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrgsStore) GetOrgBySlug(slug string) (*model.Organization, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrgsStore) GetOrgByDomain(domain string) (*model.Organization, error) {
	args := m.Called(domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrgsStore) ProvisionOrg(name, slug, domain, adminEmail, adminName, adminPasswordHash string) (*store.ProvisionedOrg, error) {
	args := m.Called(name, slug, domain, adminEmail, adminName, adminPasswordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ProvisionedOrg), args.Error(1)
}

func (m *MockOrgsStore) UpdateOrg(org *model.Organization) error {
	args := m.Called(org)
	return args.Error(0)
}

func (m *MockOrgsStore) DeleteOrg(org *model.Organization) error {
	args := m.Called(org)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
