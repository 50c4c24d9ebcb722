package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/authn/azuread"
	"github.com/kantoorhq/kantoor/pkg/config"
	kantoordb "github.com/kantoorhq/kantoor/pkg/db"
	"github.com/kantoorhq/kantoor/pkg/devicesync"
	"github.com/kantoorhq/kantoor/pkg/msgraph"
	"github.com/kantoorhq/kantoor/pkg/server/middleware"
	"github.com/kantoorhq/kantoor/pkg/server/store"
	gormstore "github.com/kantoorhq/kantoor/pkg/server/store/gorm"
)

// SessionCookieName is the name of the login session cookie.
const SessionCookieName = "kantoor_session"

type Server struct {
	Router   *mux.Router
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Sessions *scs.SessionManager

	// SessionAuth resolves the session cookie into a request identity. The
	// endpoints packages hang it off their subrouters.
	SessionAuth *middleware.SessionAuthenticator

	Orgs      store.OrgsStore
	Roles     store.RolesStore
	Users     store.UsersStore
	People    store.PeopleStore
	Teams     store.TeamsStore
	Assets    store.AssetsStore
	Security  store.SecurityStore
	Docs      store.DocsStore
	Workflows store.WorkflowsStore
	Health    store.HealthStore

	AuditStore *audit.Store
	Auth       *azuread.Client
	Graph      *msgraph.Client
	Syncer     *devicesync.Syncer

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.Config,
	logger *zap.Logger,
	host string,
	port string,
) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := kantoordb.SQLDB(db)
	if err != nil {
		return nil, err
	}

	sessions := newSessionManager(sqlDB, cfg)
	router := mux.NewRouter().UseEncodedPath()

	handler := sessions.LoadAndSave(router)
	if cfg.FrontEndURL != "" {
		handler = handlers.CORS(
			handlers.AllowedOrigins([]string{cfg.FrontEndURL}),
			handlers.AllowedMethods([]string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowCredentials(),
		)(handler)
	}
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, handler),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	s := &Server{
		Router:   router,
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,

		Orgs:      gormstore.NewOrgsStore(db),
		Roles:     gormstore.NewRolesStore(db),
		Users:     gormstore.NewUsersStore(db),
		People:    gormstore.NewPeopleStore(db),
		Teams:     gormstore.NewTeamsStore(db),
		Assets:    gormstore.NewAssetsStore(db),
		Security:  gormstore.NewSecurityStore(db),
		Docs:      gormstore.NewDocsStore(db),
		Workflows: gormstore.NewWorkflowsStore(db),
		Health:    gormstore.NewHealthStore(db),

		srv: srv,
	}
	s.SessionAuth = middleware.NewSessionAuthenticator(sessions, s.Users, logger)

	if err := s.setupAudit(sqlDB); err != nil {
		return nil, err
	}
	s.setupAzure()

	return s, nil
}

// newSessionManager builds the session manager backed by the sessions table
// in the main database, so logins survive server restarts.
func newSessionManager(sqlDB *sql.DB, cfg *config.Config) *scs.SessionManager {
	sessions := scs.New()
	sessions.Store = postgresstore.New(sqlDB)
	sessions.Lifetime = cfg.SessionTTL()
	sessions.Cookie.Name = SessionCookieName
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.SecureCookies
	sessions.Cookie.Persist = true
	return sessions
}

// setupAudit wires audit persistence. A dedicated AUDIT_DATABASE_URL wins;
// otherwise events land in the main database.
func (s *Server) setupAudit(sqlDB *sql.DB) error {
	audit.SetEnabled(s.Config.AuditEnabled)
	if !s.Config.AuditEnabled {
		return nil
	}

	auditStore, err := audit.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	if auditStore == nil {
		auditStore = audit.NewStoreWithDB(sqlDB)
	}
	audit.SetDefaultStore(auditStore)
	s.AuditStore = auditStore
	return nil
}

// setupAzure builds the Azure AD login client, the Graph client and the
// device syncer. All three stay nil when the integration is not configured;
// the SSO and sync endpoints then report it as unavailable.
func (s *Server) setupAzure() {
	if !s.Config.AzureConfigured() {
		return
	}

	s.Auth = azuread.NewClient(azuread.Config{
		TenantID:     s.Config.AzureTenantID,
		ClientID:     s.Config.AzureClientID,
		ClientSecret: s.Config.AzureClientSecret,
		RedirectURI:  s.Config.AzureRedirectURI,
	})
	s.Graph = msgraph.NewClient(msgraph.Config{
		TenantID:     s.Config.AzureTenantID,
		ClientID:     s.Config.AzureClientID,
		ClientSecret: s.Config.AzureClientSecret,
	})
	s.Syncer = &devicesync.Syncer{
		Devices:       s.Graph,
		Assets:        s.Assets,
		People:        s.People,
		DeleteOrphans: s.Config.SyncDeleteOrphans,
		Logger:        s.Logger.Named("devicesync"),
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
