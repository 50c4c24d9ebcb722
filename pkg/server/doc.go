// Package server provides the HTTP server for the Kantoor API.
//
// This package implements the core HTTP server that handles all Kantoor REST
// API requests. It uses gorilla/mux for routing, scs for cookie sessions and
// GORM-backed stores for persistence.
//
// # Server Setup
//
//	srv, err := server.NewServer(db, sqlDB, cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds the router, the session manager, one typed store
// per domain (people, teams, assets, security, docs, workflows, users,
// roles, orgs), the audit store and the optional Azure AD and Microsoft
// Graph clients.
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers the session-gated REST surface:
//
//   - /auth/login, /auth/logout, /auth/whoami, /auth/azure/* - sessions and SSO
//   - /api/people - HR records and the org chart
//   - /api/teams - teams and chart layout
//   - /api/assets - hardware inventory, assignments and Intune sync
//   - /api/security - frameworks, controls, SoA, risks and evidence
//   - /api/docs - controlled documents, versions and rollouts
//   - /api/workflows - templates, instances and step transitions
//   - /api/users - accounts and roles
//   - /api/audit - persisted audit trail
//   - /api/status - public health check
package server
