package endpoints

import (
	"github.com/kantoorhq/kantoor/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthEndpoints(srv)
	RegisterPeopleEndpoints(srv)
	RegisterTeamsEndpoints(srv)
	RegisterAssetsEndpoints(srv)
	RegisterSecurityEndpoints(srv)
	RegisterDocsEndpoints(srv)
	RegisterWorkflowsEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterAuditEndpoints(srv)
	RegisterStatusEndpoint(srv)
}
