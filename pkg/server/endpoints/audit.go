package endpoints

import (
	"net/http"

	"github.com/kantoorhq/kantoor/pkg/audit"
	"github.com/kantoorhq/kantoor/pkg/config"
	"github.com/kantoorhq/kantoor/pkg/model"
	"github.com/kantoorhq/kantoor/pkg/server"
)

// RegisterAuditEndpoints registers the audit trail listing
func RegisterAuditEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/api/audit").Subrouter()
	router.Use(s.SessionAuth.Middleware)

	router.Handle("", requireCap(model.CapAuditRead, handleListAudit(s.AuditStore, s.Config))).Methods("GET")
}

func handleListAudit(auditStore *audit.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIdentity(w, r)
		if !ok {
			return
		}

		if auditStore == nil {
			respondWithError(w, http.StatusServiceUnavailable, "audit persistence is not enabled")
			return
		}

		limit, offset := parsePagination(r, cfg)
		messages, err := auditStore.List(id.OrgID.String(), limit, offset)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list audit events")
			return
		}
		if messages == nil {
			messages = []audit.Message{}
		}

		respondWithJSON(w, http.StatusOK, messages)
	}
}
