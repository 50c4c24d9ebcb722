package endpoints

import (
	"net/http"
	"os"

	"github.com/kantoorhq/kantoor/pkg/server"
	"github.com/kantoorhq/kantoor/pkg/server/store"
)

// statusResponse is the public health payload.
type statusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// RegisterStatusEndpoint registers the public health endpoint. kantoorctl
// wait polls it until the database answers.
func RegisterStatusEndpoint(s *server.Server) {
	s.Router.HandleFunc("/api/status", handleStatus(s.Health)).Methods("GET")
}

func handleStatus(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("KANTOOR_VERSION_DISPLAY")
		if version == "" {
			version = "dev"
		}

		resp := statusResponse{Status: "ok", Version: version, Database: "ok"}
		code := http.StatusOK
		if err := health.CheckConnectivity(); err != nil {
			resp.Status = "error"
			resp.Database = "unreachable"
			code = http.StatusServiceUnavailable
		}

		respondWithJSON(w, code, resp)
	}
}
