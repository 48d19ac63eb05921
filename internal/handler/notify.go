package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/farewatch/internal/domain"
)

// GetNotificationConfig handles GET /api/notifications.
func (s *Server) GetNotificationConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.config.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PutNotificationConfig handles PUT /api/notifications. The body replaces
// the whole document; there is no partial patch.
func (s *Server) PutNotificationConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.NotificationConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	saved, err := s.config.Put(r.Context(), cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
