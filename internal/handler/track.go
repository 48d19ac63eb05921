package handler

import (
	"net/http"
	"time"
)

// RunTracking handles POST /api/track — the cron trigger. The run itself
// decides which routes are due; an empty pass is still a 200.
func (s *Server) RunTracking(w http.ResponseWriter, r *http.Request) {
	report := s.runner.Run(r.Context(), time.Now())
	if !report.OK() {
		type failedReport struct {
			Error string `json:"error"`
		}
		writeJSON(w, http.StatusInternalServerError, failedReport{Error: report.Err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}
