package http

import (
	"net/http"
	"strconv"
	"time"
)

// handleAnalytics serves the monthly report. Year and month default to
// the current calendar month.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid year")
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusUnprocessableEntity, "invalid month")
			return
		}
		month = parsed
	}

	report, err := s.svc.Analytics.MonthlyReport(r.Context(), year, time.Month(month))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMonthlyReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset.MonthlyReset(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
