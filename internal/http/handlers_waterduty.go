package http

import "net/http"

func (s *Server) handleGetWaterDuty(w http.ResponseWriter, r *http.Request) {
	duty, err := s.svc.WaterDuty.Get(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, duty)
}

func (s *Server) handleInitializeWaterDuty(w http.ResponseWriter, r *http.Request) {
	duty, err := s.svc.WaterDuty.Initialize(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, duty)
}

func (s *Server) handleCompleteWaterDuty(w http.ResponseWriter, r *http.Request) {
	duty, err := s.svc.WaterDuty.Complete(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, duty)
}
