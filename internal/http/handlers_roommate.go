package http

import (
	"net/http"

	"roomledger/internal/core"
)

type roommateRequest struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

type balanceRequest struct {
	Balance core.Money `json:"balance"`
}

type splitResponse struct {
	Share core.Money `json:"share"`
}

func (s *Server) handleListRoommates(w http.ResponseWriter, r *http.Request) {
	roommates, err := s.svc.Roommates.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roommates)
}

func (s *Server) handleCreateRoommate(w http.ResponseWriter, r *http.Request) {
	var req roommateRequest
	if !readJSON(w, r, &req) {
		return
	}

	roommate, err := s.svc.Roommates.Add(r.Context(), core.Roommate{
		Name:       req.Name,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, roommate)
}

func (s *Server) handleDeleteRoommate(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Roommates.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if !readJSON(w, r, &req) {
		return
	}

	roommate, err := s.svc.Roommates.SetBalance(r.Context(), r.PathValue("id"), req.Balance)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roommate)
}

func (s *Server) handleSplitEqually(w http.ResponseWriter, r *http.Request) {
	share, err := s.svc.Roommates.SplitEqually(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, splitResponse{Share: share})
}

func (s *Server) handleResetBalances(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Roommates.ResetBalances(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
