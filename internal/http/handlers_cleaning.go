package http

import (
	"net/http"
	"time"

	"roomledger/internal/core"
)

type cleaningTaskRequest struct {
	Title      string `json:"title"`
	AssignedTo string `json:"assignedTo"`
	Frequency  string `json:"frequency"`
	DueDate    string `json:"dueDate"`
}

type taskStatusRequest struct {
	Completed bool `json:"completed"`
}

// cleaningTaskResponse decorates a task with its derived due status.
type cleaningTaskResponse struct {
	core.CleaningTask
	Status core.DueStatus `json:"status"`
}

func toTaskResponse(task core.CleaningTask, now time.Time) cleaningTaskResponse {
	return cleaningTaskResponse{CleaningTask: task, Status: core.DueStatusOf(task, now)}
}

func (s *Server) handleListCleaningTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.Cleaning.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	now := time.Now()
	out := make([]cleaningTaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = toTaskResponse(task, now)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCleaningTask(w http.ResponseWriter, r *http.Request) {
	var req cleaningTaskRequest
	if !readJSON(w, r, &req) {
		return
	}

	task, err := s.svc.Cleaning.Add(r.Context(), core.CleaningTask{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Frequency:  core.Frequency(req.Frequency),
		DueDate:    req.DueDate,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task, time.Now()))
}

func (s *Server) handleSetCleaningStatus(w http.ResponseWriter, r *http.Request) {
	var req taskStatusRequest
	if !readJSON(w, r, &req) {
		return
	}

	task, err := s.svc.Cleaning.SetStatus(r.Context(), r.PathValue("id"), req.Completed)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task, time.Now()))
}

func (s *Server) handleDeleteCleaningTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Cleaning.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
