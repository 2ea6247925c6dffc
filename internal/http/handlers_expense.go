package http

import (
	"net/http"

	"roomledger/internal/core"
)

type expenseRequest struct {
	Title   string      `json:"title"`
	Amount  amountField `json:"amount"`
	Date    string      `json:"date"`
	AddedBy string      `json:"addedBy"`
	UserID  string      `json:"userId"`
}

func (req expenseRequest) toExpense() core.Expense {
	return core.Expense{
		Title:   req.Title,
		Amount:  req.Amount.Money,
		Date:    req.Date,
		AddedBy: req.AddedBy,
		UserID:  req.UserID,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.Expenses.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.svc.Expenses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !readJSON(w, r, &req) {
		return
	}

	expense := req.toExpense()
	// Requests without an explicit author are stamped with the locally
	// registered user, when one exists.
	if expense.AddedBy == "" {
		if user, err := s.svc.Identity.CurrentUser(); err == nil {
			expense.AddedBy = user.Name
			expense.UserID = user.ID
		}
	}

	expense, err := s.svc.Expenses.Add(r.Context(), expense)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !readJSON(w, r, &req) {
		return
	}

	expense, err := s.svc.Expenses.Update(r.Context(), r.PathValue("id"), req.toExpense())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Expenses.Clear(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
