package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
	"roomledger/internal/identity"
	"roomledger/internal/log"
	"roomledger/internal/services"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	if err := json.NewDecoder(body).Decode(v); err != nil {
		// Decoding surfaces amount parse failures, which are validation
		// errors rather than malformed JSON.
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// amountField accepts either an integer cent count or a decimal string
// ("12.34", comma separator allowed) in request payloads.
type amountField struct {
	core.Money
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	var decimal string
	if err := json.Unmarshal(data, &decimal); err == nil {
		cents, err := core.ParseDecimalToCents(decimal)
		if err != nil {
			return err
		}
		a.Cents = cents
		return nil
	}
	return a.Money.UnmarshalJSON(data)
}

// respondError maps domain errors onto HTTP statuses: validation
// failures are 422, missing documents 404, unsatisfied preconditions
// 409, anything else a logged 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, docstore.ErrNotFound),
		errors.Is(err, services.ErrNoBudget),
		errors.Is(err, core.ErrNoWaterDuty),
		errors.Is(err, identity.ErrNoUser):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNoRoommates):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyTitle,
		core.ErrEmptyName,
		core.ErrEmptyAssignee,
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidFrequency,
		core.ErrTitleTooLong,
		core.ErrNameTooLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
