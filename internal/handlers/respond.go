package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error              string             `json:"error"`
	Details            []apperr.FieldError `json:"details,omitempty"`
	ActiveAppointments int64              `json:"active_appointments,omitempty"`
}

// writeError maps the service error taxonomy onto status codes. Storage
// and configuration failures are logged with detail but answered with a
// generic message.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "invalid request data",
			Details: validationErr.Fields,
		})
		return
	}

	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundErr.Msg})
		return
	}

	var conflictErr *apperr.ConflictError
	if errors.As(err, &conflictErr) {
		writeJSON(w, http.StatusConflict, errorBody{
			Error:              conflictErr.Msg,
			ActiveAppointments: conflictErr.ActiveAppointments,
		})
		return
	}

	logger.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// pathID parses the {id} segment. A non-numeric id is a client error, not
// a lookup miss.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json body"})
		return false
	}
	return true
}
