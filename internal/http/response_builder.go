package http

import (
	"encoding/json"
	"errors"
	"net/http"

	applog "spendwise/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeRequestError maps parser errors: malformed bodies are 400, rule
// violations 422.
func writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, ErrMalformedBody) {
		status = http.StatusBadRequest
	}
	writeError(w, r, status, err.Error())
}

func writeInternalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		applog.FieldOperation, op,
		applog.FieldError, err)
	writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
