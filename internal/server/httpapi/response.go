package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

// envelope is the body of every response.
type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []common.FieldError `json:"errors,omitempty"`
}

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, envelope{Success: success, Message: message})
}

// decode reads a JSON request body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeBadJSON(w http.ResponseWriter) {
	writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
}

// writeError maps a service error onto a status and envelope. Unexpected
// errors are logged under op and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Validation failed", Errors: verr.Fields})
	case errors.Is(err, services.ErrEmailTaken):
		writeMessage(w, http.StatusBadRequest, false, "Email already registered")
	case errors.Is(err, services.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, false, "User not found")
	case errors.Is(err, services.ErrNoteNotFound):
		writeMessage(w, http.StatusNotFound, false, "Note not found")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, false, "Not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, false, "Already exists")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeMessage(w, http.StatusUnauthorized, false, "Refresh token expired")
	case errors.Is(err, common.ErrTokenExpired):
		writeMessage(w, http.StatusUnauthorized, false, "Token expired")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, false, "Invalid credentials")
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, false, "Account is inactive")
	case errors.Is(err, common.ErrorConflict):
		writeMessage(w, http.StatusConflict, false, "Note id already in use")
	default:
		s.logger.Error(r.Context(), op, "error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		writeMessage(w, http.StatusInternalServerError, false, "Internal server error")
	}
}
