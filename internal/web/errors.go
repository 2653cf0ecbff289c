package web

// errors.go provides unified error response handling for the API.
//
// Every error path goes through respondError, which logs the technical
// error with the request ID for correlation and writes a JSON body with
// a stable machine-readable code. Domain errors carry their own status:
// an unrecognized roster layout is a 422, an unknown session a 404.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/store"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Missing []string `json:"missing_columns,omitempty"`
}

// respondError logs err server-side and writes the matching JSON error
// response. statusCode is the fallback when err is not a known domain
// error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	resp := ErrorResponse{Error: err.Error(), Code: codeForStatus(statusCode)}

	var formatErr *roster.FormatError
	switch {
	case errors.As(err, &formatErr):
		statusCode = http.StatusUnprocessableEntity
		resp.Code = "UNRECOGNIZED_FORMAT"
		resp.Missing = formatErr.Missing
	case errors.Is(err, store.ErrNotFound):
		statusCode = http.StatusNotFound
		resp.Code = "SESSION_NOT_FOUND"
	}

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", resp.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// codeForStatus maps a plain HTTP status to a default error code.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// decodeJSON decodes a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
