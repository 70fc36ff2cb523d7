// Package httputil centralizes JSON response writing and domain error
// translation so every handler produces the same envelopes.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "vise/pkg/domain-errors"
)

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeBadRequest: http.StatusBadRequest,
	dErrors.CodeValidation: http.StatusBadRequest,
	dErrors.CodeNotFound:   http.StatusNotFound,
	dErrors.CodeForbidden:  http.StatusForbidden,
	dErrors.CodeConflict:   http.StatusConflict,
	dErrors.CodeInternal:   http.StatusInternalServerError,
}

// ToHTTPStatus returns the HTTP status for a domain error code.
func ToHTTPStatus(code dErrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope. Internal
// errors omit the description so store or library details never reach callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}

// Validatable is implemented by request DTOs that validate and parse their
// own fields after decoding.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes a JSON request body into T and runs its
// validation, writing the error response itself on failure. Handlers only
// proceed when the second return value is true.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	req := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "invalid request body",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
