package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"

	"github.com/jicongw/friendly-palm-tree/internal/auth"
	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Details lists the individual field
// violations of a validation error.
type ErrorDetail struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail is one field-level validation failure.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errBadRequest marks input rejected before reaching the service layer
// (malformed JSON, missing required fields, bad query values).
var errBadRequest = stderrors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the resource name because the handler is the layer
// that knows what was being looked up.
func notFoundBody(resource string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: resource + " not found"}}
}

// validationBody returns an ErrorResponse for a domain validation failure,
// with one detail per field violation.
func validationBody(err error) ErrorResponse {
	details := fieldDetails(err)
	msg := unwrapMessage(err)
	switch {
	case len(details) == 1:
		msg = details[0].Field + ": " + details[0].Message
	case len(details) > 1:
		msg = fmt.Sprintf("%d validation errors", len(details))
	}
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: msg, Details: details}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer.
func requestBody(err error) ErrorResponse {
	msg := strings.TrimPrefix(err.Error(), errBadRequest.Error()+": ")
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: msg}}
}

// fieldDetails flattens the *domain.FieldError values aggregated in err.
func fieldDetails(err error) []FieldDetail {
	var m *errors.M
	if !stderrors.As(err, &m) {
		var fe *domain.FieldError
		if stderrors.As(err, &fe) {
			return []FieldDetail{{Field: fe.Field, Message: unwrapMessage(fe.Err)}}
		}
		return nil
	}
	var out []FieldDetail
	for _, e := range m.Unwrap() {
		var fe *domain.FieldError
		if stderrors.As(e, &fe) {
			out = append(out, FieldDetail{Field: fe.Field, Message: unwrapMessage(fe.Err)})
		}
	}
	return out
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.TripService.Create: validation error: invalid stay length" → "invalid stay length"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and error body. resource names what
// was being looked up for 404 messages. Unexpected errors are logged and
// reported as 500 without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.Is(err, auth.ErrNoUser):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Code: "unauthorized", Message: "missing or invalid bearer token"}})
	case stderrors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: "payload_too_large", Message: "request body too large"}})
	case stderrors.Is(err, errBadRequest):
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err))
	case stderrors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(resource))
	case stderrors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: ErrorDetail{Code: "forbidden", Message: resource + " belongs to another user"}})
	case stderrors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		ctxlog.Logger(r.Context()).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// decodeJSON decodes the request body into dst, rejecting unknown fields and
// trailing data. Oversized bodies surface as *http.MaxBytesError.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return badRequest("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return badRequest("invalid request body: %v", err)
	}
	if dec.More() {
		return badRequest("invalid request body: unexpected data after JSON object")
	}
	return nil
}
