// Package httputil centralizes JSON response writing and domain error
// rendering for HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "ronda/pkg/domain-errors"
)

// errorBody is the wire shape for error responses.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// statusFor maps domain error codes onto HTTP status codes.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeRiskBlocked:
		return http.StatusForbidden
	case dErrors.CodeDataUnavailable, dErrors.CodeExternalDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// wireCode maps domain error codes onto stable client-facing identifiers.
func wireCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return "invalid_request"
	case dErrors.CodeBadRequest:
		return "bad_request"
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeRiskBlocked:
		return "risk_blocked"
	case dErrors.CodeDataUnavailable, dErrors.CodeExternalDependency:
		return "temporarily_unavailable"
	default:
		return "internal_error"
	}
}

// WriteError renders a domain error as JSON. Internal details and invariant
// violations never reach the client: they are rendered as a generic failure
// so a logic bug cannot masquerade as user error.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeFor(err)

	body := errorBody{Error: wireCode(code)}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		body.Error = "internal_error"
	default:
		var coded *dErrors.Error
		if ok := asDomainError(err, &coded); ok {
			body.ErrorDescription = coded.Message()
		}
	}

	WriteJSON(w, statusFor(code), body)
}

func asDomainError(err error, target **dErrors.Error) bool {
	for err != nil {
		if coded, ok := err.(*dErrors.Error); ok {
			*target = coded
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Decode parses a JSON request body into T, rendering a bad_request response
// on failure. The boolean reports whether the handler may proceed.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request decode failed", "error", err)
		}
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return req, false
	}
	return req, true
}
