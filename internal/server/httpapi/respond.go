// Package httpapi is the HTTP surface of the Gowear server: routing,
// request decoding, auth middleware, and the error-to-status mapping.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gowear/gowear/internal/common"
)

// errorResponse is the uniform error body. Fields is present only for
// validation failures.
type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError translates service errors into HTTP statuses. Anything not in
// the map is a server fault and reports a generic message so internals do
// not leak.
func writeError(w http.ResponseWriter, err error) {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: verr.Messages()[0],
			Fields:  verr.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrUserExists),
		errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrMethodMismatch),
		errors.Is(err, common.ErrEmailNotVerified),
		errors.Is(err, common.ErrNotApproved),
		errors.Is(err, common.ErrOTPExpired),
		errors.Is(err, common.ErrOTPInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrNoRefreshToken),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Message: msg})
}

// decodeJSON reads a request body into dst, rejecting unknown garbage with
// a 400-ready error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewValidationError(map[string]string{"body": "Request body must be valid JSON"})
	}
	return nil
}
