package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

func StatusFor(kind serrors.Kind) int {
	switch kind {
	case serrors.KindNotFound:
		return http.StatusNotFound
	case serrors.KindConflict, serrors.KindAlreadyOnDuty, serrors.KindNoDutyToPass:
		return http.StatusConflict
	case serrors.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case serrors.KindValidation:
		return http.StatusUnprocessableEntity
	case serrors.KindUnauthorized:
		return http.StatusUnauthorized
	case serrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError renders err using its kind. Untyped errors become a
// generic 500 without leaking their text.
func WriteServiceError(w http.ResponseWriter, err error) error {
	var typed *serrors.Error
	if !errors.As(err, &typed) {
		return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
	message := typed.Message
	if typed.Kind == serrors.KindSagaCompensationFailed {
		message = err.Error()
	}
	return WriteError(w, StatusFor(typed.Kind), typed.Code, message, typed.Meta)
}
