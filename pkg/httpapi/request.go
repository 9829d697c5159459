package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrMalformedBody = serrors.Validation("MALFORMED_BODY", "request body is not valid JSON")
	ErrBadPathParam  = serrors.Validation("BAD_PATH_PARAM", "invalid path parameter")
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into v. Unknown fields are rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrMalformedBody.Wrap(err)
	}
	return nil
}

// PathInt64 parses the named mux variable as a positive integer.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadPathParam.WithMeta(name, raw)
	}
	return id, nil
}

// Respond writes payload with status, or err through WriteServiceError.
// Errors mapped to a 5xx status are logged with the request logger.
func Respond(w http.ResponseWriter, r *http.Request, status int, payload any, err error) {
	if err != nil {
		if StatusFor(serrors.KindOf(err)) >= http.StatusInternalServerError {
			composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		}
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, status, payload)
}
