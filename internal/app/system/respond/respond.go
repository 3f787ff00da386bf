// Package respond writes JSON API responses and maps domain errors to
// HTTP status codes.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/openscout/badgefinder/internal/domain/errs"
)

// JSON writes v as a JSON body with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a {"message": ...} body with the given status code.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error writes err as a JSON message with the status code implied by its
// domain kind. Errors outside the domain taxonomy become a 500 with a
// generic body so internal detail never reaches the client.
func Error(w http.ResponseWriter, err error) {
	kind, ok := errs.KindOf(err)
	if !ok {
		Message(w, http.StatusInternalServerError, "internal server error")
		return
	}
	Message(w, StatusForKind(kind), err.Error())
}

// StatusForKind maps a domain error kind to its HTTP status code.
func StatusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindUserNotFound, errs.KindBadgeNotFound, errs.KindRequirementNotFound:
		return http.StatusNotFound
	case errs.KindInvalidCredentials:
		return http.StatusUnauthorized
	case errs.KindDuplicateUsername, errs.KindDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
