// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. Business rules live in the service layer.
package handler

// RESPONSE HELPERS:
// Every handler sends JSON through these two functions so the whole API
// speaks one dialect.
//
// ERROR FORMAT:
// Error bodies are keyed by a semantic field name describing what went
// wrong, and the value is the human-readable message:
//
//	{"email": "email already exists"}
//	{"noprofile": "there is no profile for this user"}
//	{"alreadyliked": "user already liked this post"}
//
// The field key comes from the AppError raised by the service or store, so
// a client can branch on the key without parsing the message text. Errors
// with no field (and unknown internal errors) fall back to the "error" key.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnect/internal/apperror"
)

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first body write; once Encode starts writing, header
// changes are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already went out; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP status and the
// field-keyed error body.
//
// The mapping lives here and only here; the service layer returns
// apperror sentinels and has no idea HTTP exists. errors.Is walks the
// wrap chain, so a service error wrapped with fmt.Errorf("%w", ...) still
// maps correctly.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// Unknown error. Never leak internals (SQL text, file paths) to
		// the client; the details are already logged where they occurred.
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "an internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
	}

	field := appErr.Field
	if field == "" {
		field = "error"
	}
	writeJSON(w, status, map[string]string{field: appErr.Message})
}

// decodeJSON parses the request body into dst. A malformed body is a
// validation error like any other bad input.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("error", "invalid request body")
	}
	return nil
}
