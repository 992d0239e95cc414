// Package apperror defines the application's error taxonomy.
//
// Every failure the API can report maps onto one of the sentinel errors
// below. Services return an *AppError wrapping a sentinel; handlers use
// errors.Is to pick a status code and errors.As to recover the message.
// Nothing between the two layers needs to know about HTTP.
package apperror

import "errors"

// Sentinel errors. These are the "kinds" of failure; errors.Is walks the
// wrap chain to match them.
var (
	ErrNotFound     = errors.New("not found")     // user/profile/post/entry missing → 404
	ErrValidation   = errors.New("invalid input") // malformed input shape → 400
	ErrConflict     = errors.New("conflict")      // duplicate email/handle, double like → 409
	ErrUnauthorized = errors.New("unauthorized")  // bad credentials, bad token, ownership → 401
	ErrForbidden    = errors.New("forbidden")     // authenticated but not allowed → 403
)

// AppError carries a human-readable message and the semantic field the API
// reports it under. The wire format for errors is a small JSON object keyed
// by that field, e.g. {"noprofile": "there is no profile for this user"} or
// {"email": "email already exists"}, so Field is part of the contract, not
// just decoration.
type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // human-readable description
	Field   string // semantic key the message is reported under
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity under the given semantic field,
// e.g. NotFound("postnotfound", "no post found with that id").
func NotFound(field, message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message, Field: field}
}

// ValidationFailed reports malformed input on a specific field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Conflict reports a uniqueness or state clash: an email or handle already
// taken, a post already liked, an unlike with no prior like.
func Conflict(field, message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message, Field: field}
}

// Unauthorized reports missing or invalid credentials, or an ownership
// mismatch on a resource mutation.
func Unauthorized(field, message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message, Field: field}
}

// Forbidden reports that the caller is authenticated but lacks permission
// for this particular operation.
func Forbidden(field, message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message, Field: field}
}
