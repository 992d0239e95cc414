// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data: plain data carriers with
// struct tags that control their JSON representation.
package model

import "time"

// User represents a registered account.
//
// Identity is the email address: the users table has a UNIQUE constraint on
// it, so registering the same email twice fails at the store level even if
// the service-level duplicate check races.
//
// WHY PasswordHash WITH json:"-"?
// The stored value is a bcrypt hash, never the plaintext, and the `json:"-"`
// tag guarantees it can never leak into an API response no matter which
// handler serializes a User. Enforcing this at the type level beats
// remembering to strip the field in every handler.
//
// AvatarURL is derived deterministically from the email at registration time
// (a Gravatar URL), so the same email always maps to the same avatar and no
// network call is needed to compute it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}
