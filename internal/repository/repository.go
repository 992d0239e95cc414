// Package repository defines the storage interfaces the service layer
// programs against.
//
// Services receive these interfaces, never a concrete *sqlite.DB. That's
// what lets the service tests run against hand-written in-memory mocks and
// would let the storage backend change without touching business logic.
//
// NESTED COLLECTIONS:
// Experience, education, likes, and comments are ordered sub-collections of
// their parent document. The interfaces expose atomic append/remove
// operations on them (AddExperience, RemoveLike, ...) rather than a
// read-modify-write of the whole parent. A single INSERT or DELETE is atomic
// at the store level, so two concurrent "add comment" calls can't overwrite
// each other's entries the way whole-document writes could.
package repository

import (
	"context"

	"github.com/sakif/devconnect/internal/model"
)

// UserRepository owns identity records.
type UserRepository interface {
	// Create inserts a new user. Fails with a conflict error when the
	// email is already registered; the existing record is never touched.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ProfileRepository owns profile documents and their nested experience and
// education collections. Every read returns the profile joined with the
// owning user's display fields (name, avatar).
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	// Update rewrites the profile's own fields (company, skills, social,
	// ...). Nested collections are managed through the Add/Remove calls.
	Update(ctx context.Context, profile *model.Profile) error
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*model.Profile, error)
	// HandleExists reports whether any profile already claims the handle.
	HandleExists(ctx context.Context, handle string) (bool, error)
	List(ctx context.Context) ([]model.Profile, error)

	AddExperience(ctx context.Context, profileID string, entry *model.Experience) error
	RemoveExperience(ctx context.Context, profileID, entryID string) error
	AddEducation(ctx context.Context, profileID string, entry *model.Education) error
	RemoveEducation(ctx context.Context, profileID, entryID string) error

	// DeleteWithUser removes the user's profile AND the user record in a
	// single transaction, so a failure can't leave an orphaned user with
	// no profile.
	DeleteWithUser(ctx context.Context, userID string) error
}

// PostRepository owns post documents and their nested like and comment
// collections.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// List returns all posts, newest first.
	List(ctx context.Context) ([]model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error

	HasLike(ctx context.Context, postID, userID string) (bool, error)
	AddLike(ctx context.Context, postID string, like *model.Like) error
	RemoveLike(ctx context.Context, postID, userID string) error

	AddComment(ctx context.Context, postID string, comment *model.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error)
	RemoveComment(ctx context.Context, postID, commentID string) error
}
