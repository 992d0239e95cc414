package model

import "time"

// Post is a short piece of text published by a user.
//
// Name and AvatarURL are a SNAPSHOT of the author's display fields taken
// from the verified token at creation time. They are deliberately not
// re-derived on later reads: the token payload is treated as a cached view
// of the author, valid for the token's lifetime. If the author later renames
// themselves, old posts keep the old name. That staleness is a documented
// trade-off, not an accident.
//
// Likes and Comments are nested ordered collections with the same
// prepend-on-add invariant as a profile's experience entries.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}

// Like records that one user liked a post. The (post, user) pair is unique:
// at most one like per user per post, enforced both by the service (so the
// caller gets a clean "already liked" error) and by a UNIQUE constraint in
// the likes table (so a racing double-like can't slip through).
type Like struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
}

// Comment is one reply attached to a post. Like a post, it snapshots the
// commenter's display fields at creation time.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}
