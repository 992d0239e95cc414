package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

var _ repository.PostRepository = (*PostStore)(nil)

// PostStore implements repository.PostRepository on the shared connection
// pool.
type PostStore struct {
	db *DB
}

// NewPostStore returns a PostStore backed by db.
func NewPostStore(db *DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts a new post. The author's name and avatar arrive already
// snapshotted from the verified token; this layer just stores them.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, text, name, avatar_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Text,
		post.Name,
		post.AvatarURL,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	post.Likes = []model.Like{}
	post.Comments = []model.Comment{}
	return nil
}

// List returns every post, newest first, with likes and comments loaded.
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, user_id, text, name, avatar_url, created_at
		 FROM posts
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	for i := range posts {
		if err := s.loadPostChildren(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// GetByID retrieves a single post with its nested collections.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, text, name, avatar_url, created_at
		 FROM posts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("postnotfound", "no post found with that id")
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	if err := s.loadPostChildren(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Delete removes a post. Likes and comments go with it via ON DELETE
// CASCADE. The ownership check happens in the service; by the time this
// runs, the caller is known to own the post.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("postnotfound", "no post found with that id")
	}

	return nil
}

// HasLike reports whether the user already has a like on the post.
func (s *PostStore) HasLike(ctx context.Context, postID, userID string) (bool, error) {
	var n int
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking like on post %s: %w", postID, err)
	}
	return n > 0, nil
}

// AddLike records a like. The UNIQUE (post_id, user_id) constraint turns a
// racing double-like into a conflict error instead of a duplicate row, so
// the at-most-one-like invariant holds even when the service's HasLike
// check and this insert interleave with another request.
func (s *PostStore) AddLike(ctx context.Context, postID string, like *model.Like) error {
	like.ID = xid.New().String()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO likes (id, post_id, user_id) VALUES (?, ?, ?)`,
		like.ID, postID, like.UserID,
	)
	if err != nil {
		if isUniqueViolation(err, "likes.post_id, likes.user_id") {
			return apperror.Conflict("alreadyliked", "post already liked")
		}
		return fmt.Errorf("sqlite: liking post %s: %w", postID, err)
	}

	return nil
}

// RemoveLike deletes the user's like from the post. At most one row matches
// thanks to the uniqueness constraint.
func (s *PostStore) RemoveLike(ctx context.Context, postID, userID string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: unliking post %s: %w", postID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.Conflict("notliked", "you have not liked this post")
	}

	return nil
}

// AddComment appends a comment to the post.
func (s *PostStore) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, text, name, avatar_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID,
		postID,
		comment.UserID,
		comment.Text,
		comment.Name,
		comment.AvatarURL,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: commenting on post %s: %w", postID, err)
	}

	return nil
}

// GetComment fetches one comment by (post id, comment id). The service uses
// it to decide who may delete the comment before calling RemoveComment.
func (s *PostStore) GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error) {
	var c model.Comment

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, text, name, avatar_url, created_at
		 FROM comments WHERE id = ? AND post_id = ?`,
		commentID, postID,
	).Scan(&c.ID, &c.UserID, &c.Text, &c.Name, &c.AvatarURL, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("commentnotfound", "comment not found on this post")
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", commentID, err)
	}

	return &c, nil
}

// RemoveComment deletes one comment, scoped to its post.
func (s *PostStore) RemoveComment(ctx context.Context, postID, commentID string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND post_id = ?`,
		commentID, postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing comment %s: %w", commentID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("commentnotfound", "comment not found on this post")
	}

	return nil
}

// loadPostChildren fills likes and comments, newest first (id DESC gives
// reverse insertion order since xids sort by creation time).
func (s *PostStore) loadPostChildren(ctx context.Context, p *model.Post) error {
	p.Likes = []model.Like{}
	p.Comments = []model.Comment{}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, user_id FROM likes WHERE post_id = ? ORDER BY id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading likes for post %s: %w", p.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.Like
		if err := rows.Scan(&l.ID, &l.UserID); err != nil {
			return fmt.Errorf("sqlite: scanning like row: %w", err)
		}
		p.Likes = append(p.Likes, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating likes: %w", err)
	}

	commentRows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, user_id, text, name, avatar_url, created_at
		 FROM comments WHERE post_id = ? ORDER BY id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading comments for post %s: %w", p.ID, err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var c model.Comment
		if err := commentRows.Scan(&c.ID, &c.UserID, &c.Text, &c.Name, &c.AvatarURL, &c.CreatedAt); err != nil {
			return fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		p.Comments = append(p.Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return nil
}
