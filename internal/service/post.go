package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// Validation bounds for post and comment text.
const (
	MinPostLength = 10
	MaxPostLength = 300
)

// PostService handles the feed: posts, likes, and comments.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService with its dependencies injected.
func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// Create publishes a post. The display name and avatar are snapshotted
// from the verified token identity, never from the request body, so a
// caller can't impersonate another author.
func (s *PostService) Create(ctx context.Context, identity auth.Identity, text string) (*model.Post, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:    identity.UserID,
		Text:      text,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("userID", identity.UserID),
		slog.String("postID", post.ID),
	)

	return post, nil
}

// List returns the feed, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

// GetByID returns a single post with its likes and comments.
func (s *PostService) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

// Delete removes a post. Only the author may delete it; other callers
// get an authorization error even though the post exists.
func (s *PostService) Delete(ctx context.Context, identity auth.Identity, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != identity.UserID {
		return apperror.Unauthorized("noauthorized", "user not authorized")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		slog.String("userID", identity.UserID),
		slog.String("postID", postID),
	)

	return nil
}

// Like records that the caller liked a post and returns the refreshed
// post. Liking twice is a conflict; the store's uniqueness constraint
// backstops the pre-check if two likes race.
func (s *PostService) Like(ctx context.Context, identity auth.Identity, postID string) (*model.Post, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.posts.HasLike(ctx, postID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("service/post: checking like: %w", err)
	}
	if liked {
		return nil, apperror.Conflict("alreadyliked", "user already liked this post")
	}

	if err := s.posts.AddLike(ctx, postID, &model.Like{UserID: identity.UserID}); err != nil {
		return nil, err
	}

	s.logger.Info("post liked",
		slog.String("userID", identity.UserID),
		slog.String("postID", postID),
	)

	return s.posts.GetByID(ctx, postID)
}

// Unlike removes the caller's like and returns the refreshed post.
// Unliking a post you never liked is a conflict.
func (s *PostService) Unlike(ctx context.Context, identity auth.Identity, postID string) (*model.Post, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.posts.RemoveLike(ctx, postID, identity.UserID); err != nil {
		return nil, err
	}

	s.logger.Info("post unliked",
		slog.String("userID", identity.UserID),
		slog.String("postID", postID),
	)

	return s.posts.GetByID(ctx, postID)
}

// AddComment prepends a comment to a post and returns the refreshed post.
// Comment text follows the same bounds as post text, and the author
// snapshot comes from the token identity just like post creation.
func (s *PostService) AddComment(ctx context.Context, identity auth.Identity, postID, text string) (*model.Post, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:    identity.UserID,
		Text:      text,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("userID", identity.UserID),
		slog.String("postID", postID),
		slog.String("commentID", comment.ID),
	)

	return s.posts.GetByID(ctx, postID)
}

// RemoveComment deletes a comment and returns the refreshed post. The
// comment's author may remove it, and so may the post's owner moderating
// their own post. Anyone else is forbidden.
func (s *PostService) RemoveComment(ctx context.Context, identity auth.Identity, postID, commentID string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("commentnotexists", "comment does not exist")
		}
		return nil, err
	}

	if comment.UserID != identity.UserID && post.UserID != identity.UserID {
		return nil, apperror.Forbidden("comment", "only the comment author or post owner can remove a comment")
	}

	if err := s.posts.RemoveComment(ctx, postID, commentID); err != nil {
		return nil, err
	}

	s.logger.Info("comment removed",
		slog.String("userID", identity.UserID),
		slog.String("postID", postID),
		slog.String("commentID", commentID),
	)

	return s.posts.GetByID(ctx, postID)
}

func validateText(text string) error {
	n := len(strings.TrimSpace(text))
	if n < MinPostLength || n > MaxPostLength {
		return apperror.ValidationFailed("text",
			fmt.Sprintf("text must be between %d and %d characters", MinPostLength, MaxPostLength))
	}
	return nil
}
