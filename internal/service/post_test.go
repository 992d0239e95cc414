package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"log/slog"
	"os"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================

type mockPostRepo struct {
	posts  map[string]*model.Post
	nextID int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.Post)}
}

func (m *mockPostRepo) newID() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	post.ID = m.newID()
	post.Likes = []model.Like{}
	post.Comments = []model.Comment{}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) List(_ context.Context) ([]model.Post, error) {
	result := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("postnotfound", "post not found")
	}
	result := *post
	return &result, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("postnotfound", "post not found")
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) HasLike(_ context.Context, postID, userID string) (bool, error) {
	post, ok := m.posts[postID]
	if !ok {
		return false, apperror.NotFound("postnotfound", "post not found")
	}
	for _, l := range post.Likes {
		if l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPostRepo) AddLike(_ context.Context, postID string, like *model.Like) error {
	post, ok := m.posts[postID]
	if !ok {
		return apperror.NotFound("postnotfound", "post not found")
	}
	for _, l := range post.Likes {
		if l.UserID == like.UserID {
			return apperror.Conflict("alreadyliked", "user already liked this post")
		}
	}
	like.ID = m.newID()
	post.Likes = append([]model.Like{*like}, post.Likes...)
	return nil
}

func (m *mockPostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	post, ok := m.posts[postID]
	if !ok {
		return apperror.NotFound("postnotfound", "post not found")
	}
	for i, l := range post.Likes {
		if l.UserID == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return nil
		}
	}
	return apperror.Conflict("notliked", "user has not liked this post")
}

func (m *mockPostRepo) AddComment(_ context.Context, postID string, comment *model.Comment) error {
	post, ok := m.posts[postID]
	if !ok {
		return apperror.NotFound("postnotfound", "post not found")
	}
	comment.ID = m.newID()
	post.Comments = append([]model.Comment{*comment}, post.Comments...)
	return nil
}

func (m *mockPostRepo) GetComment(_ context.Context, postID, commentID string) (*model.Comment, error) {
	post, ok := m.posts[postID]
	if !ok {
		return nil, apperror.NotFound("postnotfound", "post not found")
	}
	for _, c := range post.Comments {
		if c.ID == commentID {
			result := c
			return &result, nil
		}
	}
	return nil, apperror.NotFound("commentnotfound", "comment not found")
}

func (m *mockPostRepo) RemoveComment(_ context.Context, postID, commentID string) error {
	post, ok := m.posts[postID]
	if !ok {
		return apperror.NotFound("postnotfound", "post not found")
	}
	for i, c := range post.Comments {
		if c.ID == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("commentnotfound", "comment not found")
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func newTestPostService(t *testing.T) (*PostService, *mockPostRepo) {
	t.Helper()
	repo := newMockPostRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPostService(repo, logger), repo
}

const validText = "this is a perfectly fine post"

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestPostCreate_Success(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, err := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == "" {
		t.Error("expected post to have an ID")
	}
	if post.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", post.UserID, "u1")
	}
	if post.Name != "Alice" {
		t.Errorf("Name = %q, want snapshot from identity", post.Name)
	}
	if post.Likes == nil || post.Comments == nil {
		t.Error("Likes and Comments should be empty slices, not nil")
	}
}

func TestPostCreate_TextBounds(t *testing.T) {
	svc, _ := newTestPostService(t)
	identity := testIdentity("u1", "Alice")

	tests := []struct {
		name string
		text string
	}{
		{"too short", "short"},
		{"too long", strings.Repeat("x", MaxPostLength+1)},
		{"whitespace only", strings.Repeat(" ", 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), identity, tt.text)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestPostDelete_OnlyAuthor(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)

	err := svc.Delete(context.Background(), testIdentity("u2", "Bob"), post.ID)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}

	// Still there after the failed delete.
	if _, err := svc.GetByID(context.Background(), post.ID); err != nil {
		t.Errorf("post should survive unauthorized delete: %v", err)
	}

	if err := svc.Delete(context.Background(), testIdentity("u1", "Alice"), post.ID); err != nil {
		t.Errorf("author Delete() error = %v", err)
	}
}

func TestPostDelete_NotFound(t *testing.T) {
	svc, _ := newTestPostService(t)

	err := svc.Delete(context.Background(), testIdentity("u1", "Alice"), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIKE TESTS
// =========================================================================

func TestLike_AddAndDuplicate(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)
	bob := testIdentity("u2", "Bob")

	liked, err := svc.Like(context.Background(), bob, post.ID)
	if err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if len(liked.Likes) != 1 {
		t.Fatalf("Likes has %d entries, want 1", len(liked.Likes))
	}
	if liked.Likes[0].UserID != "u2" {
		t.Errorf("Likes[0].UserID = %q, want %q", liked.Likes[0].UserID, "u2")
	}

	_, err = svc.Like(context.Background(), bob, post.ID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Like() error = %v, want ErrConflict", err)
	}
}

func TestUnlike(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)
	bob := testIdentity("u2", "Bob")

	// Unliking without ever liking is a conflict.
	_, err := svc.Unlike(context.Background(), bob, post.ID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}

	_, _ = svc.Like(context.Background(), bob, post.ID)
	unliked, err := svc.Unlike(context.Background(), bob, post.ID)
	if err != nil {
		t.Fatalf("Unlike() error = %v", err)
	}
	if len(unliked.Likes) != 0 {
		t.Errorf("Likes has %d entries, want 0", len(unliked.Likes))
	}
}

func TestLike_PostNotFound(t *testing.T) {
	svc, _ := newTestPostService(t)

	_, err := svc.Like(context.Background(), testIdentity("u1", "Alice"), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// COMMENT TESTS
// =========================================================================

func TestAddComment_PrependsNewest(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)
	bob := testIdentity("u2", "Bob")

	if _, err := svc.AddComment(context.Background(), bob, post.ID, "first comment goes here"); err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	updated, err := svc.AddComment(context.Background(), bob, post.ID, "second comment goes here")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}

	if len(updated.Comments) != 2 {
		t.Fatalf("Comments has %d entries, want 2", len(updated.Comments))
	}
	if updated.Comments[0].Text != "second comment goes here" {
		t.Errorf("Comments[0].Text = %q, want newest first", updated.Comments[0].Text)
	}
	if updated.Comments[0].Name != "Bob" {
		t.Errorf("Comments[0].Name = %q, want snapshot from identity", updated.Comments[0].Name)
	}
}

func TestAddComment_TextBounds(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)

	_, err := svc.AddComment(context.Background(), testIdentity("u2", "Bob"), post.ID, "short")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestRemoveComment_Author(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)
	bob := testIdentity("u2", "Bob")
	commented, _ := svc.AddComment(context.Background(), bob, post.ID, "bob's comment on the post")

	updated, err := svc.RemoveComment(context.Background(), bob, post.ID, commented.Comments[0].ID)
	if err != nil {
		t.Fatalf("RemoveComment() error = %v", err)
	}
	if len(updated.Comments) != 0 {
		t.Errorf("Comments has %d entries, want 0", len(updated.Comments))
	}
}

func TestRemoveComment_PostOwnerCanModerate(t *testing.T) {
	svc, _ := newTestPostService(t)

	alice := testIdentity("u1", "Alice")
	post, _ := svc.Create(context.Background(), alice, validText)
	commented, _ := svc.AddComment(context.Background(), testIdentity("u2", "Bob"), post.ID, "bob's comment on the post")

	if _, err := svc.RemoveComment(context.Background(), alice, post.ID, commented.Comments[0].ID); err != nil {
		t.Errorf("post owner RemoveComment() error = %v", err)
	}
}

func TestRemoveComment_ThirdPartyForbidden(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)
	commented, _ := svc.AddComment(context.Background(), testIdentity("u2", "Bob"), post.ID, "bob's comment on the post")

	_, err := svc.RemoveComment(context.Background(), testIdentity("u3", "Carol"), post.ID, commented.Comments[0].ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}

	refreshed, _ := svc.GetByID(context.Background(), post.ID)
	if len(refreshed.Comments) != 1 {
		t.Errorf("comment should survive forbidden removal, have %d", len(refreshed.Comments))
	}
}

func TestRemoveComment_MissingComment(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, _ := svc.Create(context.Background(), testIdentity("u1", "Alice"), validText)

	_, err := svc.RemoveComment(context.Background(), testIdentity("u1", "Alice"), post.ID, "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
