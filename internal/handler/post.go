package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/service"
)

// PostHandler serves the feed routes: posts, likes, and comments.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler with its dependencies injected.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type postRequest struct {
	Text string `json:"text"`
}

// HandleList returns the feed, newest first.
//
// HTTP: GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns one post with its likes and comments.
//
// HTTP: GET /posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate publishes a post as the authenticated caller.
//
// HTTP: POST /posts (protected)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), identity, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleDelete removes a post. Owner only.
//
// HTTP: DELETE /posts/{id} (protected)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := h.posts.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleLike records the caller's like and returns the refreshed post.
//
// HTTP: POST /posts/like/{id} (protected)
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	post, err := h.posts.Like(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUnlike removes the caller's like and returns the refreshed post.
//
// HTTP: POST /posts/unlike/{id} (protected)
func (h *PostHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	post, err := h.posts.Unlike(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleAddComment prepends a comment and returns the refreshed post.
//
// HTTP: POST /posts/comment/{id} (protected)
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.AddComment(r.Context(), identity, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleRemoveComment deletes a comment (author or post owner) and returns
// the refreshed post.
//
// HTTP: DELETE /posts/comment/{postId}/{commentId} (protected)
func (h *PostHandler) HandleRemoveComment(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	post, err := h.posts.RemoveComment(r.Context(), identity,
		chi.URLParam(r, "postId"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
