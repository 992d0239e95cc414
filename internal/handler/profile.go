package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/service"
)

// ProfileHandler serves the developer-profile routes, including the nested
// experience and education collections.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler with its dependencies injected.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleGetOwn returns the caller's own profile.
//
// HTTP: GET /profile (protected)
func (h *ProfileHandler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	profile, err := h.profiles.GetOwn(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleUpsert creates the caller's profile or updates the existing one.
// One endpoint for both, the way a profile form "save" button behaves.
//
// HTTP: POST /profile (protected)
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var in service.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), identity, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleGetByHandle returns a profile by its public handle.
//
// HTTP: GET /profile/handle/{handle}
func (h *ProfileHandler) HandleGetByHandle(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleGetByUserID returns the profile owned by the given user.
//
// HTTP: GET /profile/user/{userId}
func (h *ProfileHandler) HandleGetByUserID(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetByUserID(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleListAll returns every profile. Public; an empty directory responds
// 200 with an empty array.
//
// HTTP: GET /profile/all
func (h *ProfileHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleAddExperience prepends a work-history entry and returns the
// refreshed profile.
//
// HTTP: POST /profile/experience (protected)
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var in service.ExperienceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), identity, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleRemoveExperience deletes one entry from the caller's profile.
//
// HTTP: DELETE /profile/experience/{id} (protected)
func (h *ProfileHandler) HandleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	profile, err := h.profiles.RemoveExperience(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleAddEducation prepends an education entry and returns the refreshed
// profile.
//
// HTTP: POST /profile/education (protected)
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var in service.EducationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), identity, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleRemoveEducation deletes one education entry from the caller's
// profile.
//
// HTTP: DELETE /profile/education/{id} (protected)
func (h *ProfileHandler) HandleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	profile, err := h.profiles.RemoveEducation(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDelete removes the caller's profile and user account together.
//
// HTTP: DELETE /profile (protected)
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := h.profiles.DeleteOwn(r.Context(), identity.UserID); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("account deleted via API", slog.String("userID", identity.UserID))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
