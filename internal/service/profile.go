package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// Validation bounds for profile input.
const (
	MinHandleLength = 2
	MaxHandleLength = 40
)

// ProfileInput carries the upsert fields for a developer profile.
// Skills arrives as a single comma-separated string, mirroring the form
// field the client submits.
//
// The optional fields are pointers so a JSON body that omits a field is
// distinguishable from one that sends "": nil means "leave the stored
// value alone", an explicit empty string means "clear it".
type ProfileInput struct {
	Handle         string  `json:"handle"`
	Status         string  `json:"status"`
	Skills         string  `json:"skills"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GitHubUsername *string `json:"githubusername"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

// ExperienceInput carries the fields for a new work-history entry.
type ExperienceInput struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

// EducationInput carries the fields for a new education entry.
type EducationInput struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

// ProfileService handles developer profiles and their nested experience
// and education collections.
type ProfileService struct {
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService with its dependencies injected.
func NewProfileService(profiles repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Upsert creates the caller's profile, or partially updates it if one
// already exists.
//
// Handle, status, and skills are always required, even on update: the
// client resubmits those with every form, so a blank required field is a
// real validation error rather than "no change". The optional fields merge
// over the stored record: only supplied fields change, omitted fields keep
// their values.
//
// Handle uniqueness spans all users. On create we check up front for the
// clean 409; changing your own handle to itself is fine.
func (s *ProfileService) Upsert(ctx context.Context, identity auth.Identity, in ProfileInput) (*model.Profile, error) {
	in.Handle = strings.TrimSpace(in.Handle)
	in.Status = strings.TrimSpace(in.Status)

	if len(in.Handle) < MinHandleLength || len(in.Handle) > MaxHandleLength {
		return nil, apperror.ValidationFailed("handle",
			fmt.Sprintf("handle must be between %d and %d characters", MinHandleLength, MaxHandleLength))
	}
	if in.Status == "" {
		return nil, apperror.ValidationFailed("status", "status is required")
	}
	skills := splitSkills(in.Skills)
	if len(skills) == 0 {
		return nil, apperror.ValidationFailed("skills", "skills is required")
	}

	existing, err := s.profiles.GetByUserID(ctx, identity.UserID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/profile: fetching profile: %w", err)
	}

	profile := &model.Profile{
		User: model.ProfileUser{ID: identity.UserID, Name: identity.Name, AvatarURL: identity.AvatarURL},
	}
	if existing != nil {
		// The stored record is the base, so a nil optional below leaves
		// that field exactly as it was.
		*profile = *existing
	}
	profile.Handle = in.Handle
	profile.Status = in.Status
	profile.Skills = skills
	applyOptional(&profile.Company, in.Company)
	applyOptional(&profile.Website, in.Website)
	applyOptional(&profile.Location, in.Location)
	applyOptional(&profile.Bio, in.Bio)
	applyOptional(&profile.GitHubUsername, in.GitHubUsername)
	applyOptional(&profile.Social.YouTube, in.YouTube)
	applyOptional(&profile.Social.Twitter, in.Twitter)
	applyOptional(&profile.Social.Facebook, in.Facebook)
	applyOptional(&profile.Social.LinkedIn, in.LinkedIn)
	applyOptional(&profile.Social.Instagram, in.Instagram)

	if existing != nil {
		if existing.Handle != in.Handle {
			taken, err := s.profiles.HandleExists(ctx, in.Handle)
			if err != nil {
				return nil, fmt.Errorf("service/profile: checking handle: %w", err)
			}
			if taken {
				return nil, apperror.Conflict("handle", "that handle is already taken")
			}
		}
		if err := s.profiles.Update(ctx, profile); err != nil {
			return nil, err
		}
		s.logger.Info("profile updated", slog.String("userID", identity.UserID))
		return s.profiles.GetByUserID(ctx, identity.UserID)
	}

	taken, err := s.profiles.HandleExists(ctx, in.Handle)
	if err != nil {
		return nil, fmt.Errorf("service/profile: checking handle: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("handle", "that handle is already taken")
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile created",
		slog.String("userID", identity.UserID),
		slog.String("handle", profile.Handle),
	)

	return s.profiles.GetByUserID(ctx, identity.UserID)
}

// GetOwn returns the caller's profile.
func (s *ProfileService) GetOwn(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("noprofile", "there is no profile for this user")
		}
		return nil, err
	}
	return profile, nil
}

// GetByHandle returns the profile with the given handle.
func (s *ProfileService) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	profile, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("noprofile", "there is no profile for this user")
		}
		return nil, err
	}
	return profile, nil
}

// GetByUserID returns the profile belonging to the given user.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("noprofile", "there is no profile for this user")
		}
		return nil, err
	}
	return profile, nil
}

// ListAll returns every profile. An empty directory is a valid directory,
// so no profiles yields an empty slice, not an error.
func (s *ProfileService) ListAll(ctx context.Context) ([]model.Profile, error) {
	return s.profiles.List(ctx)
}

// AddExperience prepends a work-history entry to the caller's profile and
// returns the refreshed profile.
func (s *ProfileService) AddExperience(ctx context.Context, identity auth.Identity, in ExperienceInput) (*model.Profile, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.ValidationFailed("title", "job title is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		return nil, apperror.ValidationFailed("company", "company is required")
	}
	if in.From.IsZero() {
		return nil, apperror.ValidationFailed("from", "from date is required")
	}

	profile, err := s.requireProfile(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	exp := &model.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	if err := s.profiles.AddExperience(ctx, profile.ID, exp); err != nil {
		return nil, err
	}

	s.logger.Info("experience added",
		slog.String("userID", identity.UserID),
		slog.String("experienceID", exp.ID),
	)

	return s.profiles.GetByUserID(ctx, identity.UserID)
}

// RemoveExperience deletes an entry from the caller's own profile. An id
// that exists under someone else's profile is indistinguishable from one
// that doesn't exist at all.
func (s *ProfileService) RemoveExperience(ctx context.Context, identity auth.Identity, experienceID string) (*model.Profile, error) {
	profile, err := s.requireProfile(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.RemoveExperience(ctx, profile.ID, experienceID); err != nil {
		return nil, err
	}

	s.logger.Info("experience removed",
		slog.String("userID", identity.UserID),
		slog.String("experienceID", experienceID),
	)

	return s.profiles.GetByUserID(ctx, identity.UserID)
}

// AddEducation prepends an education entry to the caller's profile and
// returns the refreshed profile.
func (s *ProfileService) AddEducation(ctx context.Context, identity auth.Identity, in EducationInput) (*model.Profile, error) {
	if strings.TrimSpace(in.School) == "" {
		return nil, apperror.ValidationFailed("school", "school is required")
	}
	if strings.TrimSpace(in.Degree) == "" {
		return nil, apperror.ValidationFailed("degree", "degree is required")
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		return nil, apperror.ValidationFailed("fieldofstudy", "field of study is required")
	}
	if in.From.IsZero() {
		return nil, apperror.ValidationFailed("from", "from date is required")
	}

	profile, err := s.requireProfile(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	edu := &model.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	if err := s.profiles.AddEducation(ctx, profile.ID, edu); err != nil {
		return nil, err
	}

	s.logger.Info("education added",
		slog.String("userID", identity.UserID),
		slog.String("educationID", edu.ID),
	)

	return s.profiles.GetByUserID(ctx, identity.UserID)
}

// RemoveEducation deletes an education entry from the caller's own profile.
func (s *ProfileService) RemoveEducation(ctx context.Context, identity auth.Identity, educationID string) (*model.Profile, error) {
	profile, err := s.requireProfile(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.RemoveEducation(ctx, profile.ID, educationID); err != nil {
		return nil, err
	}

	s.logger.Info("education removed",
		slog.String("userID", identity.UserID),
		slog.String("educationID", educationID),
	)

	return s.profiles.GetByUserID(ctx, identity.UserID)
}

// DeleteOwn removes the caller's profile and user account in one atomic
// operation. Either both records go or neither does.
func (s *ProfileService) DeleteOwn(ctx context.Context, userID string) error {
	if err := s.profiles.DeleteWithUser(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("noprofile", "there is no profile for this user")
		}
		return err
	}

	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}

func (s *ProfileService) requireProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("noprofile", "there is no profile for this user")
		}
		return nil, err
	}
	return profile, nil
}

// applyOptional overwrites dst only when the input actually carried the
// field.
func applyOptional(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// splitSkills turns "Go, SQL,Docker" into ["Go", "SQL", "Docker"],
// dropping empty segments.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
