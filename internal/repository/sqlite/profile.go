package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

var _ repository.ProfileRepository = (*ProfileStore)(nil)

// ProfileStore implements repository.ProfileRepository on the shared
// connection pool.
type ProfileStore struct {
	db *DB
}

// NewProfileStore returns a ProfileStore backed by db.
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// profileColumns is the SELECT list shared by every profile read. The two
// trailing columns come from the JOIN with users: every profile read is
// "populated" with the owner's display fields.
const profileColumns = `
	p.id, p.user_id, p.handle, p.company, p.website, p.location, p.status,
	p.skills, p.bio, p.github_username,
	p.social_youtube, p.social_twitter, p.social_facebook, p.social_linkedin, p.social_instagram,
	p.created_at, u.name, u.avatar_url`

// Create inserts a new profile document. Nested collections start empty;
// they only ever grow through AddExperience/AddEducation.
func (s *ProfileStore) Create(ctx context.Context, profile *model.Profile) error {
	profile.ID = xid.New().String()
	profile.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO profiles (
			id, user_id, handle, company, website, location, status, skills,
			bio, github_username,
			social_youtube, social_twitter, social_facebook, social_linkedin, social_instagram,
			created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.User.ID,
		profile.Handle,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Status,
		strings.Join(profile.Skills, ","),
		profile.Bio,
		profile.GitHubUsername,
		profile.Social.YouTube,
		profile.Social.Twitter,
		profile.Social.Facebook,
		profile.Social.LinkedIn,
		profile.Social.Instagram,
		profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "profiles.handle") {
			return apperror.Conflict("handle", "that handle already exists")
		}
		if isUniqueViolation(err, "profiles.user_id") {
			return apperror.Conflict("profile", "user already has a profile")
		}
		return fmt.Errorf("sqlite: creating profile: %w", err)
	}

	return nil
}

// Update rewrites the profile's scalar fields and social links. The nested
// experience/education rows are untouched; they have their own operations.
func (s *ProfileStore) Update(ctx context.Context, profile *model.Profile) error {
	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE profiles SET
			handle = ?, company = ?, website = ?, location = ?, status = ?,
			skills = ?, bio = ?, github_username = ?,
			social_youtube = ?, social_twitter = ?, social_facebook = ?,
			social_linkedin = ?, social_instagram = ?
		 WHERE id = ?`,
		profile.Handle,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Status,
		strings.Join(profile.Skills, ","),
		profile.Bio,
		profile.GitHubUsername,
		profile.Social.YouTube,
		profile.Social.Twitter,
		profile.Social.Facebook,
		profile.Social.LinkedIn,
		profile.Social.Instagram,
		profile.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "profiles.handle") {
			return apperror.Conflict("handle", "that handle already exists")
		}
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("noprofile", "there is no profile for this user")
	}

	return nil
}

// GetByUserID retrieves the profile owned by the given user.
func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return s.getProfile(ctx, `WHERE p.user_id = ?`, userID)
}

// GetByHandle retrieves a profile by its public handle.
func (s *ProfileStore) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return s.getProfile(ctx, `WHERE p.handle = ?`, handle)
}

func (s *ProfileStore) getProfile(ctx context.Context, where string, arg any) (*model.Profile, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id `+where,
		arg,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("noprofile", "there is no profile for this user")
		}
		return nil, fmt.Errorf("sqlite: getting profile: %w", err)
	}

	if err := s.loadProfileChildren(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// HandleExists reports whether any profile already claims the handle.
func (s *ProfileStore) HandleExists(ctx context.Context, handle string) (bool, error) {
	var n int
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE handle = ?`, handle,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking handle %q: %w", handle, err)
	}
	return n > 0, nil
}

// List returns every profile, newest first, each joined with its owner's
// display fields and fully loaded nested collections.
func (s *ProfileStore) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profiles: %w", err)
	}

	for i := range profiles {
		if err := s.loadProfileChildren(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}

	if profiles == nil {
		profiles = []model.Profile{}
	}
	return profiles, nil
}

// AddExperience appends a work-history entry to the profile. A single
// INSERT, so concurrent adds interleave instead of overwriting each other.
func (s *ProfileStore) AddExperience(ctx context.Context, profileID string, entry *model.Experience) error {
	entry.ID = xid.New().String()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO experience (id, profile_id, title, company, location, from_date, to_date, current, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		profileID,
		entry.Title,
		entry.Company,
		entry.Location,
		entry.From,
		nullableTime(entry.To),
		entry.Current,
		entry.Description,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding experience to profile %s: %w", profileID, err)
	}

	return nil
}

// RemoveExperience deletes one entry by id, scoped to the given profile.
// The profile_id in the WHERE clause is what prevents cross-profile
// deletion: an entry id belonging to someone else's profile is simply not
// found.
func (s *ProfileStore) RemoveExperience(ctx context.Context, profileID, entryID string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM experience WHERE id = ? AND profile_id = ?`,
		entryID, profileID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing experience %s: %w", entryID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("experience", "experience entry not found")
	}

	return nil
}

// AddEducation appends a schooling entry to the profile.
func (s *ProfileStore) AddEducation(ctx context.Context, profileID string, entry *model.Education) error {
	entry.ID = xid.New().String()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO education (id, profile_id, school, degree, field_of_study, from_date, to_date, current, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		profileID,
		entry.School,
		entry.Degree,
		entry.FieldOfStudy,
		entry.From,
		nullableTime(entry.To),
		entry.Current,
		entry.Description,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding education to profile %s: %w", profileID, err)
	}

	return nil
}

// RemoveEducation deletes one schooling entry by id, scoped to the profile.
func (s *ProfileStore) RemoveEducation(ctx context.Context, profileID, entryID string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM education WHERE id = ? AND profile_id = ?`,
		entryID, profileID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing education %s: %w", entryID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("education", "education entry not found")
	}

	return nil
}

// DeleteWithUser removes the user's profile and the user record in one
// transaction. Either both rows go or neither does; there is no window
// where the profile is gone but an orphaned user remains. Experience,
// education, the user's posts, and those posts' likes and comments all
// ride along on ON DELETE CASCADE. Likes and comments the user left on
// other people's posts stay behind as display snapshots.
func (s *ProfileStore) DeleteWithUser(ctx context.Context, userID string) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op, so this is safe to
	// defer unconditionally.
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting profile of user %s: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("noprofile", "there is no profile for this user")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of user %s: %w", userID, err)
	}

	return nil
}

// --- row assembly helpers ---

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*model.Profile, error) {
	var (
		p      model.Profile
		skills string
	)

	err := row.Scan(
		&p.ID,
		&p.User.ID,
		&p.Handle,
		&p.Company,
		&p.Website,
		&p.Location,
		&p.Status,
		&skills,
		&p.Bio,
		&p.GitHubUsername,
		&p.Social.YouTube,
		&p.Social.Twitter,
		&p.Social.Facebook,
		&p.Social.LinkedIn,
		&p.Social.Instagram,
		&p.CreatedAt,
		&p.User.Name,
		&p.User.AvatarURL,
	)
	if err != nil {
		return nil, err
	}

	p.Skills = splitSkills(skills)
	return &p, nil
}

// loadProfileChildren fills in the nested collections, newest first (xids
// sort by creation time, so id DESC is insertion order reversed).
func (s *ProfileStore) loadProfileChildren(ctx context.Context, p *model.Profile) error {
	p.Experience = []model.Experience{}
	p.Education = []model.Education{}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, title, company, location, from_date, to_date, current, description
		 FROM experience WHERE profile_id = ? ORDER BY id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading experience for profile %s: %w", p.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e  model.Experience
			to sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.From, &to, &e.Current, &e.Description); err != nil {
			return fmt.Errorf("sqlite: scanning experience row: %w", err)
		}
		if to.Valid {
			e.To = &to.Time
		}
		p.Experience = append(p.Experience, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating experience: %w", err)
	}

	eduRows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, school, degree, field_of_study, from_date, to_date, current, description
		 FROM education WHERE profile_id = ? ORDER BY id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading education for profile %s: %w", p.ID, err)
	}
	defer eduRows.Close()

	for eduRows.Next() {
		var (
			e  model.Education
			to sql.NullTime
		)
		if err := eduRows.Scan(&e.ID, &e.School, &e.Degree, &e.FieldOfStudy, &e.From, &to, &e.Current, &e.Description); err != nil {
			return fmt.Errorf("sqlite: scanning education row: %w", err)
		}
		if to.Valid {
			e.To = &to.Time
		}
		p.Education = append(p.Education, e)
	}
	if err := eduRows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating education: %w", err)
	}

	return nil
}

// splitSkills turns the stored comma-joined form back into the ordered
// list. An empty column means no skills, not [""].
func splitSkills(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// nullableTime converts an optional end date for storage: nil → SQL NULL.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
