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

// Compile-time check that *UserStore implements repository.UserRepository.
// If a method goes missing, the build fails here instead of at some distant
// call site.
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore implements repository.UserRepository on the shared connection
// pool. Each aggregate (users, profiles, posts) gets its own store type so
// the method sets stay separate while the underlying database is one file.
type UserStore struct {
	db *DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column (e.g. "users.email"). The driver reports constraint
// violations as plain errors whose message names the offending column; we
// match on that rather than pull in the driver's error types.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// Create inserts a new user.
//
// The id is a fresh xid: 20 chars, URL-safe, sortable by creation time.
// Duplicate emails come back as a conflict error; the UNIQUE constraint in
// the schema makes this airtight even when two registrations for the same
// email race past the service-level check.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, avatar_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.AvatarURL,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("email", "email already exists")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their internal id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email, the account's external identity.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `WHERE email = ?`, email)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, avatar_url, created_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		// sql.ErrNoRows isn't really an error, it means "no such user".
		// Translate it to the domain's not-found so handlers return 404.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("usernotfound", "user not found")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}
