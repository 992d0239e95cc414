// Package seed creates demo data for local development. It drives the same
// service layer the API uses, so everything it writes went through the real
// validation and hashing paths. Not intended for production databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/service"
)

// Options controls how much data the seeder creates.
type Options struct {
	Users        int
	PostsPerUser int
	// Password for every seeded account, so you can log in as any of them.
	Password string
}

// DefaultOptions seeds a small but browsable dataset.
func DefaultOptions() Options {
	return Options{
		Users:        10,
		PostsPerUser: 3,
		Password:     "password123",
	}
}

// Seeder populates the store through the service layer.
type Seeder struct {
	users    *service.AuthService
	profiles *service.ProfileService
	posts    *service.PostService
	logger   *slog.Logger
}

// New creates a Seeder. Pass the same services the server wires up.
func New(users *service.AuthService, profiles *service.ProfileService, posts *service.PostService, logger *slog.Logger) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{users: users, profiles: profiles, posts: posts, logger: logger}
}

var statuses = []string{
	"Developer", "Junior Developer", "Senior Developer",
	"Manager", "Student or Learning", "Instructor or Teacher", "Intern",
}

var skillPool = []string{
	"Go", "JavaScript", "TypeScript", "Python", "Rust", "SQL",
	"HTML", "CSS", "React", "Docker", "PostgreSQL", "Redis",
}

// Run creates opts.Users accounts, each with a profile, some history, and
// a handful of posts; then sprinkles likes and comments across the feed.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	identities := make([]auth.Identity, 0, opts.Users)
	postIDs := make([]string, 0, opts.Users*opts.PostsPerUser)

	for i := 0; i < opts.Users; i++ {
		user, err := s.seedUser(ctx, i, opts.Password)
		if err != nil {
			return err
		}
		identity := auth.Identity{UserID: user.ID, Name: user.Name, AvatarURL: user.AvatarURL}
		identities = append(identities, identity)

		if err := s.seedProfile(ctx, identity, i); err != nil {
			return err
		}

		for j := 0; j < opts.PostsPerUser; j++ {
			post, err := s.posts.Create(ctx, identity, fakePostText())
			if err != nil {
				return fmt.Errorf("seed: creating post for %s: %w", user.Email, err)
			}
			postIDs = append(postIDs, post.ID)
		}
	}

	// Cross-pollinate: each user likes and comments on a slice of the
	// feed. Conflicts (already liked) can't happen because every pair is
	// visited at most once.
	for i, identity := range identities {
		for j, postID := range postIDs {
			if (i+j)%3 != 0 {
				continue
			}
			if _, err := s.posts.Like(ctx, identity, postID); err != nil {
				return fmt.Errorf("seed: liking post: %w", err)
			}
			if (i+j)%6 == 0 {
				if _, err := s.posts.AddComment(ctx, identity, postID, fakePostText()); err != nil {
					return fmt.Errorf("seed: commenting: %w", err)
				}
			}
		}
	}

	s.logger.Info("seed complete",
		slog.Int("users", len(identities)),
		slog.Int("posts", len(postIDs)),
	)
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, i int, password string) (*model.User, error) {
	name := gofakeit.Name()
	// Deterministic local-parts keep reruns against a fresh database
	// predictable, and the first account is always known.
	email := fmt.Sprintf("dev%d@example.com", i)

	user, err := s.users.Register(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("seed: registering %s: %w", email, err)
	}
	return user, nil
}

func (s *Seeder) seedProfile(ctx context.Context, identity auth.Identity, i int) error {
	in := service.ProfileInput{
		Handle:         fmt.Sprintf("%s-%d", strings.ToLower(gofakeit.Username()), i),
		Status:         statuses[i%len(statuses)],
		Skills:         fakeSkills(),
		Company:        ptr(gofakeit.Company()),
		Website:        ptr(gofakeit.URL()),
		Location:       ptr(fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country())),
		Bio:            ptr(gofakeit.Sentence(12)),
		GitHubUsername: ptr(strings.ToLower(gofakeit.Username())),
		Twitter:        ptr("https://twitter.com/" + strings.ToLower(gofakeit.Username())),
	}
	if _, err := s.profiles.Upsert(ctx, identity, in); err != nil {
		return fmt.Errorf("seed: creating profile for %s: %w", identity.UserID, err)
	}

	from := time.Now().AddDate(-gofakeit.Number(2, 8), 0, 0)
	to := from.AddDate(gofakeit.Number(1, 3), 0, 0)
	exp := service.ExperienceInput{
		Title:       gofakeit.JobTitle(),
		Company:     gofakeit.Company(),
		Location:    gofakeit.City(),
		From:        from,
		To:          &to,
		Description: gofakeit.Sentence(10),
	}
	if _, err := s.profiles.AddExperience(ctx, identity, exp); err != nil {
		return fmt.Errorf("seed: adding experience: %w", err)
	}

	edu := service.EducationInput{
		School:       gofakeit.Company() + " University",
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         time.Now().AddDate(-10, 0, 0),
		Current:      false,
		Description:  gofakeit.Sentence(8),
	}
	if _, err := s.profiles.AddEducation(ctx, identity, edu); err != nil {
		return fmt.Errorf("seed: adding education: %w", err)
	}

	return nil
}

// ptr wraps a generated value for ProfileInput's optional pointer fields.
func ptr(s string) *string {
	return &s
}

// fakeSkills returns a comma-joined skill list the way the profile form
// submits it.
func fakeSkills() string {
	n := gofakeit.Number(3, 6)
	picked := make([]string, 0, n)
	seen := make(map[string]bool)
	for len(picked) < n {
		sk := skillPool[gofakeit.Number(0, len(skillPool)-1)]
		if !seen[sk] {
			seen[sk] = true
			picked = append(picked, sk)
		}
	}
	return strings.Join(picked, ",")
}

// fakePostText generates text inside the 10..300 char bounds.
func fakePostText() string {
	text := gofakeit.Sentence(gofakeit.Number(5, 20))
	if len(text) > 300 {
		text = text[:297] + "..."
	}
	return text
}
