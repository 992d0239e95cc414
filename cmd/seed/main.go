// Command seed populates a development database with fake users, profiles,
// and posts so the API has something to serve on a fresh checkout.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/config"
	"github.com/sakif/devconnect/internal/repository/sqlite"
	"github.com/sakif/devconnect/internal/seed"
	"github.com/sakif/devconnect/internal/service"
)

func main() {
	numUsers := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 3, "posts per user")
	password := flag.String("password", "password123", "password for every seeded account")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to create token service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// MinCost: seeding hashes dozens of passwords and none of them guard
	// real accounts.
	passwords := auth.NewPasswordService(bcrypt.MinCost)

	users := service.NewAuthService(sqlite.NewUserStore(db), tokens, passwords, logger)
	profiles := service.NewProfileService(sqlite.NewProfileStore(db), logger)
	posts := service.NewPostService(sqlite.NewPostStore(db), logger)

	s := seed.New(users, profiles, posts, logger)
	opts := seed.Options{
		Users:        *numUsers,
		PostsPerUser: *postsPerUser,
		Password:     *password,
	}

	if err := s.Run(context.Background(), opts); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done",
		slog.String("database", cfg.DBPath),
		slog.String("login", "dev0@example.com / "+*password),
	)
}
