// Package main seeds the database with a demo user and a handful of books.
// Useful for local development against a fresh store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

const (
	seedEmail    = "demo@shelfmark.local"
	seedPassword = "demo-password"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	db, err := store.New(cfg.Store.Path, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.GetUserByEmail(ctx, seedEmail); err == nil {
		log.Info("Seed user already exists, nothing to do", "email", seedEmail)
		return nil
	}

	passwordHash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: id.MustGenerate("user")},
		Email:        seedEmail,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	if err := db.CreateUser(ctx, user); err != nil {
		return err
	}
	log.Info("Seed user created", "email", seedEmail, "user_id", user.ID)

	rating := func(v float64) *float64 { return &v }
	books := []*domain.Book{
		{Title: "Dune", Author: "Frank Herbert", Status: domain.StatusCompleted, Rating: rating(5), Review: "A classic."},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Status: domain.StatusReading},
		{Title: "Piranesi", Author: "Susanna Clarke", Status: domain.StatusWishlist},
		{Title: "Project Hail Mary", Author: "Andy Weir", Status: domain.StatusCompleted, Rating: rating(4)},
	}

	for _, book := range books {
		book.ID = id.MustGenerate("book")
		book.OwnerID = user.ID
		book.InitTimestamps()
		if err := db.CreateBook(ctx, book); err != nil {
			return fmt.Errorf("create %q: %w", book.Title, err)
		}
		log.Info("Seed book created", "title", book.Title, "book_id", book.ID)
	}

	users := 0
	for _, err := range db.Users.List(ctx) {
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		users++
	}

	log.Info("Seeding complete", "users", users, "books", len(books))
	return nil
}
