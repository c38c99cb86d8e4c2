// Package main seeds an admin account into the database. Intended for
// first-run setup and recovery:
//
//	seed -admin-email admin@example.com -admin-password secret
//
// If the account already exists it is promoted to admin instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/diyabooks/diya-server/internal/config"
	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
	"github.com/diyabooks/diya-server/internal/store"
)

func main() {
	email := flag.String("admin-email", "", "Email for the admin account")
	password := flag.String("admin-password", "", "Password for the admin account (ignored when promoting)")

	// Registers and parses the shared config flags (-data-dir, -db-file, ...).
	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("load config: %v", err)
	}

	if *email == "" {
		fatal("-admin-email is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st, err := store.Open(cfg.DatabasePath(), logger)
	if err != nil {
		fatal("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	userID, err := st.AddUser(ctx, *email, *password)
	switch {
	case err == nil:
		fmt.Printf("Created account %s (id %d)\n", *email, userID)
	case apperrors.Is(err, apperrors.ErrAlreadyExists):
		user, err := st.GetUserByEmail(ctx, *email)
		if err != nil {
			fatal("look up existing account: %v", err)
		}
		userID = user.ID
		fmt.Printf("Account %s already exists (id %d), promoting\n", *email, userID)
	default:
		fatal("create account: %v", err)
	}

	if err := st.SetAccessLevel(ctx, userID, domain.AccessAdmin); err != nil {
		fatal("promote account: %v", err)
	}
	fmt.Printf("Account %s has admin access\n", *email)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
