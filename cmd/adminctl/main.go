// Command adminctl provisions buildhub accounts from the command line.
// It talks to the database directly, so it can bootstrap the first user
// before the API server is reachable.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/server/repositories/repomanager"
	"github.com/avolkau/buildhub/internal/server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	email := flag.String("email", "", "email of the account to create")
	flag.Parse()

	if *email == "" {
		return fmt.Errorf("usage: adminctl -email <address>")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	user, err := services.NewUserService(db, rm, cfg).Register(ctx, *email, password)
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
	return nil
}

// readPassword prompts twice without echoing and requires both entries to
// match.
func readPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(first), nil
}
