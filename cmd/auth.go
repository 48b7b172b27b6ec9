package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/krolx/nicemusic/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if password == "" {
		var err error
		if password, err = promptPassword(); err != nil {
			return err
		}
	}

	user, err := r.session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("signed in as %s (%s)\n", user.Username, user.Email)
}

// AuthRegister creates an account and signs in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	username := cmd.String("username")
	password := cmd.String("password")

	if password == "" {
		var err error
		if password, err = promptPassword(); err != nil {
			return err
		}
	}

	user, err := r.session.Register(ctx, email, username, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("account created for %s (%s)\n", user.Username, user.Email)
}

// AuthWhoami shows the account for the stored session.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	user, err := r.session.Restore(ctx)
	if err != nil {
		return fmt.Errorf("%w: no active session, run `auth login`", shared.ErrNotAuthenticated)
	}

	r.writePlain("User: %s\n", user.Username)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
	return nil
}

// AuthLogout clears the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("signed out\n")
}

// AuthHealth checks API availability.
func (r *Runner) AuthHealth(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Health(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return r.writePlain("API is reachable at %s\n", r.config.Server.BaseURL)
}

// promptPassword reads a password from stdin. Plain read keeps the command
// scriptable; interactive masking belongs to the TUI.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
