// Package main provides a command that creates a user directly in the
// database and prints a session token for it.
//
// Usage:
//
//	createuser -d postgres://... -email a@example.com -name Alice -password s3cret
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/config"
	"github.com/atinyakov/taskkeeper/internal/db"
	"github.com/atinyakov/taskkeeper/internal/repository"
	"github.com/atinyakov/taskkeeper/internal/service"
	"go.uber.org/multierr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "createuser:", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	fs := flag.NewFlagSet("createuser", flag.ContinueOnError)
	options := config.Register(fs)
	email := fs.String("email", "", "email of the new user")
	name := fs.String("name", "", "display name of the new user")
	password := fs.String("password", "", "password of the new user")
	if err := config.Load(fs, options, args); err != nil {
		return err
	}

	tokens, err := auth.NewTokens(options.JWTSecret, options.TokenTTL)
	if err != nil {
		return err
	}

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, postgresDB.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewAuthService(repository.NewPostgresUserRepository(postgresDB), tokens)
	sess, err := users.Register(ctx, service.NewUser{Email: *email, DisplayName: *name, Password: *password})
	if err != nil {
		return err
	}

	fmt.Printf("created user %d (%s)\n", sess.User.ID, sess.User.Email)
	fmt.Printf("token: %s\n", sess.Token)
	fmt.Printf("expires: %s\n", sess.ExpiresAt.Format(time.RFC3339))
	return nil
}
