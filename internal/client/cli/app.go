// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements the command surface shared by the admin console and
the shop client.

	login [-email addr]              sign in (password is prompted)
	signup [-name n] [-email addr]   create an account (shop only)
	logout                           forget the stored session
	whoami                           print the signed-in user
	status                           print the session state
*/
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/taibuivan/storefront/internal/client/api"
	"github.com/taibuivan/storefront/internal/client/session"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// App runs one command against a session holder.
type App struct {
	Name        string
	AllowSignup bool
	Holder      *session.Holder

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ReadPassword reads a secret without echo. Defaults to the terminal.
	ReadPassword func() (string, error)

	reader *bufio.Reader
}

// Run executes args and returns the process exit code.
func (app *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		app.usage()
		return ExitUsage
	}

	app.reader = bufio.NewReader(app.Stdin)
	if app.ReadPassword == nil {
		app.ReadPassword = app.terminalPassword
	}

	command, rest := args[0], args[1:]

	var err error
	switch command {
	case "login":
		err = app.login(ctx, rest)
	case "signup":
		if !app.AllowSignup {
			app.usage()
			return ExitUsage
		}
		err = app.signup(ctx, rest)
	case "logout":
		err = app.logout(ctx)
	case "whoami":
		err = app.whoami(ctx)
	case "status":
		err = app.status(ctx)
	case "help", "-h", "--help":
		app.usage()
		return ExitOK
	default:
		app.usage()
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(app.Stderr, usageErr)
		return ExitUsage
	}
	if err != nil {
		fmt.Fprintln(app.Stderr, "error:", err)
		return ExitFailed
	}
	return ExitOK
}

func (app *App) usage() {
	fmt.Fprintf(app.Stderr, "usage: %s <command> [flags]\n\ncommands:\n", app.Name)
	fmt.Fprintln(app.Stderr, "  login     sign in")
	if app.AllowSignup {
		fmt.Fprintln(app.Stderr, "  signup    create an account")
	}
	fmt.Fprintln(app.Stderr, "  logout    forget the stored session")
	fmt.Fprintln(app.Stderr, "  whoami    print the signed-in user")
	fmt.Fprintln(app.Stderr, "  status    print the session state")
}

// # Commands

func (app *App) login(ctx context.Context, args []string) error {
	flags := app.flagSet("login")
	email := flags.String("email", "", "account email")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := app.prompt(email, "Email"); err != nil {
		return err
	}
	password, err := app.password()
	if err != nil {
		return err
	}

	user, err := app.Holder.Login(ctx, *email, password)
	if err != nil {
		return errors.New(api.MessageOf(err, "Login failed"))
	}

	fmt.Fprintf(app.Stdout, "Logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (app *App) signup(ctx context.Context, args []string) error {
	flags := app.flagSet("signup")
	name := flags.String("name", "", "display name")
	email := flags.String("email", "", "account email")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := app.prompt(name, "Name"); err != nil {
		return err
	}
	if err := app.prompt(email, "Email"); err != nil {
		return err
	}
	password, err := app.password()
	if err != nil {
		return err
	}

	user, err := app.Holder.Signup(ctx, *name, *email, password)
	if err != nil {
		return errors.New(api.MessageOf(err, "Signup failed"))
	}

	fmt.Fprintf(app.Stdout, "Welcome, %s. Account created for %s\n", user.Name, user.Email)
	return nil
}

func (app *App) logout(ctx context.Context) error {
	if err := app.Holder.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.Stdout, "Logged out")
	return nil
}

func (app *App) whoami(ctx context.Context) error {
	if err := app.Holder.Hydrate(ctx); err != nil {
		return err
	}

	if !app.Holder.IsAuthenticated() {
		return errors.New("not logged in")
	}

	user := app.Holder.User()
	if user == nil {
		return errors.New("session stored but the server could not be reached")
	}

	fmt.Fprintf(app.Stdout, "%s <%s>\nrole: %s\nid:   %s\n", user.Name, user.Email, user.Role, user.ID)
	return nil
}

func (app *App) status(ctx context.Context) error {
	if err := app.Holder.Hydrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.Stdout, app.Holder.State())
	return nil
}

// # Input

type usageError string

func (e usageError) Error() string { return string(e) }

func (app *App) flagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(app.Name+" "+name, flag.ContinueOnError)
	flags.SetOutput(app.Stderr)
	return flags
}

// prompt fills *value from stdin when the flag was not given.
func (app *App) prompt(value *string, label string) error {
	if *value != "" {
		return nil
	}

	fmt.Fprintf(app.Stderr, "%s: ", label)
	line, err := app.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return usageError(strings.ToLower(label) + " is required")
	}

	*value = strings.TrimSpace(line)
	if *value == "" {
		return usageError(strings.ToLower(label) + " is required")
	}
	return nil
}

func (app *App) password() (string, error) {
	fmt.Fprint(app.Stderr, "Password: ")
	password, err := app.ReadPassword()
	fmt.Fprintln(app.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if password == "" {
		return "", usageError("password is required")
	}
	return password, nil
}
