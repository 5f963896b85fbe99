package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/turnity/turnity/internal/auth"
	"github.com/turnity/turnity/internal/cli"
	"github.com/turnity/turnity/internal/config"
	"github.com/turnity/turnity/internal/db"
	"github.com/turnity/turnity/internal/logging"
	"github.com/turnity/turnity/internal/repository"
	"github.com/turnity/turnity/internal/turnityapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log, closer, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	sessionRepo := repository.NewSQLiteAuthSessionRepo(database)
	scopeRepo := repository.NewSQLiteGridScopeRepo(database)

	authSvc := auth.NewService(sessionRepo, logging.Component(log, "auth"))

	var observer turnityapi.Observer = turnityapi.NoopObserver{}
	if cfg.LogCalls {
		observer = turnityapi.NewLogObserver(logging.Component(log, "api"))
	}
	client := turnityapi.New(turnityapi.Options{
		BaseURL:        cfg.APIURL,
		Timeout:        cfg.APITimeout,
		Tokens:         authSvc,
		OnUnauthorized: authSvc.Expire,
		Observer:       observer,
	})
	authSvc.Attach(client)

	app := &cli.App{
		Auth:   authSvc,
		API:    client,
		Scopes: scopeRepo,
		Log:    log,
	}

	// Detect interactive terminal for the grid and the login prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
