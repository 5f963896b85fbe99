package cli

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/turnity/turnity/internal/auth"
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/logging"
	"github.com/turnity/turnity/internal/repository"
	"github.com/turnity/turnity/internal/turnityapi"
)

// App holds the services CLI commands and the TUI run against.
type App struct {
	Auth   *auth.Service
	API    *turnityapi.Client
	Scopes repository.GridScopeRepo
	Log    logrus.FieldLogger

	// IsInteractive reports whether stdin is a terminal. Nil means it is not.
	IsInteractive func() bool

	// Now is the clock used for the default month. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger(component string) logrus.FieldLogger {
	var log logrus.FieldLogger = a.Log
	if log == nil {
		log = logging.Discard()
	}
	return logging.Component(log, component)
}

// NewRootCmd creates the top-level "turnity" command and registers all
// subcommands against the provided App. With no subcommand on a terminal
// it opens the interactive grid.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "turnity",
		Short:         "Weekly shift assignment for Turnity stores",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app)
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newWeeksCmd(app),
		newGridCmd(app),
	)

	return root
}

// currentSession returns the stored login.
func currentSession(ctx context.Context, app *App) (*domain.AuthSession, error) {
	return app.Auth.Current(ctx)
}

// requireManager is currentSession plus the grid role gate.
func requireManager(ctx context.Context, app *App) (*domain.AuthSession, error) {
	sess, err := currentSession(ctx, app)
	if err != nil {
		return nil, err
	}
	if err := auth.Require(sess, domain.RoleManager); err != nil {
		return nil, err
	}
	return sess, nil
}
