package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/turnity/turnity/internal/auth"
	"github.com/turnity/turnity/internal/domain"
)

// runTUI opens the interactive grid, prompting for credentials first when
// no usable login is stored.
func runTUI(ctx context.Context, app *App) error {
	sess, err := tuiSession(ctx, app)
	if err != nil {
		return err
	}
	if err := auth.Require(sess, domain.RoleManager); err != nil {
		return err
	}

	m := newAppModel(app, sess)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running grid: %w", err)
	}
	return nil
}

func tuiSession(ctx context.Context, app *App) (*domain.AuthSession, error) {
	sess, err := currentSession(ctx, app)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, auth.ErrNotLoggedIn) && !errors.Is(err, auth.ErrSessionExpired) {
		return nil, err
	}
	fields := &loginFields{}
	if err := loginForm(fields).RunWithContext(ctx); err != nil {
		return nil, err
	}
	return app.Auth.Login(ctx, fields.user, fields.password)
}
