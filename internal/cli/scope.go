package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
	"github.com/turnity/turnity/internal/repository"
)

// scopeFlags are the grid selection flags shared by the grid subcommands.
type scopeFlags struct {
	store      string
	department string
	month      string
}

func (f *scopeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.store, "store", "", "Store ID (defaults to the last one used)")
	fs.StringVar(&f.department, "department", "", "Department ID (defaults to the last one used)")
	fs.StringVar(&f.month, "month", "", "Month as YYYY-MM (defaults to the current month)")
}

// lastScope returns the user's remembered grid selection, or nil.
func lastScope(ctx context.Context, app *App, document string) *domain.GridScope {
	if app.Scopes == nil {
		return nil
	}
	s, err := app.Scopes.Get(ctx, document)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			app.logger("cli").WithError(err).Warn("reading remembered grid scope")
		}
		return nil
	}
	return s
}

// resolveScope turns the flags into a validated store/department pair and
// a reference date. Missing IDs fall back to the remembered selection; the
// remembered department is only reused with its own store.
func resolveScope(ctx context.Context, app *App, user domain.User, f scopeFlags) (grid.Scope, time.Time, error) {
	storeID, deptID := f.store, f.department
	if last := lastScope(ctx, app, user.Document); last != nil {
		if storeID == "" {
			storeID = last.Store.ID
		}
		if deptID == "" && storeID == last.Store.ID {
			deptID = last.Department.ID
		}
	}
	if storeID == "" {
		return grid.Scope{}, time.Time{}, &grid.ValidationError{Field: "store", Message: "select a store with --store"}
	}
	if deptID == "" {
		return grid.Scope{}, time.Time{}, &grid.ValidationError{Field: "department", Message: "select a department with --department"}
	}

	ref := app.now()
	if f.month != "" {
		m, err := parseMonth(f.month)
		if err != nil {
			return grid.Scope{}, time.Time{}, err
		}
		ref = m
	}

	stores, err := app.API.Stores(ctx, user.Document)
	if err != nil {
		return grid.Scope{}, time.Time{}, fmt.Errorf("listing stores: %w", err)
	}
	var scope grid.Scope
	for _, s := range stores {
		if s.ID == storeID {
			scope.Store = s
		}
	}
	if scope.Store.ID == "" {
		return grid.Scope{}, time.Time{}, fmt.Errorf("store %q is not assigned to %s", storeID, user.Document)
	}

	depts, err := app.API.Departments(ctx, user.Document, storeID)
	if err != nil {
		return grid.Scope{}, time.Time{}, fmt.Errorf("listing departments: %w", err)
	}
	for _, d := range depts {
		if d.ID == deptID {
			scope.Department = d
		}
	}
	if scope.Department.ID == "" {
		return grid.Scope{}, time.Time{}, fmt.Errorf("department %q not found in store %s", deptID, scope.Store.Name)
	}
	return scope, ref, nil
}

// rememberScope stores the selection for the next run. Failures are logged
// and otherwise ignored.
func rememberScope(ctx context.Context, app *App, user domain.User, scope grid.Scope, ref time.Time) {
	if app.Scopes == nil {
		return
	}
	err := app.Scopes.Upsert(ctx, &domain.GridScope{
		UserDocument: user.Document,
		Store:        scope.Store,
		Department:   scope.Department,
		Month:        ref.Format("2006-01"),
		UpdatedAt:    app.now(),
	})
	if err != nil {
		app.logger("cli").WithError(err).Warn("remembering grid scope")
	}
}

// openGrid fetches the roster for scope and mounts a grid session on it.
func openGrid(ctx context.Context, app *App, user domain.User, scope grid.Scope, ref time.Time) (*grid.Session, error) {
	all, err := app.API.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return grid.NewSession(grid.SessionOptions{
		User:      user,
		Scope:     scope,
		Employees: grid.FilterRoster(all, scope),
		Backend:   app.API,
		Reference: ref,
		Log:       app.logger("grid"),
	})
}
