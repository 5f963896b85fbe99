package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/domain"
)

// turnityHuhTheme returns a huh theme using the Gruvbox palette.
func turnityHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// loginFields is bound to the login form.
type loginFields struct {
	user     string
	password string
}

// loginForm asks for the document number (unless already given) and the
// password.
func loginForm(f *loginFields) *huh.Form {
	fields := make([]huh.Field, 0, 2)
	if f.user == "" {
		fields = append(fields, huh.NewInput().
			Title("Document number").
			Value(&f.user).
			Validate(required("document number")))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&f.password).
		Validate(required("password")))

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(turnityHuhTheme()).
		WithShowHelp(false)
}

// storeForm selects one of the user's stores. The current value of
// *storeID is preselected when it is among the options.
func storeForm(stores []domain.Store, storeID *string) *huh.Form {
	if len(stores) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(stores))
	for _, s := range stores {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", s.Name, s.ID), s.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Store").
				Options(options...).
				Value(storeID),
		),
	).WithTheme(turnityHuhTheme()).WithShowHelp(false)
}

// departmentForm selects one of a store's departments.
func departmentForm(store domain.Store, departments []domain.Department, departmentID *string) *huh.Form {
	if len(departments) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(departments))
	for _, d := range departments {
		options = append(options, huh.NewOption(d.Name, d.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Department at " + store.Name).
				Options(options...).
				Value(departmentID),
		),
	).WithTheme(turnityHuhTheme()).WithShowHelp(false)
}

// monthForm asks for a month as YYYY-MM.
func monthForm(month *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Month").
				Description("YYYY-MM").
				Value(month).
				Validate(func(s string) error {
					_, err := parseMonth(s)
					return err
				}),
		),
	).WithTheme(turnityHuhTheme()).WithShowHelp(false)
}

// parseMonth reads YYYY-MM and returns the 15th of that month, the
// reference date the week partition is requested for.
func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: use YYYY-MM", s)
	}
	return t.AddDate(0, 0, 14), nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
