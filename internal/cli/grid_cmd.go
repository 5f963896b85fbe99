package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/export"
	"github.com/turnity/turnity/internal/grid"
)

// errSubmissionFailed is returned after a failed submission has been
// reported, so the process exits non-zero.
var errSubmissionFailed = errors.New("shifts were not saved")

func newGridCmd(app *App) *cobra.Command {
	var scope scopeFlags

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "View, export and submit a month of shifts",
	}
	scope.register(cmd.PersistentFlags())

	cmd.AddCommand(
		newGridShowCmd(app, &scope),
		newGridExportCmd(app, &scope),
		newGridSubmitCmd(app, &scope),
	)

	return cmd
}

// loadGrid resolves the scope, mounts a session and loads its month.
func loadGrid(ctx context.Context, app *App, f scopeFlags) (*grid.Session, error) {
	sess, err := requireManager(ctx, app)
	if err != nil {
		return nil, err
	}
	scope, ref, err := resolveScope(ctx, app, sess.User, f)
	if err != nil {
		return nil, err
	}
	g, err := openGrid(ctx, app, sess.User, scope, ref)
	if err != nil {
		return nil, err
	}
	if err := g.LoadMonth(ctx); err != nil {
		return nil, err
	}
	rememberScope(ctx, app, sess.User, scope, ref)
	return g, nil
}

func gridTitle(g *grid.Session) string {
	sc := g.Scope()
	return fmt.Sprintf("%s · %s · %s", sc.Store.Name, sc.Department.Name, formatter.MonthTitle(g.Reference()))
}

func printWeeks(out io.Writer, g *grid.Session, only int) {
	for i, w := range g.Weeks() {
		if only > 0 && i != only-1 {
			continue
		}
		fmt.Fprintf(out, "\n%s %s\n", formatter.Bold(fmt.Sprintf("Week %d", i+1)),
			formatter.Dim(domain.FormatDate(w.Start)+" to "+domain.FormatDate(w.End)))
		fmt.Fprint(out, formatter.RenderWeek(g, i, formatter.Cursor{}))
	}
}

func newGridShowCmd(app *App, scope *scopeFlags) *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the shift grid with weekly hour totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrid(cmd.Context(), app, *scope)
			if err != nil {
				return err
			}
			if week != 0 {
				if err := g.SelectWeek(week - 1); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(gridTitle(g)))
			printWeeks(out, g, week)
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Only show this week (1-based)")

	return cmd
}

func newGridExportCmd(app *App, scope *scopeFlags) *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the month to an Excel workbook or a PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseExportFormat(format)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), app, *scope)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = exportFileName(g, f)
			}
			n, err := exportGrid(g, path, f, app.now())
			if err != nil {
				return err
			}
			unit := "rows"
			if f == formatPDF {
				unit = "pages"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s to %s\n", n, unit, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to turnos-<store>-<month>.<format>)")
	cmd.Flags().StringVar(&format, "format", formatXLSX, "Output format: xlsx or pdf")

	return cmd
}

const (
	formatXLSX = "xlsx"
	formatPDF  = "pdf"
)

func parseExportFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatXLSX, "excel":
		return formatXLSX, nil
	case formatPDF:
		return formatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want xlsx or pdf)", s)
	}
}

func exportFileName(g *grid.Session, format string) string {
	store := strings.ReplaceAll(strings.ToLower(g.Scope().Store.Name), " ", "-")
	return fmt.Sprintf("turnos-%s-%s.%s", store, g.MonthLabel(), format)
}

// exportGrid writes g's month to path. It returns the data rows written for
// a workbook and the pages for a PDF.
func exportGrid(g *grid.Session, path, format string, printed time.Time) (int, error) {
	if err := g.Loaded(); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	var n int
	if format == formatPDF {
		n, err = export.WriteMonthPDF(f, g, printed)
	} else {
		n, err = export.WriteMonthWorkbook(f, g)
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", path, err)
	}
	return n, nil
}

func newGridSubmitCmd(app *App, scope *scopeFlags) *cobra.Command {
	var from string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Apply a plan file to the month and save it",
		Long: `Loads the month, applies each entry of a JSON plan file to the grid and
submits the whole month. A plan is a list of cell changes:

  [{"employee": "100", "date": "2024-06-03", "hour": "8", "shift": "M8", "break": "00:30:00"},
   {"employee": "100", "date": "2024-06-04", "hour": "VACACIONES"},
   {"employee": "200", "date": "2024-06-05", "delete": true}]

Use "-" to read the plan from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entries, err := openPlan(cmd, from)
			if err != nil {
				return err
			}
			g, err := loadGrid(ctx, app, *scope)
			if err != nil {
				return err
			}
			if err := applyPlan(ctx, g, entries); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if dryRun {
				p, err := g.BuildPayload()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			out, err := g.Submit(ctx)
			var verr *grid.ValidationError
			if errors.As(err, &verr) {
				return err
			}
			fmt.Fprintln(w, formatter.RenderOutcome(out))
			if len(out.Incidents) > 0 {
				fmt.Fprint(w, formatter.RenderIncidents(out.Incidents, employeeNames(g)))
			}
			if out.Kind == grid.OutcomeFailure || out.Kind == grid.OutcomeConnectionError {
				return errSubmissionFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Plan file (JSON), or - for stdin")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the payload instead of submitting it")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func openPlan(cmd *cobra.Command, path string) ([]PlanEntry, error) {
	if path == "-" {
		return readPlan(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plan: %w", err)
	}
	defer f.Close()
	return readPlan(f)
}

func employeeNames(g *grid.Session) map[string]string {
	names := make(map[string]string, len(g.Employees()))
	for _, e := range g.Employees() {
		names[e.ID] = e.FullName
	}
	return names
}
