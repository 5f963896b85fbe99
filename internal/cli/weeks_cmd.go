package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

func newWeeksCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "Show the scheduling weeks of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := currentSession(cmd.Context(), app); err != nil {
				return err
			}
			ref := app.now()
			if date != "" {
				d, err := domain.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				ref = d
			}

			weeks, err := grid.NewPartitioner(app.API, app.logger("weeks")).Weeks(cmd.Context(), ref)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header("Weeks of "+formatter.MonthTitle(ref)))
			fmt.Fprint(out, formatter.RenderWeekList(weeks))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the month, YYYY-MM-DD (defaults to today)")

	return cmd
}
