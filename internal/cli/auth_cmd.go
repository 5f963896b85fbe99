package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turnity/turnity/internal/auth"
	"github.com/turnity/turnity/internal/cli/formatter"
)

func newLoginCmd(app *App) *cobra.Command {
	var user string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Turnity backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := &loginFields{user: user}
			switch {
			case passwordStdin:
				if fields.user == "" {
					return errors.New("--user is required with --password-stdin")
				}
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				fields.password = pw
			case app.interactive():
				if err := loginForm(fields).RunWithContext(cmd.Context()); err != nil {
					return err
				}
			default:
				return errors.New("no terminal for the password prompt; use --password-stdin")
			}

			sess, err := app.Auth.Login(cmd.Context(), fields.user, fields.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n",
				formatter.Bold(sess.User.FullName), sess.User.PrimaryRole())
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Document number to sign in with")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from the first line of stdin")

	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := currentSession(cmd.Context(), app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			u := sess.User
			fmt.Fprintf(out, "%s %s\n", formatter.Bold(u.FullName), formatter.Dim("("+u.Document+")"))
			fmt.Fprintf(out, "Role:      %s\n", u.PrimaryRole())
			if u.Email != "" {
				fmt.Fprintf(out, "Email:     %s\n", u.Email)
			}
			fmt.Fprintf(out, "Signed in: %s\n", sess.SavedAt.Local().Format("2006-01-02 15:04"))
			if exp, ok := auth.TokenExpiry(sess.Token); ok {
				fmt.Fprintf(out, "Expires:   %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
