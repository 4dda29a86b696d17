// Package cli implements boardctl, a terminal client running the same board
// store actions as the web frontend.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tasks-dev/tasks/frontend/internal/setup"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/config"
	"github.com/tasks-dev/tasks/shared/logger"
)

type App struct {
	API       string
	Token     string
	TokenPage string
	Timeout   time.Duration
	LogLevel  string
	Pretty    bool

	// newGateway is swapped in tests.
	newGateway func(app *App) (state.Gateway, error)
}

func NewRootCmd() *cobra.Command {
	app := &App{newGateway: apiGateway}

	cmd := &cobra.Command{
		Use:           "boardctl",
		Short:         "Inspect and edit task boards from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # List threads
  boardctl threads

  # Boards of a thread, newest first
  boardctl boards --thread Weekly

  # Set the focus of the current Daily board
  boardctl focus "ship the release"

  # Close the current board
  boardctl close --thread Daily
`),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitializeWriter(cmd.ErrOrStderr(), app.LogLevel, false)
		},
	}

	defaults := config.Defaults()
	cmd.PersistentFlags().StringVar(&app.API, "api", envOr("TASKS_API_URL", defaults.ApiBaseURL), "Base URL of the tasks API")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("TASKS_API_TOKEN", ""), "CSRF token sent with changes")
	cmd.PersistentFlags().StringVar(&app.TokenPage, "token-page", envOr("TASKS_TOKEN_PAGE", ""), "Page to read the CSRF token from (overrides --token)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", defaults.ApiTimeout, "Timeout of a single API request")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newThreadsCmd(app))
	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newFocusCmd(app))
	cmd.AddCommand(newCloseCmd(app))
	cmd.AddCommand(newSummaryCmd(app))

	return cmd
}

func apiGateway(app *App) (state.Gateway, error) {
	public := config.Defaults()
	public.ApiBaseURL = app.API
	public.ApiTimeout = app.Timeout
	public.TokenPageURL = app.TokenPage
	return setup.NewAPIClient(public, app.Token)
}

func (app *App) newStore() (*state.Store, error) {
	gw, err := app.newGateway(app)
	if err != nil {
		return nil, err
	}
	return state.New(gw, config.DefaultThreadName), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(map[string]any{"data": v})
}

// reportedError was already printed by the command that returned it.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err}
}

// Execute runs the command tree and prints the errors cobra raises itself,
// such as a wrong argument count. Command failures print themselves.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
