// Package commands implements the stats-reset command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xmsleep/stats-reset/internal/cli"
	"github.com/xmsleep/stats-reset/internal/constants"
	"github.com/xmsleep/stats-reset/internal/gist"
	"github.com/xmsleep/stats-reset/internal/resetter"
	"github.com/xmsleep/stats-reset/internal/resolve"
)

var (
	// ErrMissingToken is returned when no GitHub token could be resolved.
	ErrMissingToken = errors.New("no GitHub token provided")
	// ErrMissingGistID is returned when no gist ID could be resolved.
	ErrMissingGistID = errors.New("no gist ID provided")
	// ErrResetFailed is returned when the reset was attempted and did not succeed.
	ErrResetFailed = errors.New("stats reset failed")
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
	opts   options

	ctx    context.Context
	cancel context.CancelFunc
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int

	Token       string `mapstructure:"token"`
	GistID      string `mapstructure:"gist-id"`
	APIURL      string `mapstructure:"api-url"`
	Description string `mapstructure:"description"`
	File        string `mapstructure:"file"`
	DryRun      bool   `mapstructure:"dry-run"`
}

type options struct {
	lookupEnv func(string) (string, bool)
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New creates a new App instance with default values.
func New(args ...Options) (*App, error) {
	a := App{
		opts: options{lookupEnv: os.LookupEnv},
	}
	for _, opt := range args {
		opt(&a.opts)
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.cmd = &cobra.Command{
		Use:   constants.CmdName + " [token] [gist-id]",
		Short: "Reset the usage statistics stored in a gist",
		Long: `Reset the usage statistics stored in a GitHub gist by overwriting the stats file with an empty JSON array.

The token and gist ID are read from the ` + constants.TokenEnv + ` and ` + constants.GistIDEnv + ` environment variables first,
then from the positional arguments, and finally from the flags or the configuration file.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetVerbosity(a.config.Verbosity) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}
			slog.Debug("Got app config", "verbosity", a.config.Verbosity, "gist", a.config.GistID,
				"api-url", a.config.APIURL, "file", a.config.File, "dry-run", a.config.DryRun)

			cli.SetVerbosity(a.config.Verbosity)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args)
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}
	if err := a.viper.BindPFlags(a.cmd.Flags()); err != nil {
		return nil, err
	}

	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")

	cmd.Flags().StringVar(&app.config.Token, "token", "", "GitHub token, used when "+constants.TokenEnv+" and the first argument are not set")
	cmd.Flags().StringVar(&app.config.GistID, "gist-id", "", "gist ID, used when "+constants.GistIDEnv+" and the second argument are not set")
	cmd.Flags().StringVar(&app.config.APIURL, "api-url", constants.DefaultAPIURL, "base URL of the GitHub REST API")
	cmd.Flags().StringVar(&app.config.Description, "description", constants.DefaultDescription, "gist description written with the reset")
	cmd.Flags().StringVar(&app.config.File, "file", constants.DefaultStatsFile, "name of the stats file in the gist")
	cmd.Flags().BoolVarP(&app.config.DryRun, "dry-run", "d", false, "print the request that would be sent, but do not contact GitHub")
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.ExecuteContext(a.ctx)
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// Quit aborts any in-flight request.
func (a App) Quit() {
	a.cancel()
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}

func (a *App) run(ctx context.Context, args []string) error {
	out := a.cmd.OutOrStdout()

	token, from, ok := resolve.Chain{
		resolve.EnvFrom(constants.TokenEnv, a.opts.lookupEnv),
		resolve.Arg(args, 0),
		resolve.Value("--token flag or configuration", a.config.Token),
	}.Resolve()
	if !ok {
		fmt.Fprintln(out, "❌ Please provide a GitHub token")
		fmt.Fprintln(out, "   Usage:")
		fmt.Fprintf(out, "   %s <GITHUB_TOKEN> <GIST_ID>\n", constants.CmdName)
		fmt.Fprintln(out, "   Or set the environment variables:")
		fmt.Fprintf(out, "   export %s=your_token\n", constants.TokenEnv)
		fmt.Fprintf(out, "   export %s=your_gist_id\n", constants.GistIDEnv)
		return ErrMissingToken
	}
	slog.Debug("Resolved GitHub token", "from", from)

	gistID, from, ok := resolve.Chain{
		resolve.EnvFrom(constants.GistIDEnv, a.opts.lookupEnv),
		resolve.Arg(args, 1),
		resolve.Value("--gist-id flag or configuration", a.config.GistID),
	}.Resolve()
	if !ok {
		fmt.Fprintln(out, "❌ Please provide a gist ID")
		fmt.Fprintln(out, "   Usage:")
		fmt.Fprintf(out, "   %s <GITHUB_TOKEN> <GIST_ID>\n", constants.CmdName)
		return ErrMissingGistID
	}
	slog.Debug("Resolved gist ID", "gist", gistID, "from", from)

	client, err := gist.New(token, gist.WithBaseURL(a.config.APIURL))
	if err != nil {
		return fmt.Errorf("failed to create gist client: %v", err)
	}

	r, err := resetter.New(client, gistID,
		resetter.WithDescription(a.config.Description),
		resetter.WithFileName(a.config.File),
		resetter.WithDryRun(a.config.DryRun),
		resetter.WithOutput(out))
	if err != nil {
		return fmt.Errorf("failed to create stats resetter: %v", err)
	}

	if !r.Reset(ctx) {
		return ErrResetFailed
	}
	return nil
}
