package cmd

import (
	"context"
	"os"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loomops/spool/internal/config"
	"github.com/loomops/spool/internal/errors"
	"github.com/loomops/spool/internal/opensearch"
	"github.com/loomops/spool/internal/output"
	"github.com/loomops/spool/internal/ui"
)

// appContextKey is the context key for the App instance.
type appContextKey struct{}

// App holds the application dependencies that can be injected for testing.
type App struct {
	Settings config.Settings
	Render   *ui.Renderer

	// fetcher is built lazily on first use so commands that never touch
	// the engine (init, completion) run without a reachable cluster.
	fetcher *opensearch.Fetcher
}

// NewApp creates a new App with settings materialized from viper.
func NewApp() *App {
	return &App{
		Settings: config.FromViper(viper.GetViper()),
		Render:   render,
	}
}

// NewAppWithSettings creates a new App with the given settings.
// This is primarily used for testing.
func NewAppWithSettings(s config.Settings, renderer *ui.Renderer) *App {
	return &App{
		Settings: s,
		Render:   renderer,
	}
}

// GetApp retrieves the App from the command context.
// If no App is set, it creates a new default one.
func GetApp(cmd *cobra.Command) *App {
	if app, ok := cmd.Context().Value(appContextKey{}).(*App); ok {
		return app
	}
	return NewApp()
}

// SetApp stores the App in the context for a command.
func SetApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

// SetFetcher injects a fetcher, bypassing the lazy build.
// This is primarily used for testing.
func (a *App) SetFetcher(f *opensearch.Fetcher) {
	a.fetcher = f
}

// LogFetcher returns the configured log fetcher, building it on first use.
// When the integration is disabled the error explains how to opt in.
func (a *App) LogFetcher() (*opensearch.Fetcher, error) {
	if a.fetcher != nil {
		return a.fetcher, nil
	}

	if err := a.Settings.Validate(); err != nil {
		return nil, err
	}

	fetcher, err := opensearch.BuildLogFetcher(a.Settings)
	if err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, errors.DisabledError()
	}

	a.fetcher = fetcher
	return fetcher, nil
}

// Client returns a bare engine client for commands that inspect the engine
// without fetching logs (health, indices). Unlike LogFetcher it ignores the
// enabled flag: probing a cluster before opting in is the point of those
// commands.
func (a *App) Client() (*opensearchgo.Client, error) {
	if a.fetcher != nil {
		return a.fetcher.Client(), nil
	}

	if err := a.Settings.Validate(); err != nil {
		return nil, err
	}
	return opensearch.BuildClient(a.Settings)
}

// Formatter returns an output formatter honoring the configured format.
func (a *App) Formatter() (*output.Formatter, error) {
	format, err := output.ParseFormat(getOutputFormat())
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, os.Stdout), nil
}

// Debugf prints a debug message if verbose mode is enabled.
func (a *App) Debugf(format string, args ...interface{}) {
	if IsVerbose() {
		a.Render.Debug(format, args...)
	}
}
