package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	spoolerrors "github.com/loomops/spool/internal/errors"
	"github.com/loomops/spool/internal/opensearch"
)

var indicesCmd = &cobra.Command{
	Use:   "indices [index...]",
	Short: "Show the log indices behind the configured queries",
	Long: `Show existence, health, document count, and size of the log
indices spool queries. With no arguments the three configured indices are
checked; indices that do not exist yet (no logs forwarded so far) are
reported as warnings.

Naming indices checks those instead, and an unknown name is an error.

Examples:
  # The three configured indices
  spool indices

  # One specific index
  spool indices fluentbit-dask_log`,
	RunE: runIndices,
}

func init() {
	rootCmd.AddCommand(indicesCmd)
}

func runIndices(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)

	client, err := app.Client()
	if err != nil {
		return err
	}

	names := args
	explicit := len(names) > 0
	if !explicit {
		names = app.Settings.Fetcher.Indices()
	}

	ctx := cmd.Context()
	app.Render.Status("Checking %d indices on %s...", len(names), app.Settings.Address())

	// One listing per name: a combined listing would fail entirely as soon
	// as a single index is missing.
	var rows []opensearch.IndexInfo
	for _, name := range names {
		listed, err := opensearch.ListIndices(ctx, client, name)
		if err != nil {
			if errors.Is(err, opensearch.ErrNoSuchIndex) {
				if explicit {
					return spoolerrors.UnknownIndexError(name, app.Settings.Fetcher.Indices())
				}
				app.Render.Warning("index %s does not exist yet (no logs forwarded?)", name)
				continue
			}
			return spoolerrors.ConnectionError(app.Settings.Address(), err)
		}
		rows = append(rows, listed...)
	}

	formatter, err := app.Formatter()
	if err != nil {
		return err
	}
	return formatter.FormatIndices(rows)
}
