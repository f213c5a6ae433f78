package cmd

import (
	"github.com/spf13/cobra"

	"github.com/loomops/spool/internal/errors"
	"github.com/loomops/spool/internal/opensearch"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check engine reachability and cluster health",
	Long: `Check that the configured OpenSearch engine answers and report
its cluster health. Works whether or not log retrieval is enabled, so a
new config can be probed before opting in.

Examples:
  spool health

  spool health -o json`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)

	client, err := app.Client()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app.Render.Status("Checking %s...", app.Settings.Address())

	info, err := opensearch.Info(ctx, client)
	if err != nil {
		return errors.ConnectionError(app.Settings.Address(), err)
	}

	health, err := opensearch.Health(ctx, client)
	if err != nil {
		return errors.ConnectionError(app.Settings.Address(), err)
	}

	formatter, err := app.Formatter()
	if err != nil {
		return err
	}
	if err := formatter.FormatHealth(info, health); err != nil {
		return err
	}

	if !app.Settings.Enabled {
		app.Render.Warning("log retrieval is disabled; set enabled: true or run 'spool init' to turn it on")
	}
	return nil
}
