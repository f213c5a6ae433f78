package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/loomops/spool/internal/naming"
)

var daskHighlight string

var daskCmd = &cobra.Command{
	Use:   "dask",
	Short: "Fetch logs of the Dask cluster serving a workflow run",
	Long: `Fetch logs of the Dask cluster Loom started for a workflow run.

A run that declares a Dask resource gets a dedicated cluster whose pods
carry the run's cluster name. Scheduler and worker logs are fetched
separately; workers of one cluster come back interleaved as the engine
stored them.`,
}

var daskSchedulerCmd = &cobra.Command{
	Use:   "scheduler <workflow-id>",
	Short: "Fetch the Dask scheduler logs of a workflow run",
	Long: `Fetch the scheduler logs of the Dask cluster serving a workflow
run.

Examples:
  spool dask scheduler 4f0b0bcf-f2a7-4658-a4a4-978b2f0b24a1`,
	Args: cobra.ExactArgs(1),
	RunE: runDaskScheduler,
}

var daskWorkerCmd = &cobra.Command{
	Use:   "worker <workflow-id>",
	Short: "Fetch the Dask worker logs of a workflow run",
	Long: `Fetch the worker logs of the Dask cluster serving a workflow
run. Lines from all workers come back in one stream, ordered the way the
engine stored them.

Examples:
  spool dask worker 4f0b0bcf-f2a7-4658-a4a4-978b2f0b24a1 --highlight "killed"`,
	Args: cobra.ExactArgs(1),
	RunE: runDaskWorker,
}

func init() {
	rootCmd.AddCommand(daskCmd)
	daskCmd.AddCommand(daskSchedulerCmd)
	daskCmd.AddCommand(daskWorkerCmd)

	daskCmd.PersistentFlags().StringVar(&daskHighlight, "highlight", "", "Highlight a pattern in text output")
}

func runDaskScheduler(cmd *cobra.Command, args []string) error {
	return runDaskComponent(cmd, args[0], "scheduler")
}

func runDaskWorker(cmd *cobra.Command, args []string) error {
	return runDaskComponent(cmd, args[0], "worker")
}

func runDaskComponent(cmd *cobra.Command, rawID, component string) error {
	app := GetApp(cmd)

	workflowID, err := naming.CanonicalWorkflowID(rawID)
	if err != nil {
		return err
	}
	app.Debugf("Dask cluster name: %s", naming.DaskClusterName(workflowID))

	fetcher, err := app.LogFetcher()
	if err != nil {
		return err
	}

	fetch := fetcher.FetchDaskSchedulerLogs
	if component == "worker" {
		fetch = fetcher.FetchDaskWorkerLogs
	}

	return fetchAndPrint(cmd, app, workflowID, app.Settings.Fetcher.DaskIndex, daskHighlight,
		func(ctx context.Context) (string, bool) {
			return fetch(ctx, workflowID)
		})
}
