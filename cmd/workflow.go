package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/loomops/spool/internal/naming"
)

var workflowHighlight string

var workflowCmd = &cobra.Command{
	Use:   "workflow <workflow-id>",
	Short: "Fetch the engine-level logs of a workflow run",
	Long: `Fetch the engine-level logs of a workflow run: what the run's
batch pod printed while orchestrating the steps, as opposed to the logs of
any single step.

The workflow id is the run's UUID as shown by the Loom API.

Examples:
  spool workflow 4f0b0bcf-f2a7-4658-a4a4-978b2f0b24a1

  spool workflow 4f0b0bcf-f2a7-4658-a4a4-978b2f0b24a1 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(workflowCmd)

	workflowCmd.Flags().StringVar(&workflowHighlight, "highlight", "", "Highlight a pattern in text output")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)

	workflowID, err := naming.CanonicalWorkflowID(args[0])
	if err != nil {
		return err
	}
	app.Debugf("Canonical workflow id: %s", workflowID)

	fetcher, err := app.LogFetcher()
	if err != nil {
		return err
	}

	return fetchAndPrint(cmd, app, workflowID, app.Settings.Fetcher.WorkflowIndex, workflowHighlight,
		func(ctx context.Context) (string, bool) {
			return fetcher.FetchWorkflowLogs(ctx, workflowID)
		})
}
