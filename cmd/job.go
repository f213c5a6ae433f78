package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var jobHighlight string

var jobCmd = &cobra.Command{
	Use:   "job <backend-job-id>",
	Short: "Fetch the logs of one workflow step's Kubernetes job",
	Long: `Fetch the logs of one workflow step's Kubernetes job.

The backend job id is the job name Loom assigned when it scheduled the
step; Fluent Bit stamps it on every log line the step's pod emits.

Examples:
  # Plain text, ready for less or grep
  spool job loom-run-job-9adf19cb

  # Highlight failures while reading
  spool job loom-run-job-9adf19cb --highlight "error|traceback"

  # JSON envelope for tooling
  spool job loom-run-job-9adf19cb -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runJob,
}

func init() {
	rootCmd.AddCommand(jobCmd)

	jobCmd.Flags().StringVar(&jobHighlight, "highlight", "", "Highlight a pattern in text output")
}

func runJob(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)
	backendJobID := args[0]

	fetcher, err := app.LogFetcher()
	if err != nil {
		return err
	}

	return fetchAndPrint(cmd, app, backendJobID, app.Settings.Fetcher.JobIndex, jobHighlight,
		func(ctx context.Context) (string, bool) {
			return fetcher.FetchJobLogs(ctx, backendJobID)
		})
}
