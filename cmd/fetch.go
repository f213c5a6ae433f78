package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomops/spool/internal/errors"
	"github.com/loomops/spool/internal/opensearch"
	"github.com/loomops/spool/internal/output"
)

var (
	fetchIndex      string
	fetchMatchField string
	fetchMatches    []string
	fetchHighlight  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <id>",
	Short: "Fetch logs with an explicit index and matcher",
	Long: `Fetch logs with an explicit index and matcher. This is the raw
query primitive behind 'spool job', 'spool workflow', and 'spool dask';
reach for it when logs were forwarded with non-default labels.

Exactly one matcher form is required: --match-field names a document field
matched against <id>, --match gives field=value pairs that must all match
(repeatable).

Examples:
  # What 'spool job' does, spelled out
  spool fetch loom-run-job-9adf19cb \
    --index fluentbit-job_log \
    --match-field kubernetes.labels.job-name.keyword

  # Worker logs of a Dask cluster by its literal cluster name
  spool fetch run-42 \
    --index fluentbit-dask_log \
    --match "kubernetes.labels.dask.org/cluster-name.keyword=loom-run-dask-abc" \
    --match "kubernetes.labels.dask.org/component=worker"`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchIndex, "index", "", "Index to query (defaults to the configured job index)")
	fetchCmd.Flags().StringVar(&fetchMatchField, "match-field", "", "Document field matched against <id>")
	fetchCmd.Flags().StringArrayVar(&fetchMatches, "match", nil, "field=value pair that must match (repeatable)")
	fetchCmd.Flags().StringVar(&fetchHighlight, "highlight", "", "Highlight a pattern in text output")
}

func runFetch(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)
	id := args[0]

	matcher, err := parseMatcher(fetchMatchField, fetchMatches)
	if err != nil {
		return err
	}

	index := fetchIndex
	if index == "" {
		index = app.Settings.Fetcher.JobIndex
	}

	fetcher, err := app.LogFetcher()
	if err != nil {
		return err
	}

	return fetchAndPrint(cmd, app, id, index, fetchHighlight, func(ctx context.Context) (string, bool) {
		return fetcher.FetchLogs(ctx, id, index, matcher)
	})
}

// parseMatcher builds the query matcher from the two exclusive flag forms.
func parseMatcher(field string, pairs []string) (opensearch.Matcher, error) {
	if (field == "") == (len(pairs) == 0) {
		return opensearch.Matcher{}, errors.MatcherRequiredError()
	}

	if field != "" {
		return opensearch.MatchField(field), nil
	}

	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return opensearch.Matcher{}, fmt.Errorf("invalid --match %q, want field=value", pair)
		}
		m[k] = v
	}
	return opensearch.MatchAll(m), nil
}

// fetchAndPrint runs one fetch operation and prints the result in the
// configured format. An unavailable result becomes an error so the process
// exits non-zero; an empty result is a normal empty output.
func fetchAndPrint(cmd *cobra.Command, app *App, id, index, highlight string, fetch func(context.Context) (string, bool)) error {
	formatter, err := app.Formatter()
	if err != nil {
		return err
	}
	formatter = formatter.WithHighlight(highlight)

	app.Render.Status("Fetching logs for %s from %s...", id, index)

	logs, ok := fetch(cmd.Context())
	if !ok {
		return errors.UnavailableError(id)
	}
	if logs == "" {
		app.Render.Status("No log entries matched %s in %s.", id, index)
	}

	return formatter.FormatLogs(output.LogResult{ID: id, Index: index, Logs: logs})
}
