package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/loomops/spool/internal/config"
	"github.com/loomops/spool/internal/naming"
)

// daskComponentField labels each Dask pod with its role in the cluster.
const daskComponentField = "kubernetes.labels.dask.org/component"

// Fetcher retrieves job, workflow, and Dask cluster logs from the engine.
// Settings are fixed at construction; a Fetcher is safe for concurrent use.
//
// Fetch operations never return an error. A failed or unreachable engine is
// logged and reported as unavailable through the boolean return, so callers
// can fall back to their other log source instead of failing the request.
type Fetcher struct {
	client   *opensearchgo.Client
	settings config.FetcherSettings
	log      zerolog.Logger
}

// NewFetcher wraps an existing client handle.
func NewFetcher(client *opensearchgo.Client, s config.FetcherSettings) *Fetcher {
	return NewFetcherWithLogger(client, s, log.Logger)
}

// NewFetcherWithLogger wraps an existing client handle with a caller-owned
// logger instead of the global one.
func NewFetcherWithLogger(client *opensearchgo.Client, s config.FetcherSettings, logger zerolog.Logger) *Fetcher {
	return &Fetcher{client: client, settings: s, log: logger}
}

// BuildLogFetcher builds the client and fetcher from settings. It returns
// (nil, nil) when the integration is disabled: no fetcher means the caller
// falls back to whatever other log source it has.
func BuildLogFetcher(s config.Settings) (*Fetcher, error) {
	if !s.Enabled {
		return nil, nil
	}
	client, err := BuildClient(s)
	if err != nil {
		return nil, err
	}
	return NewFetcher(client, s.Fetcher), nil
}

// Client returns the underlying engine client handle.
func (f *Fetcher) Client() *opensearchgo.Client {
	return f.client
}

// FetchLogs retrieves the logs matching matcher from index. id names the
// job or workflow run the logs belong to; it feeds the single-field match
// value and the failure logs.
//
// The boolean distinguishes "engine unreachable or query failed" (false)
// from "query ran, nothing stored" (true with an empty string). An invalid
// matcher is rejected locally without touching the network.
func (f *Fetcher) FetchLogs(ctx context.Context, id, index string, m Matcher) (string, bool) {
	if !m.valid() {
		f.log.Error().Str("index", index).Msg("either a single-field or a multi-field matcher must be provided")
		return "", false
	}

	body, err := searchBody(id, m, f.settings.Order)
	if err != nil {
		f.log.Error().Err(err).Str("id", id).Msg("failed to build log query")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, f.settings.Timeout)
	defer cancel()

	res, err := f.client.Search(
		f.client.Search.WithContext(ctx),
		f.client.Search.WithIndex(index),
		f.client.Search.WithBody(bytes.NewReader(body)),
		f.client.Search.WithSize(f.settings.MaxRows),
		f.client.Search.WithTimeout(f.settings.Timeout),
	)
	if err != nil {
		f.log.Error().Err(err).Str("id", id).Str("index", index).Msg("failed to fetch logs")
		return "", false
	}
	defer res.Body.Close()

	if res.IsError() {
		f.log.Error().Str("id", id).Str("index", index).Str("status", res.Status()).Msg("failed to fetch logs")
		return "", false
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		f.log.Error().Err(err).Str("id", id).Str("index", index).Msg("failed to decode search response")
		return "", false
	}

	return f.concatRows(sr.Hits.Hits), true
}

// FetchJobLogs retrieves the logs of a single job by its backend job id.
func (f *Fetcher) FetchJobLogs(ctx context.Context, backendJobID string) (string, bool) {
	return f.FetchLogs(ctx, backendJobID, f.settings.JobIndex, MatchField(f.settings.JobMatcher))
}

// FetchWorkflowLogs retrieves the engine-level logs of a workflow run.
func (f *Fetcher) FetchWorkflowLogs(ctx context.Context, workflowID string) (string, bool) {
	return f.FetchLogs(ctx, workflowID, f.settings.WorkflowIndex, MatchField(f.settings.WorkflowMatcher))
}

// FetchDaskSchedulerLogs retrieves the scheduler logs of the Dask cluster
// serving a workflow run.
func (f *Fetcher) FetchDaskSchedulerLogs(ctx context.Context, workflowID string) (string, bool) {
	return f.fetchDaskComponentLogs(ctx, workflowID, "scheduler")
}

// FetchDaskWorkerLogs retrieves the worker logs of the Dask cluster serving
// a workflow run.
func (f *Fetcher) FetchDaskWorkerLogs(ctx context.Context, workflowID string) (string, bool) {
	return f.fetchDaskComponentLogs(ctx, workflowID, "worker")
}

func (f *Fetcher) fetchDaskComponentLogs(ctx context.Context, workflowID, component string) (string, bool) {
	return f.FetchLogs(ctx, workflowID, f.settings.DaskIndex, MatchAll(map[string]string{
		f.settings.DaskMatcher: naming.DaskClusterName(workflowID),
		daskComponentField:     component,
	}))
}

// concatRows joins the configured log field of every hit, in engine order,
// each line newline-terminated. Hits missing the field, or holding a
// non-string value, are skipped.
func (f *Fetcher) concatRows(hits []searchHit) string {
	var sb strings.Builder
	for _, hit := range hits {
		line, ok := hit.Source[f.settings.LogKey].(string)
		if !ok {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
