package opensearch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/rs/zerolog"

	"github.com/loomops/spool/internal/config"
)

// fakeTransport records every request and replays a canned response.
type fakeTransport struct {
	status   int
	response string
	err      error

	requests []*http.Request
	bodies   []string
}

func (ft *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body := ""
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}
	ft.requests = append(ft.requests, req)
	ft.bodies = append(ft.bodies, body)

	if ft.err != nil {
		return nil, ft.err
	}

	status := ft.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(ft.response)),
	}, nil
}

// emptyResponse is a well-formed search reply with no hits.
const emptyResponse = `{"took":1,"timed_out":false,"hits":{"total":{"value":0,"relation":"eq"},"hits":[]}}`

func newTestClient(t *testing.T, ft *fakeTransport) *opensearchgo.Client {
	t.Helper()

	client, err := opensearchgo.NewClient(opensearchgo.Config{
		Addresses:    []string{"http://engine.test:9200"},
		Transport:    ft,
		DisableRetry: true,
	})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func newTestFetcher(t *testing.T, ft *fakeTransport, logs io.Writer) *Fetcher {
	t.Helper()

	if logs == nil {
		logs = io.Discard
	}
	return NewFetcherWithLogger(newTestClient(t, ft), config.Defaults().Fetcher, zerolog.New(logs))
}

func recordedBody(t *testing.T, ft *fakeTransport, i int) map[string]interface{} {
	t.Helper()
	if len(ft.bodies) <= i {
		t.Fatalf("expected at least %d requests, got %d", i+1, len(ft.bodies))
	}
	return decodeBody(t, []byte(ft.bodies[i]))
}

func TestFetchLogsRequestShape(t *testing.T) {
	ft := &fakeTransport{response: emptyResponse}
	f := newTestFetcher(t, ft, nil)

	logs, ok := f.FetchLogs(context.Background(), "job-42", "fluentbit-job_log", MatchField("kubernetes.labels.job-name.keyword"))
	if !ok {
		t.Fatal("expected logs to be available")
	}
	if logs != "" {
		t.Errorf("expected empty logs for zero hits, got %q", logs)
	}

	if len(ft.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ft.requests))
	}
	req := ft.requests[0]

	if req.Method != http.MethodPost && req.Method != http.MethodGet {
		t.Errorf("unexpected method %s", req.Method)
	}
	if req.URL.Path != "/fluentbit-job_log/_search" {
		t.Errorf("path = %q, want %q", req.URL.Path, "/fluentbit-job_log/_search")
	}

	q := req.URL.Query()
	if q.Get("size") != "5000" {
		t.Errorf("size param = %q, want %q", q.Get("size"), "5000")
	}
	if q.Get("timeout") == "" {
		t.Error("timeout param missing")
	}

	want := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"kubernetes.labels.job-name.keyword": "job-42",
			},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"@timestamp": map[string]interface{}{"order": "asc"},
			},
		},
	}
	if got := recordedBody(t, ft, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("request body = %v, want %v", got, want)
	}
}

func TestFetchLogsInvalidMatcher(t *testing.T) {
	matchers := []struct {
		name    string
		matcher Matcher
	}{
		{"zero matcher", Matcher{}},
		{"empty field", MatchField("")},
		{"empty pairs", MatchAll(nil)},
	}

	for _, tt := range matchers {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{response: emptyResponse}
			var logged bytes.Buffer
			f := newTestFetcher(t, ft, &logged)

			logs, ok := f.FetchLogs(context.Background(), "id-1", "fluentbit-job_log", tt.matcher)
			if ok {
				t.Error("expected logs to be unavailable")
			}
			if logs != "" {
				t.Errorf("expected empty string, got %q", logs)
			}
			if len(ft.requests) != 0 {
				t.Errorf("expected no requests, got %d", len(ft.requests))
			}
			if !strings.Contains(logged.String(), "matcher must be provided") {
				t.Errorf("misuse not logged, log output: %s", logged.String())
			}
		})
	}
}

func TestFetchLogsConcatenation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name: "hits joined in engine order with trailing newlines",
			response: `{"hits":{"hits":[
				{"_source":{"log":"starting job"}},
				{"_source":{"log":"step 1 done"}},
				{"_source":{"log":"job finished"}}
			]}}`,
			want: "starting job\nstep 1 done\njob finished\n",
		},
		{
			name: "hit without log field skipped",
			response: `{"hits":{"hits":[
				{"_source":{"log":"first"}},
				{"_source":{"stream":"stderr"}},
				{"_source":{"log":"last"}}
			]}}`,
			want: "first\nlast\n",
		},
		{
			name: "non-string log value skipped",
			response: `{"hits":{"hits":[
				{"_source":{"log":42}},
				{"_source":{"log":"kept"}}
			]}}`,
			want: "kept\n",
		},
		{
			name:     "no hits yields empty string",
			response: emptyResponse,
			want:     "",
		},
		{
			name: "empty log lines preserved",
			response: `{"hits":{"hits":[
				{"_source":{"log":""}},
				{"_source":{"log":"after blank"}}
			]}}`,
			want: "\nafter blank\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{response: tt.response}
			f := newTestFetcher(t, ft, nil)

			logs, ok := f.FetchLogs(context.Background(), "job-1", "fluentbit-job_log", MatchField("kubernetes.labels.job-name.keyword"))
			if !ok {
				t.Fatal("expected logs to be available")
			}
			if logs != tt.want {
				t.Errorf("logs = %q, want %q", logs, tt.want)
			}
		})
	}
}

func TestFetchLogsFailures(t *testing.T) {
	tests := []struct {
		name      string
		transport *fakeTransport
	}{
		{
			name:      "transport error",
			transport: &fakeTransport{err: errors.New("connection refused")},
		},
		{
			name:      "engine error status",
			transport: &fakeTransport{status: http.StatusInternalServerError, response: `{"error":{"reason":"shard failure"}}`},
		},
		{
			name:      "index not found",
			transport: &fakeTransport{status: http.StatusNotFound, response: `{"error":{"type":"index_not_found_exception"}}`},
		},
		{
			name:      "undecodable response",
			transport: &fakeTransport{response: `{"hits": [broken`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logged bytes.Buffer
			f := newTestFetcher(t, tt.transport, &logged)

			logs, ok := f.FetchLogs(context.Background(), "wf-7", "fluentbit-workflow_log", MatchField("kubernetes.labels.loom-run-batch-workflow-uuid.keyword"))
			if ok {
				t.Error("expected logs to be unavailable")
			}
			if logs != "" {
				t.Errorf("expected empty string, got %q", logs)
			}
			if !strings.Contains(logged.String(), "wf-7") {
				t.Errorf("failure log missing identifier, log output: %s", logged.String())
			}
		})
	}
}

func TestFetchJobLogs(t *testing.T) {
	ft := &fakeTransport{response: `{"hits":{"hits":[{"_source":{"log":"job output"}}]}}`}
	f := newTestFetcher(t, ft, nil)

	logs, ok := f.FetchJobLogs(context.Background(), "batch-job-abc123")
	if !ok {
		t.Fatal("expected logs to be available")
	}
	if logs != "job output\n" {
		t.Errorf("logs = %q, want %q", logs, "job output\n")
	}

	if ft.requests[0].URL.Path != "/fluentbit-job_log/_search" {
		t.Errorf("path = %q", ft.requests[0].URL.Path)
	}

	body := recordedBody(t, ft, 0)
	want := map[string]interface{}{
		"match": map[string]interface{}{
			"kubernetes.labels.job-name.keyword": "batch-job-abc123",
		},
	}
	if !reflect.DeepEqual(body["query"], want) {
		t.Errorf("query = %v, want %v", body["query"], want)
	}
}

func TestFetchWorkflowLogs(t *testing.T) {
	ft := &fakeTransport{response: emptyResponse}
	f := newTestFetcher(t, ft, nil)

	if _, ok := f.FetchWorkflowLogs(context.Background(), "b0cfdc65-9c29-4b8f-8b76-bb9b1e77a4b2"); !ok {
		t.Fatal("expected logs to be available")
	}

	if ft.requests[0].URL.Path != "/fluentbit-workflow_log/_search" {
		t.Errorf("path = %q", ft.requests[0].URL.Path)
	}

	body := recordedBody(t, ft, 0)
	want := map[string]interface{}{
		"match": map[string]interface{}{
			"kubernetes.labels.loom-run-batch-workflow-uuid.keyword": "b0cfdc65-9c29-4b8f-8b76-bb9b1e77a4b2",
		},
	}
	if !reflect.DeepEqual(body["query"], want) {
		t.Errorf("query = %v, want %v", body["query"], want)
	}
}

func TestFetchDaskComponentLogs(t *testing.T) {
	const workflowID = "b0cfdc65-9c29-4b8f-8b76-bb9b1e77a4b2"

	daskQuery := func(component string) map[string]interface{} {
		return map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{
							"kubernetes.labels.dask.org/cluster-name.keyword": "loom-run-dask-" + workflowID,
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"kubernetes.labels.dask.org/component": component,
						},
					},
				},
			},
		}
	}

	t.Run("scheduler", func(t *testing.T) {
		ft := &fakeTransport{response: emptyResponse}
		f := newTestFetcher(t, ft, nil)

		if _, ok := f.FetchDaskSchedulerLogs(context.Background(), workflowID); !ok {
			t.Fatal("expected logs to be available")
		}
		if ft.requests[0].URL.Path != "/fluentbit-dask_log/_search" {
			t.Errorf("path = %q", ft.requests[0].URL.Path)
		}
		body := recordedBody(t, ft, 0)
		if !reflect.DeepEqual(body["query"], daskQuery("scheduler")) {
			t.Errorf("query = %v, want %v", body["query"], daskQuery("scheduler"))
		}
	})

	t.Run("worker", func(t *testing.T) {
		ft := &fakeTransport{response: emptyResponse}
		f := newTestFetcher(t, ft, nil)

		if _, ok := f.FetchDaskWorkerLogs(context.Background(), workflowID); !ok {
			t.Fatal("expected logs to be available")
		}
		body := recordedBody(t, ft, 0)
		if !reflect.DeepEqual(body["query"], daskQuery("worker")) {
			t.Errorf("query = %v, want %v", body["query"], daskQuery("worker"))
		}
	})
}

func TestFetchLogsDescOrder(t *testing.T) {
	ft := &fakeTransport{response: emptyResponse}

	settings := config.Defaults().Fetcher
	settings.Order = config.OrderDesc
	f := NewFetcherWithLogger(newTestClient(t, ft), settings, zerolog.New(io.Discard))

	if _, ok := f.FetchJobLogs(context.Background(), "job-9"); !ok {
		t.Fatal("expected logs to be available")
	}

	body := recordedBody(t, ft, 0)
	want := []interface{}{
		map[string]interface{}{
			"@timestamp": map[string]interface{}{"order": "desc"},
		},
	}
	if !reflect.DeepEqual(body["sort"], want) {
		t.Errorf("sort = %v, want %v", body["sort"], want)
	}
}

func TestBuildLogFetcher(t *testing.T) {
	t.Run("disabled returns nothing", func(t *testing.T) {
		f, err := BuildLogFetcher(config.Defaults())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f != nil {
			t.Error("expected no fetcher when disabled")
		}
	})

	t.Run("enabled builds a fetcher", func(t *testing.T) {
		s := config.Defaults()
		s.Enabled = true

		f, err := BuildLogFetcher(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f == nil {
			t.Fatal("expected a fetcher")
		}
		if f.Client() == nil {
			t.Error("fetcher missing client handle")
		}
	})

	t.Run("unreadable CA cert surfaces at build time", func(t *testing.T) {
		s := config.Defaults()
		s.Enabled = true
		s.CACertPath = "/nonexistent/ca.crt"

		if _, err := BuildLogFetcher(s); err == nil {
			t.Error("expected error for unreadable CA certificate")
		}
	})
}
