package opensearch

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMatcherValid(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		want    bool
	}{
		{
			name:    "zero matcher invalid",
			matcher: Matcher{},
			want:    false,
		},
		{
			name:    "single field",
			matcher: MatchField("kubernetes.labels.job-name.keyword"),
			want:    true,
		},
		{
			name:    "single empty field invalid",
			matcher: MatchField(""),
			want:    false,
		},
		{
			name:    "multi field",
			matcher: MatchAll(map[string]string{"a": "1", "b": "2"}),
			want:    true,
		},
		{
			name:    "multi with no pairs invalid",
			matcher: MatchAll(nil),
			want:    false,
		},
		{
			name:    "multi with empty map invalid",
			matcher: MatchAll(map[string]string{}),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matcher.valid(); got != tt.want {
				t.Errorf("valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("body is not valid JSON: %v\n%s", err, body)
	}
	return m
}

func TestSearchBodySingleMatch(t *testing.T) {
	body, err := searchBody("job-42", MatchField("kubernetes.labels.job-name.keyword"), "asc")
	if err != nil {
		t.Fatalf("searchBody returned error: %v", err)
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

	if got := decodeBody(t, body); !reflect.DeepEqual(got, want) {
		t.Errorf("searchBody = %v, want %v", got, want)
	}
}

func TestSearchBodyMultiMatch(t *testing.T) {
	pairs := map[string]string{
		"kubernetes.labels.dask.org/component":            "scheduler",
		"kubernetes.labels.dask.org/cluster-name.keyword": "loom-run-dask-x",
	}

	body, err := searchBody("ignored", MatchAll(pairs), "desc")
	if err != nil {
		t.Fatalf("searchBody returned error: %v", err)
	}

	want := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{
							"kubernetes.labels.dask.org/cluster-name.keyword": "loom-run-dask-x",
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"kubernetes.labels.dask.org/component": "scheduler",
						},
					},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"@timestamp": map[string]interface{}{"order": "desc"},
			},
		},
	}

	if got := decodeBody(t, body); !reflect.DeepEqual(got, want) {
		t.Errorf("searchBody = %v, want %v", got, want)
	}
}

func TestSearchBodyDeterministic(t *testing.T) {
	pairs := map[string]string{
		"c": "3",
		"a": "1",
		"b": "2",
	}

	first, err := searchBody("", MatchAll(pairs), "asc")
	if err != nil {
		t.Fatalf("searchBody returned error: %v", err)
	}

	// Map iteration order varies run to run; the body must not.
	for i := 0; i < 20; i++ {
		next, err := searchBody("", MatchAll(pairs), "asc")
		if err != nil {
			t.Fatalf("searchBody returned error: %v", err)
		}
		if string(next) != string(first) {
			t.Fatalf("searchBody not deterministic:\n%s\nvs\n%s", first, next)
		}
	}
}
