package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
)

// ErrNoSuchIndex reports a listing against an index the engine does not
// have. Match with errors.Is.
var ErrNoSuchIndex = errors.New("no such index")

// ClusterInfo identifies the engine build behind the connection.
type ClusterInfo struct {
	NodeName     string
	ClusterName  string
	Version      string
	Distribution string
}

// ClusterHealth is the engine's own view of cluster state.
type ClusterHealth struct {
	ClusterName         string `json:"cluster_name"`
	Status              string `json:"status"`
	NumberOfNodes       int    `json:"number_of_nodes"`
	ActivePrimaryShards int    `json:"active_primary_shards"`
	ActiveShards        int    `json:"active_shards"`
	UnassignedShards    int    `json:"unassigned_shards"`
}

// IndexInfo is one row of the engine's index listing. Counts and sizes stay
// strings, as the cat API reports them.
type IndexInfo struct {
	Index     string `json:"index"`
	Health    string `json:"health"`
	Status    string `json:"status"`
	DocsCount string `json:"docs.count"`
	StoreSize string `json:"store.size"`
}

// Info fetches the engine identity, proving the connection end to end.
func Info(ctx context.Context, client *opensearchgo.Client) (ClusterInfo, error) {
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return ClusterInfo{}, fmt.Errorf("failed to reach engine: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return ClusterInfo{}, fmt.Errorf("engine info request failed: %s", res.Status())
	}

	var body struct {
		Name        string `json:"name"`
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number       string `json:"number"`
			Distribution string `json:"distribution"`
		} `json:"version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return ClusterInfo{}, fmt.Errorf("failed to decode engine info: %w", err)
	}

	return ClusterInfo{
		NodeName:     body.Name,
		ClusterName:  body.ClusterName,
		Version:      body.Version.Number,
		Distribution: body.Version.Distribution,
	}, nil
}

// Health fetches the engine's cluster health summary.
func Health(ctx context.Context, client *opensearchgo.Client) (ClusterHealth, error) {
	res, err := client.Cluster.Health(client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return ClusterHealth{}, fmt.Errorf("failed to reach engine: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return ClusterHealth{}, fmt.Errorf("cluster health request failed: %s", res.Status())
	}

	var health ClusterHealth
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return ClusterHealth{}, fmt.Errorf("failed to decode cluster health: %w", err)
	}
	return health, nil
}

// ListIndices returns the engine's listing for the named indices. A name
// that matches no index makes the whole call fail, so callers listing
// possibly-missing indices go one name at a time.
func ListIndices(ctx context.Context, client *opensearchgo.Client, names ...string) ([]IndexInfo, error) {
	res, err := client.Cat.Indices(
		client.Cat.Indices.WithContext(ctx),
		client.Cat.Indices.WithIndex(names...),
		client.Cat.Indices.WithFormat("json"),
		client.Cat.Indices.WithH("index", "health", "status", "docs.count", "store.size"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reach engine: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchIndex, strings.Join(names, ", "))
	}
	if res.IsError() {
		return nil, fmt.Errorf("index listing failed: %s", res.Status())
	}

	var indices []IndexInfo
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("failed to decode index listing: %w", err)
	}
	return indices, nil
}
