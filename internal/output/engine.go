package output

import (
	"encoding/json"
	"strconv"

	"github.com/loomops/spool/internal/opensearch"
	"github.com/loomops/spool/internal/ui"
)

// FormatHealth outputs the engine identity and cluster health summary.
func (f *Formatter) FormatHealth(info opensearch.ClusterInfo, health opensearch.ClusterHealth) error {
	if f.format == FormatJSON {
		return f.formatHealthJSON(info, health)
	}
	return f.formatHealthText(info, health)
}

// formatHealthText outputs the health summary in human-readable form.
func (f *Formatter) formatHealthText(info opensearch.ClusterInfo, health opensearch.ClusterHealth) error {
	f.renderer.Section("Engine")
	f.renderer.KeyValue("Cluster", info.ClusterName)
	f.renderer.KeyValue("Node", info.NodeName)
	if info.Distribution != "" {
		f.renderer.KeyValue("Distribution", info.Distribution)
	}
	f.renderer.KeyValue("Version", info.Version)

	f.renderer.Section("Health")
	f.renderer.KeyValueStyled("Status", health.Status, ui.HealthStyle(health.Status))
	f.renderer.KeyValue("Nodes", strconv.Itoa(health.NumberOfNodes))
	f.renderer.KeyValue("Active shards", strconv.Itoa(health.ActiveShards))
	f.renderer.KeyValue("Unassigned shards", strconv.Itoa(health.UnassignedShards))
	f.renderer.Newline()
	return nil
}

// formatHealthJSON outputs the health summary as a single object.
func (f *Formatter) formatHealthJSON(info opensearch.ClusterInfo, health opensearch.ClusterHealth) error {
	type jsonHealth struct {
		Cluster             string `json:"cluster"`
		Node                string `json:"node"`
		Distribution        string `json:"distribution,omitempty"`
		Version             string `json:"version"`
		Status              string `json:"status"`
		Nodes               int    `json:"nodes"`
		ActivePrimaryShards int    `json:"active_primary_shards"`
		ActiveShards        int    `json:"active_shards"`
		UnassignedShards    int    `json:"unassigned_shards"`
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonHealth{
		Cluster:             info.ClusterName,
		Node:                info.NodeName,
		Distribution:        info.Distribution,
		Version:             info.Version,
		Status:              health.Status,
		Nodes:               health.NumberOfNodes,
		ActivePrimaryShards: health.ActivePrimaryShards,
		ActiveShards:        health.ActiveShards,
		UnassignedShards:    health.UnassignedShards,
	})
}

// FormatIndices outputs the engine's index listing.
func (f *Formatter) FormatIndices(indices []opensearch.IndexInfo) error {
	if f.format == FormatJSON {
		return f.formatIndicesJSON(indices)
	}
	return f.formatIndicesText(indices)
}

// formatIndicesText outputs the listing as a table.
func (f *Formatter) formatIndicesText(indices []opensearch.IndexInfo) error {
	if len(indices) == 0 {
		f.renderer.NoResults()
		return nil
	}

	headers := []string{"index", "health", "status", "docs", "size"}
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = []string{idx.Index, idx.Health, idx.Status, idx.DocsCount, idx.StoreSize}
	}
	f.renderer.Table(headers, rows)
	return nil
}

// formatIndicesJSON outputs the listing as a JSON array.
func (f *Formatter) formatIndicesJSON(indices []opensearch.IndexInfo) error {
	type jsonIndex struct {
		Index     string `json:"index"`
		Health    string `json:"health"`
		Status    string `json:"status"`
		DocsCount string `json:"docs_count"`
		StoreSize string `json:"store_size"`
	}

	rows := make([]jsonIndex, len(indices))
	for i, idx := range indices {
		rows[i] = jsonIndex{
			Index:     idx.Index,
			Health:    idx.Health,
			Status:    idx.Status,
			DocsCount: idx.DocsCount,
			StoreSize: idx.StoreSize,
		}
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}
