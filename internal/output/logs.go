package output

import (
	"encoding/json"
	"io"

	"github.com/loomops/spool/internal/ui"
)

// LogResult is one fetched log blob together with the identifiers that
// located it.
type LogResult struct {
	ID    string `json:"id"`
	Index string `json:"index"`
	Logs  string `json:"logs"`
}

// FormatLogs outputs a fetched log blob in the configured format.
func (f *Formatter) FormatLogs(result LogResult) error {
	if f.format == FormatJSON {
		return f.formatLogsJSON(result)
	}
	return f.formatLogsText(result)
}

// formatLogsText passes the blob through byte for byte so piped output
// stays exactly what the engine stored. An empty blob writes nothing.
// Highlighting, when requested, is the only transformation applied.
func (f *Formatter) formatLogsText(result LogResult) error {
	logs := result.Logs
	if f.highlight != nil {
		logs = f.highlight.ReplaceAllStringFunc(logs, func(match string) string {
			return ui.HighlightStyle.Render(match)
		})
	}
	_, err := io.WriteString(f.writer, logs)
	return err
}

// formatLogsJSON wraps the blob in an envelope naming the id and index it
// was fetched for.
func (f *Formatter) formatLogsJSON(result LogResult) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
