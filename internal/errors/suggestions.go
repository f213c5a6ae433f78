// Package errors provides enhanced error messages with suggestions.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestiveError is an error that includes suggestions for fixing the problem.
type SuggestiveError struct {
	Message     string
	Suggestions []string
	HelpCommand string
}

func (e *SuggestiveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nTry one of these:\n")
		for _, s := range e.Suggestions {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	if e.HelpCommand != "" {
		b.WriteString("\nRun '")
		b.WriteString(e.HelpCommand)
		b.WriteString("' for more information.")
	}

	return b.String()
}

// DisabledError reports that log retrieval is switched off.
func DisabledError() error {
	return &SuggestiveError{
		Message: "log retrieval is disabled",
		Suggestions: []string{
			"Set enabled: true in ~/.spool/config.yaml",
			"Set SPOOL_ENABLED=true for a one-off run",
			"Run 'spool init' to write a starter config",
		},
	}
}

// ConnectionError wraps a failed engine call with hints matched to the
// failure mode.
func ConnectionError(address string, err error) error {
	suggestions := []string{}
	text := strings.ToLower(err.Error())

	switch {
	case strings.Contains(text, "connection refused"), strings.Contains(text, "no such host"):
		suggestions = []string{
			"Check the host and port settings in ~/.spool/config.yaml",
			"Check that the engine is up: curl " + address,
		}
	case strings.Contains(text, "certificate"), strings.Contains(text, "x509"):
		suggestions = []string{
			"Point ca_cert at the authority that signed the engine certificate",
			"Check whether tls should be enabled for this endpoint",
		}
	case strings.Contains(text, "401"), strings.Contains(text, "unauthorized"),
		strings.Contains(text, "403"), strings.Contains(text, "forbidden"):
		suggestions = []string{
			"Check the username and password settings",
			"For Amazon OpenSearch Service domains, set aws_signing: true",
		}
	case strings.Contains(text, "deadline exceeded"), strings.Contains(text, "timeout"):
		suggestions = []string{
			"Raise the timeout setting",
			"Check network reachability of " + address,
		}
	}

	return &SuggestiveError{
		Message:     fmt.Sprintf("cannot reach the log engine at %s: %v", address, err),
		Suggestions: suggestions,
	}
}

// UnavailableError reports a fetch whose query never completed. The
// underlying failure has already been logged by the fetcher.
func UnavailableError(id string) error {
	return &SuggestiveError{
		Message: fmt.Sprintf("logs for %s are unavailable", id),
		Suggestions: []string{
			"Run 'spool health' to check engine reachability",
			"Re-run with --verbose to see the failing request",
		},
	}
}

// UnknownIndexError reports an index the engine does not have, suggesting
// close matches among the configured log indices.
func UnknownIndexError(name string, configured []string) error {
	return &SuggestiveError{
		Message:     fmt.Sprintf("no such index %q", name),
		Suggestions: findSimilar(name, configured, 5),
		HelpCommand: "spool indices",
	}
}

// UnknownFormatError reports an output format spool does not have.
func UnknownFormatError(format string, available []string) error {
	return &SuggestiveError{
		Message:     fmt.Sprintf("unknown output format %q", format),
		Suggestions: findSimilar(format, available, 3),
	}
}

// MatcherRequiredError reports a raw fetch invoked without exactly one
// matcher shape.
func MatcherRequiredError() error {
	return &SuggestiveError{
		Message: "exactly one of --match-field or --match is required",
		Suggestions: []string{
			"spool fetch job-42 --index fluentbit-job_log --match-field kubernetes.labels.job-name.keyword",
			"spool fetch wf-1 --index fluentbit-dask_log --match kubernetes.labels.dask.org/component=worker",
		},
	}
}

// findSimilar finds strings similar to target using Levenshtein distance.
func findSimilar(target string, candidates []string, maxDistance int) []string {
	type match struct {
		value    string
		distance int
	}

	var matches []match
	targetLower := strings.ToLower(target)

	for _, c := range candidates {
		cLower := strings.ToLower(c)
		d := levenshtein(targetLower, cLower)
		if d <= maxDistance {
			matches = append(matches, match{value: c, distance: d})
		}
	}

	// Sort by distance (closest first)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	// Return top 3
	var result []string
	for i := 0; i < len(matches) && i < 3; i++ {
		result = append(result, matches[i].value)
	}

	return result
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	// Initialize first column
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}

	// Initialize first row
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
