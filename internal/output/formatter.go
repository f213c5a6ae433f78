package output

import (
	"io"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/loomops/spool/internal/errors"
	"github.com/loomops/spool/internal/ui"
)

// Format specifies the output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formats lists the accepted format names, in display order.
var Formats = []string{string(FormatText), string(FormatJSON)}

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON:
		return Format(name), nil
	}
	return "", errors.UnknownFormatError(name, Formats)
}

// Formatter handles output formatting for different formats.
type Formatter struct {
	format    Format
	writer    io.Writer
	highlight *regexp.Regexp
	renderer  *ui.Renderer
}

// NewFormatter creates a new formatter with the specified format.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format:   format,
		writer:   writer,
		renderer: ui.NewRendererWithOptions(ui.WithOutput(writer)),
	}
}

// WithHighlight sets a pattern to highlight in text output.
// The pattern is treated as a case-insensitive regular expression.
func (f *Formatter) WithHighlight(pattern string) *Formatter {
	if pattern != "" {
		re, err := regexp.Compile("(?i)(" + pattern + ")")
		if err != nil {
			log.Warn().Msgf("invalid highlight pattern %q: %v (highlighting disabled)", pattern, err)
		} else {
			f.highlight = re
		}
	}
	return f
}
