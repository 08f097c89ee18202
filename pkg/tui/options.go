package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/preview"
)

// OutputFormat controls how the edited document is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the document snapshot.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits the form submission.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "name = value" line per submitted key.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Session.
type Option func(*Session)

func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.format = format
		}
	}
}

func WithTheme(theme Theme) Option {
	return func(s *Session) { s.theme = theme }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPreview runs a preview fetcher over the edited document. Editing a
// preview-enabled field schedules a fetch and the returned markup is
// printed. fns are applied after the session defaults (a short quiet
// period and the embed minimum length).
func WithPreview(transport preview.Transport, width int, fns ...preview.OptionFn) Option {
	return func(s *Session) {
		s.previewer = transport
		s.previewWidth = width
		s.previewOpts = fns
	}
}
