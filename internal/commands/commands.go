// Package commands implements the repeater command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-repeater/pkg/orchestrator"
	"github.com/goliatone/go-repeater/pkg/render"
	"github.com/goliatone/go-repeater/pkg/schema"
)

// app carries state shared by subcommands once the root pre-run resolved
// the configuration.
type app struct {
	v      *viper.Viper
	cfg    Config
	logger *zap.Logger
	flush  func()
	out    io.Writer
}

// flagKeys maps flag names to configuration keys. Flags are bound for the
// command being executed only, since several subcommands declare the same
// flag.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"log-file":       "log.file",
	"templates":      "templates",
	"http":           "http",
	"timeout":        "timeout",
	"action":         "action",
	"theme":          "theme.name",
	"variant":        "theme.variant",
	"object-id":      "object.id",
	"object-type":    "object.type",
	"preview-url":    "preview.url",
	"preview-action": "preview.action",
	"width":          "preview.width",
	"addr":           "serve.addr",
}

// New returns the root command.
func New() *cobra.Command {
	a := &app{v: newViper(), logger: zap.NewNop(), flush: func() {}, out: os.Stdout}

	cmd := &cobra.Command{
		Use:           "repeater",
		Short:         "Render, edit and serve repeatable field collections.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			for name, key := range flagKeys {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := a.v.BindPFlag(key, f); err != nil {
						return err
					}
				}
			}
			cfg, err := readConfig(a.v)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			logger, flush, err := cfg.logger()
			if err != nil {
				return err
			}
			a.cfg, a.logger, a.flush = cfg, logger, flush
			a.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.flush()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "Log level: debug, info, warn or error.")
	flags.String("log-format", "console", "Log encoding: console or json.")
	flags.String("log-file", "", "Write logs to a rotated file instead of stderr.")
	flags.String("templates", "", "Directory overriding the built-in templates.")
	flags.Bool("http", false, "Allow http(s) definition sources.")
	flags.Duration("timeout", 15*time.Second, "Timeout for remote sources and preview requests.")

	addRender(cmd, a)
	addEdit(cmd, a)
	addServe(cmd, a)
	addPreview(cmd, a)
	return cmd
}

func (a *app) source(raw string) (schema.Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("a definition source is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if !a.cfg.HTTPSource {
			return nil, schema.ErrHTTPDisabled
		}
		return schema.SourceFromURL(raw)
	}
	return schema.SourceFromFile(raw), nil
}

func (a *app) loader() *schema.Loader {
	opts := []schema.LoaderOption{schema.WithRequestTimeout(a.cfg.Timeout)}
	if a.cfg.HTTPSource {
		opts = append(opts, schema.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}))
	}
	return schema.NewLoader(opts...)
}

func (a *app) orchestrator(extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	html, err := render.NewHTML(render.WithTemplateDir(a.cfg.Templates), render.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	registry, err := render.NewRegistry(html, render.JSONRenderer{Indent: "  "})
	if err != nil {
		return nil, err
	}
	opts := []orchestrator.Option{
		orchestrator.WithLoader(a.loader()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	}
	return orchestrator.New(append(opts, extra...)...), nil
}

func (a *app) theme() *theme.RendererConfig {
	if a.cfg.ThemeName == "" && a.cfg.ThemeVariant == "" {
		return nil
	}
	return &theme.RendererConfig{Theme: a.cfg.ThemeName, Variant: a.cfg.ThemeVariant}
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
