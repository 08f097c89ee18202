package render

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/render/template"
	"github.com/goliatone/go-repeater/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embedded embed.FS

// Templates returns the built-in template set.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures the HTML renderer.
type Option func(*HTMLRenderer)

// WithTemplateDir overrides built-in templates with files from dir.
func WithTemplateDir(dir string) Option {
	return func(r *HTMLRenderer) { r.dir = strings.TrimSpace(dir) }
}

// WithEngine replaces the template engine entirely.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *HTMLRenderer) { r.engine = engine }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *HTMLRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// HTMLRenderer renders collections as form markup through pongo2 templates.
type HTMLRenderer struct {
	engine template.TemplateRenderer
	dir    string
	logger *zap.Logger
}

var _ Renderer = (*HTMLRenderer)(nil)

// NewHTML builds an HTML renderer over the built-in templates.
func NewHTML(options ...Option) (*HTMLRenderer, error) {
	r := &HTMLRenderer{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		opts := []gotemplate.Option{gotemplate.WithFS(Templates())}
		if r.dir != "" {
			opts = append(opts, gotemplate.WithBaseDir(r.dir))
		}
		engine, err := gotemplate.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("render: build template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

func (r *HTMLRenderer) Name() string        { return "html" }
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(ctx context.Context, doc *collection.Document, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("render: document is nil")
	}
	views, err := BuildViews(doc, options.Collections)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = strings.ToLower(http.MethodPost)
	}
	out, err := r.engine.RenderTemplate("page", map[string]any{
		"collections": views,
		"action":      options.Action,
		"method":      method,
		"hidden":      normalizeHidden(options.Hidden),
		"theme":       themeView(options.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.logger.Debug("rendered collections", zap.Int("collections", len(views)), zap.Int("bytes", len(out)))
	return []byte(out), nil
}
