package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/render"
	"github.com/goliatone/go-repeater/pkg/schema"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the definition loader.
func WithLoader(loader *schema.Loader) Option {
	return func(o *Orchestrator) { o.loader = loader }
}

// WithAdapters injects the format adapter registry.
func WithAdapters(adapters *schema.Registry) Option {
	return func(o *Orchestrator) { o.adapters = adapters }
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) { o.registry = registry }
}

// WithDefaultRenderer overrides the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) { o.defaultRenderer = name }
}

// WithDecorators registers decorators applied to every loaded definition.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithDocumentOptions forwards options to every document the orchestrator
// builds, typically collaborators such as the status renderer.
func WithDocumentOptions(options ...collection.Option) Option {
	return func(o *Orchestrator) {
		o.docOptions = append(o.docOptions, options...)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs definitions → document → renderer. Missing dependencies
// are filled with the built-in implementations.
type Orchestrator struct {
	loader          *schema.Loader
	adapters        *schema.Registry
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	docOptions      []collection.Option
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	o.applyDefaults()
	return o
}

// Request describes one generation.
type Request struct {
	// Source is where definitions are read from. Optional when Definitions is
	// set.
	Source schema.Source
	// Definitions bypasses the loader.
	Definitions []model.Definition
	// Values prefill active rows, keyed by collection id.
	Values map[string][]map[string]model.Value
	// Renderer names the output; empty uses the default renderer.
	Renderer      string
	RenderOptions render.RenderOptions
}

// Build resolves definitions and returns a populated document.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*collection.Document, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}

	defs, err := o.definitions(ctx, req)
	if err != nil {
		return nil, err
	}

	doc := collection.New(append([]collection.Option{collection.WithLogger(o.logger)}, o.docOptions...)...)
	for _, def := range defs {
		if _, err := doc.Register(def, o.decorators...); err != nil {
			return nil, fmt.Errorf("orchestrator: register %q: %w", def.ID, err)
		}
	}
	for _, def := range defs {
		rows, ok := req.Values[def.ID]
		if !ok {
			continue
		}
		if err := doc.Load(def.ID, rows); err != nil {
			return nil, fmt.Errorf("orchestrator: load values: %w", err)
		}
	}
	for id := range req.Values {
		if _, ok := doc.Collection(id); !ok {
			return nil, fmt.Errorf("orchestrator: values for %w %q", collection.ErrUnknownCollection, id)
		}
	}
	return doc, nil
}

// Generate builds the document and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	doc, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(ctx, doc, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return out, nil
}

// Renderer resolves a renderer by name, falling back to the default.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) definitions(ctx context.Context, req Request) ([]model.Definition, error) {
	if len(req.Definitions) > 0 {
		return req.Definitions, nil
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: source or definitions are required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load definitions: %w", err)
	}
	defs, err := o.adapters.Definitions(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: decode definitions: %w", err)
	}
	o.logger.Debug("definitions loaded",
		zap.String("source", req.Source.Location()),
		zap.Int("collections", len(defs)),
	)
	return defs, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = schema.NewLoader()
	}
	if o.adapters == nil {
		o.adapters = schema.DefaultRegistry()
	}
	if o.registry == nil {
		html, err := render.NewHTML(render.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry, err = render.NewRegistry(html, render.JSONRenderer{Indent: "  "})
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: renderer registry: %w", err)
		}
	}
}
