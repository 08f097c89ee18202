package schema

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-repeater/pkg/model"
)

// FormatAdapter turns a document into collection definitions.
type FormatAdapter interface {
	Name() string
	Detect(doc Document) bool
	Definitions(ctx context.Context, doc Document) ([]model.Definition, error)
}

// Registry holds adapters in registration order. Detection runs in that
// order, so more specific adapters are registered first.
type Registry struct {
	mu       sync.RWMutex
	adapters []FormatAdapter
}

// NewRegistry returns a registry with the given adapters.
func NewRegistry(adapters ...FormatAdapter) *Registry {
	r := &Registry{}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// DefaultRegistry returns a registry with the OpenAPI adapter followed by
// the plain definition file adapter.
func DefaultRegistry() *Registry {
	return NewRegistry(NewOpenAPIAdapter(), DefinitionsAdapter{})
}

// Register appends an adapter. An adapter with the same name is replaced in
// place.
func (r *Registry) Register(a FormatAdapter) {
	if r == nil || a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.adapters {
		if existing.Name() == a.Name() {
			r.adapters[i] = a
			return
		}
	}
	r.adapters = append(r.adapters, a)
}

// Adapter returns an adapter by name.
func (r *Registry) Adapter(name string) (FormatAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.adapters {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Definitions decodes doc with the first adapter that detects it and
// normalizes the result.
func (r *Registry) Definitions(ctx context.Context, doc Document, decorators ...model.Decorator) ([]model.Definition, error) {
	r.mu.RLock()
	adapters := append([]FormatAdapter(nil), r.adapters...)
	r.mu.RUnlock()

	for _, a := range adapters {
		if !a.Detect(doc) {
			continue
		}
		defs, err := a.Definitions(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("schema: %s adapter: %w", a.Name(), err)
		}
		if len(defs) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoCollections, doc.Location())
		}
		chain := append([]model.Decorator{Normalize()}, decorators...)
		for i := range defs {
			if err := model.Decorate(&defs[i], chain...); err != nil {
				return nil, fmt.Errorf("schema: normalize %q: %w", defs[i].ID, err)
			}
		}
		return defs, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, doc.Location())
}

// Load reads src with loader and decodes it with the default registry.
func Load(ctx context.Context, loader *Loader, src Source, decorators ...model.Decorator) ([]model.Definition, error) {
	if loader == nil {
		loader = NewLoader()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return DefaultRegistry().Definitions(ctx, doc, decorators...)
}
