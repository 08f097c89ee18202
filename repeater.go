// Package repeater exposes the common entry points of the module: loading
// collection definitions, building an editable document and rendering it.
package repeater

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/orchestrator"
	"github.com/goliatone/go-repeater/pkg/render"
	"github.com/goliatone/go-repeater/pkg/schema"
)

// Definition aliases model.Definition.
type Definition = model.Definition

// Document aliases collection.Document.
type Document = collection.Document

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewDocument returns an empty document.
func NewDocument(options ...collection.Option) *collection.Document {
	return collection.New(options...)
}

// LoadDefinitions reads and decodes collection definitions from src.
func LoadDefinitions(ctx context.Context, src schema.Source, options ...schema.LoaderOption) ([]model.Definition, error) {
	return schema.Load(ctx, schema.NewLoader(options...), src)
}

// GenerateHTML loads definitions from src and renders them with the named
// renderer ("html" when empty).
func GenerateHTML(ctx context.Context, src schema.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   src,
		Renderer: rendererName,
	})
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// and override them.
func EmbeddedTemplates() fs.FS {
	return render.Templates()
}
