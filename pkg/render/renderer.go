package render

import (
	"context"

	"github.com/goliatone/go-repeater/pkg/collection"
)

// Renderer converts the collections of a document into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc *collection.Document, options RenderOptions) ([]byte, error)
}
