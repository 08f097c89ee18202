package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-repeater/pkg/collection"
)

// JSONRenderer emits the document snapshot, restricted to the requested
// collections.
type JSONRenderer struct {
	Indent string
}

var _ Renderer = JSONRenderer{}

func (JSONRenderer) Name() string        { return "json" }
func (JSONRenderer) ContentType() string { return "application/json" }

func (j JSONRenderer) Render(ctx context.Context, doc *collection.Document, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("render: document is nil")
	}
	snapshot := doc.Snapshot()
	if len(options.Collections) > 0 {
		filtered := make(map[string]any, len(options.Collections))
		for _, id := range options.Collections {
			rows, ok := snapshot[id]
			if !ok {
				return nil, fmt.Errorf("render: %w: %q", collection.ErrUnknownCollection, id)
			}
			filtered[id] = rows
		}
		return json.MarshalIndent(filtered, "", j.Indent)
	}
	return json.MarshalIndent(snapshot, "", j.Indent)
}
