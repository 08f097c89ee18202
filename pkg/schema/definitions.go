package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-repeater/pkg/model"
)

// definitionFile is the layout of a plain definition document.
type definitionFile struct {
	Collections []model.Definition `json:"collections" yaml:"collections"`
}

// DefinitionsAdapter decodes YAML or JSON files holding a top-level
// "collections" list.
type DefinitionsAdapter struct{}

func (DefinitionsAdapter) Name() string { return "definitions" }

// Detect accepts any document that is not an OpenAPI description.
func (DefinitionsAdapter) Detect(doc Document) bool {
	return !looksLikeOpenAPI(doc.raw)
}

func (DefinitionsAdapter) Definitions(_ context.Context, doc Document) ([]model.Definition, error) {
	var file definitionFile
	switch doc.Format() {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(doc.raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(doc.raw))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	return file.Collections, nil
}

func looksLikeOpenAPI(raw []byte) bool {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("openapi:")) || bytes.Contains(head, []byte(`"openapi"`))
}
