package schema_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/schema"
)

const definitionsYAML = `
collections:
  - id: links
    kind: simple
    fields:
      - key: url
        preview: true
  - id: slides
    sortable: true
    fields:
      - key: caption
      - key: layout
        kind: select
        default: wide
        options:
          - value: wide
          - value: narrow
            label: Narrow
`

const openapiYAML = `
openapi: 3.0.3
info:
  title: Page
  version: "1.0"
paths: {}
components:
  schemas:
    Page:
      type: object
      properties:
        tags:
          type: array
          items:
            type: string
        sections:
          type: array
          minItems: 2
          x-repeater:
            titleTemplate: "Section {#}"
            sortable: true
          items:
            type: object
            properties:
              body:
                type: string
                format: html
                x-order: 2
              heading:
                type: string
                x-order: 1
              visible:
                type: boolean
              style:
                type: string
                enum: [plain, boxed]
              published:
                type: string
                format: date
        title:
          type: string
`

func TestLoadDefinitionsFromFS(t *testing.T) {
	files := fstest.MapFS{"forms/page.yaml": {Data: []byte(definitionsYAML)}}
	loader := schema.NewLoader(schema.WithFileSystem(files))

	defs, err := schema.Load(context.Background(), loader, schema.SourceFromFS("/forms/page.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []model.Definition{
		{
			ID:   "links",
			Kind: model.CollectionSimple,
			Fields: []model.FieldSchema{
				{Key: "url", Kind: model.FieldKindText, Label: "Url", Preview: true},
			},
		},
		{
			ID:            "slides",
			Kind:          model.CollectionGrouped,
			TitleTemplate: schema.DefaultTitleTemplate,
			MinRows:       1,
			Sortable:      true,
			Fields: []model.FieldSchema{
				{Key: "caption", Kind: model.FieldKindText, Label: "Caption"},
				{
					Key:     "layout",
					Kind:    model.FieldKindSelect,
					Label:   "Layout",
					Default: "wide",
					Options: []model.Option{{Value: "wide", Label: "wide"}, {Value: "narrow", Label: "Narrow"}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefinitionsJSONRejectsUnknownFields(t *testing.T) {
	files := fstest.MapFS{"bad.json": {Data: []byte(`{"collections":[{"id":"x","bogus":1}]}`)}}
	loader := schema.NewLoader(schema.WithFileSystem(files))
	if _, err := schema.Load(context.Background(), loader, schema.SourceFromFS("bad.json")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestOpenAPIAdapterDerivesCollections(t *testing.T) {
	doc, err := schema.NewDocument(schema.SourceFromFS("page.yaml"), []byte(openapiYAML))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	defs, err := schema.DefaultRegistry().Definitions(context.Background(), doc)
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(defs))
	}

	sections, tags := defs[0], defs[1]
	if sections.ID != "sections" || sections.Kind != model.CollectionGrouped {
		t.Fatalf("unexpected first collection %#v", sections)
	}
	if sections.MinRows != 2 || !sections.Sortable || sections.TitleTemplate != "Section {#}" {
		t.Fatalf("collection metadata not applied: %#v", sections)
	}
	var keys []string
	kinds := map[string]model.FieldKind{}
	for _, f := range sections.Fields {
		keys = append(keys, f.Key)
		kinds[f.Key] = f.Kind
	}
	if diff := cmp.Diff([]string{"heading", "body", "published", "style", "visible"}, keys); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if kinds["body"] != model.FieldKindRichText || kinds["visible"] != model.FieldKindCheckbox || kinds["style"] != model.FieldKindSelect {
		t.Fatalf("unexpected kinds %#v", kinds)
	}
	if sections.Fields[2].Picker != model.PickerDate {
		t.Fatalf("expected date picker on published")
	}

	if tags.ID != "tags" || tags.Kind != model.CollectionSimple || len(tags.Fields) != 1 || tags.Fields[0].Key != "tags" {
		t.Fatalf("unexpected simple collection %#v", tags)
	}
}

func TestRegistryRejectsDocumentWithoutCollections(t *testing.T) {
	doc, err := schema.NewDocument(schema.SourceFromFS("empty.yaml"), []byte("collections: []\n"))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	_, err = schema.DefaultRegistry().Definitions(context.Background(), doc)
	if !errors.Is(err, schema.ErrNoCollections) {
		t.Fatalf("expected ErrNoCollections, got %v", err)
	}
}

func TestNewDocumentFormat(t *testing.T) {
	tests := []struct {
		name string
		src  schema.Source
		raw  string
		want schema.Format
	}{
		{"json extension", schema.SourceFromFile("a.json"), "collections: []", schema.FormatJSON},
		{"yaml extension", schema.SourceFromFile("a.yml"), "{}", schema.FormatYAML},
		{"sniffed json", schema.SourceFromFS("a"), `{"collections":[]}`, schema.FormatJSON},
		{"sniffed yaml", schema.SourceFromFS("a"), "collections: []", schema.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := schema.NewDocument(tt.src, []byte(tt.raw))
			if err != nil {
				t.Fatalf("document: %v", err)
			}
			if doc.Format() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, doc.Format())
			}
		})
	}

	if _, err := schema.NewDocument(schema.SourceFromFS("a"), []byte("  \n")); !errors.Is(err, schema.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(definitionsYAML))
	}))
	defer srv.Close()

	src, err := schema.SourceFromURL(srv.URL + "/forms.yaml")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	if _, err := schema.NewLoader().Load(context.Background(), src); !errors.Is(err, schema.ErrHTTPDisabled) {
		t.Fatalf("expected ErrHTTPDisabled, got %v", err)
	}

	loader := schema.NewLoader(schema.WithHTTPClient(srv.Client()))
	defs, err := schema.Load(context.Background(), loader, src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}

	missing, _ := schema.SourceFromURL(srv.URL + "/missing.yaml")
	if _, err := loader.Load(context.Background(), missing); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestSourceFromURLRejectsScheme(t *testing.T) {
	if _, err := schema.SourceFromURL("ftp://example.com/a.yaml"); err == nil {
		t.Fatalf("expected scheme error")
	}
}
