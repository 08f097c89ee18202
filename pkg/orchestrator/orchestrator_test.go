package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/schema"
)

const definitions = `
collections:
  - id: team
    titleTemplate: "Member {#}"
    fields:
      - key: name
      - key: role
        kind: select
        options: [{value: lead}, {value: dev}]
`

func TestGenerateFromFS(t *testing.T) {
	files := fstest.MapFS{"team.yaml": {Data: []byte(definitions)}}
	o := New(WithLoader(schema.NewLoader(schema.WithFileSystem(files))))

	out, err := o.Generate(context.Background(), Request{
		Source: schema.SourceFromFS("team.yaml"),
		Values: map[string][]map[string]model.Value{
			"team": {
				{"name": model.TextValue("Ada"), "role": {Selected: []string{"lead"}}},
				{"name": model.TextValue("Linus")},
			},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`name="team[0][name]" value="Ada"`,
		`name="team[1][name]" value="Linus"`,
		`Member 2`,
		`<option value="lead" selected>lead</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestGenerateJSONRenderer(t *testing.T) {
	o := New()
	out, err := o.Generate(context.Background(), Request{
		Definitions: []model.Definition{{
			ID:     "links",
			Kind:   model.CollectionSimple,
			Fields: []model.FieldSchema{{Key: "url", Kind: model.FieldKindText}},
		}},
		Values:   map[string][]map[string]model.Value{"links": {{"url": model.TextValue("https://a.test")}}},
		Renderer: "json",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `"text": "https://a.test"`) {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestBuildRejectsValuesForUnknownCollection(t *testing.T) {
	o := New()
	_, err := o.Build(context.Background(), Request{
		Definitions: []model.Definition{{
			ID:     "links",
			Kind:   model.CollectionSimple,
			Fields: []model.FieldSchema{{Key: "url", Kind: model.FieldKindText}},
		}},
		Values: map[string][]map[string]model.Value{"other": nil},
	})
	if !errors.Is(err, collection.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestGenerateUnknownRenderer(t *testing.T) {
	o := New()
	_, err := o.Generate(context.Background(), Request{
		Definitions: []model.Definition{{
			ID:     "links",
			Kind:   model.CollectionSimple,
			Fields: []model.FieldSchema{{Key: "url", Kind: model.FieldKindText}},
		}},
		Renderer: "pdf",
	})
	if err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestGenerateRequiresSource(t *testing.T) {
	if _, err := New().Generate(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error without source")
	}
}
