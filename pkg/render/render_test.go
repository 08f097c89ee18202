package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/render"
)

func newDocument(t *testing.T, opts ...collection.Option) *collection.Document {
	t.Helper()
	doc := collection.New(opts...)
	if _, err := doc.Register(model.Definition{
		ID:            "slides",
		Kind:          model.CollectionGrouped,
		TitleTemplate: "Slide {#}",
		Sortable:      true,
		Fields: []model.FieldSchema{
			{Key: "caption", Kind: model.FieldKindText, Label: "Caption"},
			{Key: "layout", Kind: model.FieldKindSelect, Label: "Layout", Default: "wide", Options: []model.Option{{Value: "wide"}, {Value: "narrow", Label: "Narrow"}}},
			{Key: "visible", Kind: model.FieldKindCheckbox, Label: "Visible"},
			{Key: "image", Kind: model.FieldKindFile, Label: "Image"},
		},
	}); err != nil {
		t.Fatalf("register slides: %v", err)
	}
	if _, err := doc.Register(model.Definition{
		ID:   "links",
		Kind: model.CollectionSimple,
		Fields: []model.FieldSchema{
			{Key: "url", Kind: model.FieldKindText, Label: "URL", Preview: true},
		},
	}); err != nil {
		t.Fatalf("register links: %v", err)
	}
	return doc
}

func TestHTMLRendererEmitsIndexedControls(t *testing.T) {
	doc := newDocument(t)
	if _, err := doc.AddRow("slides"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := doc.SetValue("slides_caption_1", model.TextValue(`Tom & "Jerry"`)); err != nil {
		t.Fatalf("set value: %v", err)
	}

	r, err := render.NewHTML()
	if err != nil {
		t.Fatalf("new html: %v", err)
	}
	out, err := r.Render(context.Background(), doc, render.RenderOptions{
		Action: "/save",
		Hidden: render.PreviewContext("n-1", "42", "post"),
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--brand": "#123456"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		`style="--brand: #123456;"`,
		`<form class="repeater-form" action="/save" method="post">`,
		`<input type="hidden" name="nonce" value="n-1">`,
		`<input type="hidden" name="object_id" value="42">`,
		`id="slides_caption_0" name="slides[0][caption]"`,
		`id="slides_caption_1" name="slides[1][caption]" value="Tom &amp; &quot;Jerry&quot;"`,
		`<label for="slides_layout_1">Layout</label>`,
		`<option value="wide" selected>wide</option>`,
		`<option value="narrow">Narrow</option>`,
		`id="slides_image_0_id" name="slides[0][image_id]"`,
		`Slide 2`,
		`id="url_0" name="url[0]"`,
		`data-preview="url_0"`,
		`repeater__row repeater__row--template" data-index="1" hidden`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(html, `name="url[2]"`) {
		t.Fatalf("unexpected third link row")
	}
}

func TestHTMLRendererUnknownCollection(t *testing.T) {
	r, err := render.NewHTML()
	if err != nil {
		t.Fatalf("new html: %v", err)
	}
	_, err = r.Render(context.Background(), newDocument(t), render.RenderOptions{Collections: []string{"missing"}})
	if !errors.Is(err, collection.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestHTMLRendererRemoveControlFollowsFloor(t *testing.T) {
	r, err := render.NewHTML()
	if err != nil {
		t.Fatalf("new html: %v", err)
	}
	out, err := r.Render(context.Background(), newDocument(t), render.RenderOptions{Collections: []string{"slides"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `data-action="remove" data-index="0" disabled`) {
		t.Fatalf("expected disabled remove control at the floor:\n%s", out)
	}
	if strings.Contains(string(out), "<form") {
		t.Fatalf("expected no form without an action")
	}
}

func TestMediaStatusSanitizesAndSelects(t *testing.T) {
	r, err := render.NewHTML()
	if err != nil {
		t.Fatalf("new html: %v", err)
	}
	doc := newDocument(t, collection.WithStatusRenderer(render.NewMediaStatus(r.Engine())))

	err = doc.SelectMedia("slides_image_0", false,
		collection.Attachment{ID: "7", URL: "https://cdn.test/a.pdf", Filename: "a.pdf", Mime: "application/pdf"},
		collection.Attachment{ID: "9", URL: "https://cdn.test/b.png", Title: `<script>x</script>`, Mime: "image/png"},
	)
	if err != nil {
		t.Fatalf("select media: %v", err)
	}
	v, ok := doc.Value("slides_image_0")
	if !ok {
		t.Fatalf("missing field")
	}
	if v.Text != "https://cdn.test/b.png" || v.Ref != "9" {
		t.Fatalf("unexpected value %#v", v)
	}
	if !strings.Contains(v.Markup, `src="https://cdn.test/b.png"`) || strings.Contains(v.Markup, "a.pdf") {
		t.Fatalf("expected only the last attachment, got %q", v.Markup)
	}
	if strings.Contains(v.Markup, "<script>") {
		t.Fatalf("markup not sanitized: %q", v.Markup)
	}
	if !strings.Contains(v.Markup, `data-selector="slides_image_0"`) {
		t.Fatalf("expected remove link for single selection, got %q", v.Markup)
	}
}

func TestJSONRendererFiltersCollections(t *testing.T) {
	doc := newDocument(t)
	if err := doc.SetValue("url_0", model.TextValue("https://example.com/v")); err != nil {
		t.Fatalf("set value: %v", err)
	}
	out, err := render.JSONRenderer{}.Render(context.Background(), doc, render.RenderOptions{Collections: []string{"links"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string][]map[string]model.Value
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string][]map[string]model.Value{
		"links": {{"url": {Text: "https://example.com/v"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryDefaultsToFirstRenderer(t *testing.T) {
	html, err := render.NewHTML()
	if err != nil {
		t.Fatalf("new html: %v", err)
	}
	reg, err := render.NewRegistry(html, render.JSONRenderer{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	got, err := reg.Get("")
	if err != nil || got.Name() != "html" {
		t.Fatalf("expected html default, got %v %v", got, err)
	}
	if err := reg.Register(render.JSONRenderer{}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if diff := cmp.Diff([]string{"html", "json"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
