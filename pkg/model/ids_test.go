package model_test

import (
	"testing"

	"github.com/goliatone/go-repeater/pkg/model"
)

func TestFieldIDAndName(t *testing.T) {
	tests := []struct {
		name     string
		kind     model.CollectionKind
		wantID   string
		wantName string
	}{
		{name: "grouped", kind: model.CollectionGrouped, wantID: "links_url_3", wantName: "links[3][url]"},
		{name: "simple", kind: model.CollectionSimple, wantID: "url_3", wantName: "url[3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.FieldID(tt.kind, "links", "url", 3); got != tt.wantID {
				t.Fatalf("FieldID: got %q, want %q", got, tt.wantID)
			}
			if got := model.FieldName(tt.kind, "links", "url", 3); got != tt.wantName {
				t.Fatalf("FieldName: got %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestReindexIDOnlyTouchesTrailingSegment(t *testing.T) {
	if got := model.ReindexID("g_1_key_1", 1, 2); got != "g_1_key_2" {
		t.Fatalf("expected trailing segment rewrite, got %q", got)
	}
	if got := model.ReindexID("g_key_11", 1, 2); got != "g_key_11" {
		t.Fatalf("expected partial numeric match to be ignored, got %q", got)
	}
	if got := model.ReindexID("g_key_11", 11, 10); got != "g_key_10" {
		t.Fatalf("expected two digit rewrite, got %q", got)
	}
}

func TestReindexNameMatchesCompleteSegment(t *testing.T) {
	if got := model.ReindexName("g[12][key]", 1, 0); got != "g[12][key]" {
		t.Fatalf("expected [12] untouched, got %q", got)
	}
	if got := model.ReindexName("g[1][key]", 1, 0); got != "g[0][key]" {
		t.Fatalf("expected [1] rewritten, got %q", got)
	}
}

func TestParseIndex(t *testing.T) {
	cases := map[string]struct {
		want int
		ok   bool
	}{
		"links_url_4": {want: 4, ok: true},
		"url_0":       {want: 0, ok: true},
		"url":         {ok: false},
		"url_":        {ok: false},
		"url_id":      {ok: false},
	}
	for id, tc := range cases {
		got, ok := model.ParseIndex(id)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseIndex(%q) = (%d, %v), want (%d, %v)", id, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGroupTitle(t *testing.T) {
	if got := model.GroupTitle("Entry {#}", 0); got != "Entry 1" {
		t.Fatalf("got %q", got)
	}
	if got := model.GroupTitle("", 4); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestValueCloneDoesNotShareSelection(t *testing.T) {
	v := model.Value{Selected: []string{"a", "b"}}
	c := v.Clone()
	c.Selected[0] = "z"
	if v.Selected[0] != "a" {
		t.Fatalf("clone shares backing array")
	}
	if !v.Equal(model.Value{Selected: []string{"a", "b"}}) {
		t.Fatalf("expected equal values")
	}
}

func TestDecorateStopsAtFirstError(t *testing.T) {
	def := model.Definition{ID: "links"}
	calls := 0
	err := model.Decorate(&def,
		model.DecoratorFunc(func(d *model.Definition) error {
			calls++
			d.Title = "Links"
			return nil
		}),
		nil,
		model.DecoratorFunc(func(*model.Definition) error {
			calls++
			return errTest
		}),
		model.DecoratorFunc(func(*model.Definition) error {
			calls++
			return nil
		}),
	)
	if err != errTest {
		t.Fatalf("expected errTest, got %v", err)
	}
	if calls != 2 || def.Title != "Links" {
		t.Fatalf("unexpected decorator run: calls=%d title=%q", calls, def.Title)
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
