package preview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repeater/pkg/collection"
	"github.com/goliatone/go-repeater/pkg/model"
)

// gatedTransport blocks each fetch until its value's gate is released.
type gatedTransport struct {
	started chan string
	gates   map[string]chan string
}

func (t *gatedTransport) Fetch(ctx context.Context, req Request) (string, error) {
	gate := t.gates[req.Value]
	t.started <- req.Value
	select {
	case markup := <-gate:
		return markup, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestFetcherOverlappingResponsesLastArrivalWins(t *testing.T) {
	const (
		first  = "https://video.test/first"
		second = "https://video.test/second"
	)
	surface := newFakeSurface()
	transport := &gatedTransport{
		started: make(chan string, 2),
		gates:   map[string]chan string{first: make(chan string), second: make(chan string)},
	}
	f, clock := newTestFetcher(t, transport, surface)

	advance := func(wg *sync.WaitGroup) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(DefaultQuietPeriod)
		}()
	}

	var firstDone, secondDone sync.WaitGroup
	surface.set("embed_0", first)
	f.Schedule("embed_0", first)
	advance(&firstDone)
	if got := <-transport.started; got != first {
		t.Fatalf("expected %q in flight, got %q", first, got)
	}

	surface.set("embed_0", second)
	f.Schedule("embed_0", second)
	advance(&secondDone)
	if got := <-transport.started; got != second {
		t.Fatalf("expected %q in flight, got %q", second, got)
	}
	if got := f.State("embed_0"); got != StateInFlight {
		t.Fatalf("expected in-flight, got %s", got)
	}

	transport.gates[second] <- "<p>second</p>"
	secondDone.Wait()
	transport.gates[first] <- "<p>first</p>"
	firstDone.Wait()

	surface.mu.Lock()
	defer surface.mu.Unlock()
	if surface.previews["embed_0"] != "<p>first</p>" {
		t.Fatalf("expected the later response to be displayed, got %q", surface.previews["embed_0"])
	}
	want := []string{
		"show:embed_0", "clear:embed_0",
		"show:embed_0", "clear:embed_0",
		"render:embed_0", "hide:embed_0",
		"render:embed_0", "hide:embed_0",
	}
	if diff := cmp.Diff(want, surface.calls); diff != "" {
		t.Fatalf("surface calls mismatch (-want +got):\n%s", diff)
	}
	if got := f.State("embed_0"); got != StateIdle {
		t.Fatalf("expected idle, got %s", got)
	}
}

func newMediaDocument(t *testing.T, values ...string) *collection.Document {
	t.Helper()
	doc := collection.New()
	_, err := doc.Register(model.Definition{
		ID:          "media",
		Kind:        model.CollectionGrouped,
		InitialRows: len(values),
		Fields:      []model.FieldSchema{{Key: "embed", Kind: model.FieldKindText, Preview: true}},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	for i, v := range values {
		id := model.FieldID(model.CollectionGrouped, "media", "embed", i)
		if err := doc.SetValue(id, model.TextValue(v)); err != nil {
			t.Fatalf("set %s: %v", id, err)
		}
	}
	return doc
}

func TestFetcherDropsFieldOfRemovedRow(t *testing.T) {
	const keep, gone = "https://video.test/keep", "https://video.test/gone"
	doc := newMediaDocument(t, keep, gone)
	surface := NewDocumentSurface(doc, WithSurfaceWidth(640), WithSurfaceContext("9", "post"))
	transport := &fakeTransport{markup: "<iframe></iframe>"}
	f, clock := newTestFetcher(t, transport, surface)

	f.Schedule("media_embed_0", keep)
	f.Schedule("media_embed_1", gone)
	res, err := doc.RemoveRow("media", 1)
	if err != nil || !res.Applied() {
		t.Fatalf("remove row: %v %v", err, res.Skipped)
	}
	clock.Advance(DefaultQuietPeriod)

	want := []Request{{Value: keep, Width: 640, FieldID: "media_embed_0", ObjectID: "9", ObjectType: "post"}}
	if diff := cmp.Diff(want, transport.requests); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
	if markup, ok := surface.Preview("media_embed_0"); !ok || markup != "<iframe></iframe>" {
		t.Fatalf("expected preview for the kept row, got %q", markup)
	}
	if _, ok := surface.Preview("media_embed_1"); ok {
		t.Fatalf("expected no preview for the removed row")
	}
	if surface.Loading("media_embed_0") || surface.Loading("media_embed_1") {
		t.Fatalf("expected no indicator left shown")
	}
}

func TestFetcherDropsValueShiftedUnderReusedID(t *testing.T) {
	const first, second = "https://video.test/first", "https://video.test/second"
	doc := newMediaDocument(t, first, second)
	surface := NewDocumentSurface(doc)
	transport := &fakeTransport{}
	f, clock := newTestFetcher(t, transport, surface)

	f.Schedule("media_embed_0", first)
	if _, err := doc.RemoveRow("media", 0); err != nil {
		t.Fatalf("remove row: %v", err)
	}
	if v, ok := surface.Value("media_embed_0"); !ok || v != second {
		t.Fatalf("expected trailing row reindexed under the id, got %q %v", v, ok)
	}
	clock.Advance(time.Second)

	if len(transport.requests) != 0 {
		t.Fatalf("expected stale request to be dropped, got %v", transport.requests)
	}
}
