package oembed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-repeater/pkg/preview"
)

func stubEmbedder(markup string, err error) (Embedder, *[]int) {
	var widths []int
	return EmbedderFunc(func(_ context.Context, _ string, width int) (string, error) {
		widths = append(widths, width)
		return markup, err
	}), &widths
}

func post(t *testing.T, h http.Handler, req preview.Request) (*http.Response, preview.Response) {
	t.Helper()
	body := preview.EncodeRequest("", req).Encode()
	r := httptest.NewRequest(http.MethodPost, "/api/oembed", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	res := rec.Result()
	var payload preview.Response
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return res, payload
}

func TestHandler_ReturnsSanitizedEmbed(t *testing.T) {
	embedder, widths := stubEmbedder(`<iframe src="https://www.youtube.com/embed/x" width="480"></iframe><script>alert(1)</script>`, nil)
	h := NewHandler(WithEmbedder(embedder), WithStaticNonce("n1"))

	res, payload := post(t, h, preview.Request{Value: "https://youtu.be/x", Width: 120, FieldID: "g_video_0", Nonce: "n1"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if !payload.Success {
		t.Fatalf("expected success, got %#v", payload)
	}
	if strings.Contains(payload.Data, "<script") {
		t.Fatalf("expected script to be stripped: %s", payload.Data)
	}
	if !strings.Contains(payload.Data, `<iframe src="https://www.youtube.com/embed/x"`) {
		t.Fatalf("expected iframe to survive: %s", payload.Data)
	}
	if !strings.Contains(payload.Data, `data-field="g_video_0"`) {
		t.Fatalf("expected remove link bound to the field: %s", payload.Data)
	}
	if len(*widths) != 1 || (*widths)[0] != preview.DefaultMinWidth {
		t.Fatalf("expected width clamped to minimum, got %v", *widths)
	}
}

func TestHandler_EmbedFailureIsReportedInEnvelope(t *testing.T) {
	embedder, _ := stubEmbedder("", ErrNoEmbed)
	h := NewHandler(WithEmbedder(embedder))

	res, payload := post(t, h, preview.Request{Value: "https://example.test/page", Width: 500})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if payload.Success {
		t.Fatalf("expected failure envelope")
	}
	if !strings.Contains(payload.Data, "No embed results found for https://example.test/page.") {
		t.Fatalf("unexpected message %q", payload.Data)
	}
}

func TestHandler_RejectsBadNonceAndAction(t *testing.T) {
	embedder, widths := stubEmbedder("<p>x</p>", nil)
	h := NewHandler(WithEmbedder(embedder), WithStaticNonce("n1"))

	res, payload := post(t, h, preview.Request{Value: "https://youtu.be/x", Nonce: "other"})
	if res.StatusCode != http.StatusForbidden || payload.Success {
		t.Fatalf("expected 403 failure, got %d %#v", res.StatusCode, payload)
	}

	h = NewHandler(WithEmbedder(embedder), WithAction("custom"))
	res, _ = post(t, h, preview.Request{Value: "https://youtu.be/x"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", res.StatusCode)
	}
	if len(*widths) != 0 {
		t.Fatalf("embedder must not run for rejected requests")
	}
}

func TestHandler_MethodAndGuard(t *testing.T) {
	h := NewHandler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/oembed", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected 405 with Allow header, got %d %q", rec.Code, rec.Header().Get("Allow"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/oembed", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected guard status 401, got %d", rec.Code)
	}
}

func TestHandler_WorksWithPreviewTransport(t *testing.T) {
	embedder, _ := stubEmbedder(`<iframe src="https://player.vimeo.com/video/1"></iframe>`, nil)
	mux := http.NewServeMux()
	pattern, err := New(WithEmbedder(embedder), WithStaticNonce("session")).RegisterRoutes(mux, "/admin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tr := preview.NewHTTPTransport(srv.URL+pattern, preview.WithHTTPClient(srv.Client()), preview.WithSessionNonce("session"))
	markup, err := tr.Fetch(context.Background(), preview.Request{Value: "https://vimeo.com/1", Width: 640, FieldID: "video_0"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(markup, "player.vimeo.com") {
		t.Fatalf("unexpected markup %q", markup)
	}

	bad := preview.NewHTTPTransport(srv.URL+pattern, preview.WithHTTPClient(srv.Client()))
	if _, err := bad.Fetch(context.Background(), preview.Request{Value: "https://vimeo.com/1"}); !errors.Is(err, preview.ErrTransport) {
		t.Fatalf("expected transport error for foreign nonce, got %v", err)
	}
}
