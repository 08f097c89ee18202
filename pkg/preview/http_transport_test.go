package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestHTTPTransportPostsForm(t *testing.T) {
	var got Request
	var action string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		action, got = DecodeRequest(r.PostForm)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{Success: true, Data: "<iframe src=\"x\"></iframe>"})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, WithHTTPClient(srv.Client()), WithSessionNonce("abc123"))
	markup, err := tr.Fetch(context.Background(), Request{
		Value:      "https://youtu.be/x",
		Width:      480,
		FieldID:    "g_video_2",
		ObjectID:   "9",
		ObjectType: "post",
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if markup != "<iframe src=\"x\"></iframe>" {
		t.Fatalf("unexpected markup %q", markup)
	}
	if action != DefaultAction {
		t.Fatalf("unexpected action %q", action)
	}
	want := Request{Value: "https://youtu.be/x", Width: 480, FieldID: "g_video_2", ObjectID: "9", ObjectType: "post", Nonce: "abc123"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPTransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(Response{Success: false, Data: "no provider"})
			},
			want: ErrRejected,
		},
		{
			name: "status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", http.StatusForbidden)
			},
			want: ErrTransport,
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			want: ErrTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			_, err := NewHTTPTransport(srv.URL, WithHTTPClient(srv.Client())).Fetch(context.Background(), Request{Value: "https://x.test"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestHTTPTransportGeneratesNonce(t *testing.T) {
	tr := NewHTTPTransport("http://127.0.0.1")
	if _, err := uuid.Parse(tr.Nonce()); err != nil {
		t.Fatalf("expected uuid nonce, got %q: %v", tr.Nonce(), err)
	}
}
