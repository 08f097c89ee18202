package oembed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{got: MountPath("/admin"), want: "/admin/api/oembed"},
		{got: MountPath("admin/"), want: "/admin/api/oembed"},
		{got: MountPath(""), want: "/api/oembed"},
		{got: MountPath("/admin", WithRoutePath("preview/")), want: "/admin/preview"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("unexpected mount path: got %q want %q", tc.got, tc.want)
		}
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, pattern, strings.NewReader("action=other"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected handler to answer 400 for unknown action, got %d", rec.Code)
	}
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
