package oembed

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	embedPolicyOnce sync.Once
	embedPolicy     *bluemonday.Policy
)

// Sanitize strips provider markup down to what an embed needs.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(embedSanitizer().Sanitize(trimmed))
}

func embedSanitizer() *bluemonday.Policy {
	embedPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("iframe", "video", "audio", "source")
		policy.AllowAttrs(
			"src", "width", "height", "title", "frameborder", "allow",
			"allowfullscreen", "loading", "referrerpolicy",
		).OnElements("iframe")
		policy.AllowAttrs("src", "width", "height", "controls", "poster").OnElements("video")
		policy.AllowAttrs("src", "controls").OnElements("audio")
		policy.AllowAttrs("src", "type").OnElements("source")
		policy.AllowURLSchemes("https", "http")
		embedPolicy = policy
	})
	return embedPolicy
}
