package render

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// SanitizeMarkup cleans media status and preview markup before it is emitted
// unescaped.
func SanitizeMarkup(raw string) string {
	if raw == "" {
		return ""
	}
	return markupSanitizer().Sanitize(raw)
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowDataAttributes()
		policy.AllowAttrs("rel").OnElements("a")
		markupPolicy = policy
	})
	return markupPolicy
}
