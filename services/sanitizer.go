package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses bounds how many layers of entity encoding are peeled off
const maxSanitizePasses = 4

// Sanitizer strips markup from user supplied text. Fields are stored and
// returned as plain text, so entities escaped by the policy are decoded
// again, and the decoded text is sanitized once more until it is stable.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) Text(input string) string {
	text := input
	for i := 0; i < maxSanitizePasses; i++ {
		decoded := html.UnescapeString(s.policy.Sanitize(text))
		if decoded == text {
			return strings.TrimSpace(decoded)
		}
		text = decoded
	}
	// Still changing: keep the escaped form rather than risk live markup.
	return strings.TrimSpace(s.policy.Sanitize(text))
}
