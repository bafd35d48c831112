// Package sanitizer cleans the rich-text HTML stored in element content.
package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer strips script, event handlers and unsafe URLs from element
// HTML while keeping the formatting the editors produce.
//
// Safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// New creates a sanitizer with the user generated content policy
func New() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	// Sticky notes and text boxes carry their colour inline
	policy.AllowAttrs("style").OnElements("span", "p", "div")
	policy.AllowStyles("color", "background-color", "text-align", "font-weight").Globally()
	policy.AllowDataURIImages()

	return &HTMLSanitizer{
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

// Sanitize returns html with unsafe markup removed
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}

// Text drops every tag and returns the plain text of html
func (s *HTMLSanitizer) Text(markup string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(markup)))
}

// Content returns a copy of an element content map with its "html" entry
// sanitized. Other keys are copied unchanged.
func (s *HTMLSanitizer) Content(content map[string]interface{}, key string) map[string]interface{} {
	if content == nil {
		return nil
	}
	raw, ok := content[key].(string)
	if !ok {
		return content
	}
	out := make(map[string]interface{}, len(content))
	for k, v := range content {
		out[k] = v
	}
	out[key] = s.Sanitize(raw)
	return out
}
