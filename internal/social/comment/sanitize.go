// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer turns a submitted comment into plain text.
//
// The strict policy drops every element (and the content of script and style
// elements). The escaped result is decoded again because clients render the
// body as text, never as HTML. Safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a [Sanitizer] on [bluemonday.StrictPolicy].
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips markup and surrounding whitespace.
func (sanitizer *Sanitizer) Sanitize(body string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.policy.Sanitize(body)))
}
