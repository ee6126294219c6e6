package search

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

var markupPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// contentCleaner turns result snippets that carry markup into markdown.
// Plain text passes through untouched. Safe for concurrent use.
type contentCleaner struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

func newContentCleaner() *contentCleaner {
	return &contentCleaner{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Clean sanitizes markup first so scripts and event handlers never reach
// the converter. Conversion failures fall back to stripping every tag.
func (c *contentCleaner) Clean(s string) string {
	if !markupPattern.MatchString(s) {
		return strings.TrimSpace(s)
	}

	out, err := c.converter.ConvertString(c.policy.Sanitize(s))
	if err != nil {
		return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(s))
	}
	return strings.TrimSpace(out)
}
