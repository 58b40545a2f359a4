// Package sanitize cleans user-authored content before it enters or
// leaves the process: HTML from ticket articles is stripped of
// script-capable markup, and free-text query parameters are screened
// for control characters before being placed into a request.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLSanitizer applies the article-body policy. Article content
// originates from end users of the ticketing system, so every body
// passes through here on parse; there is no trusted bypass.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer builds a sanitizer that keeps common formatting but
// removes anything script-capable.
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.NewPolicy()

	// Basic formatting
	p.AllowElements("b", "strong", "i", "em", "u", "s", "strike", "del")

	// Headings
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")

	// Paragraphs and breaks
	p.AllowElements("p", "br", "hr", "div", "span")

	// Lists
	p.AllowElements("ul", "ol", "li")

	// Quotes and code
	p.AllowElements("blockquote", "code", "pre")

	// Tables
	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	// Inline images, common in email-sourced articles
	p.AllowElements("img")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")

	// Links
	p.AllowElements("a")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &HTMLSanitizer{policy: p}
}

// Sanitize removes script-capable tags and attributes. Idempotent:
// sanitizing already-clean content returns it unchanged.
func (s *HTMLSanitizer) Sanitize(content string) string {
	return s.policy.Sanitize(content)
}

// StripHTML removes all markup and returns plain text.
func StripHTML(content string) string {
	return bluemonday.StrictPolicy().Sanitize(content)
}

// IsHTML checks whether content appears to contain HTML markup.
func IsHTML(content string) bool {
	htmlTags := []string{"<p>", "<br>", "<br/>", "<br />", "<div", "<span", "<b>", "<i>", "<strong>", "<em>", "<h1>", "<h2>", "<h3>", "<ul>", "<ol>", "<li>", "<table", "<a ", "<blockquote>", "<img "}

	contentLower := strings.ToLower(content)
	for _, tag := range htmlTags {
		if strings.Contains(contentLower, tag) {
			return true
		}
	}
	return false
}

// IsMarkdown checks whether content appears to be markdown rather than
// plain text or HTML.
func IsMarkdown(content string) bool {
	markdownPatterns := []string{"**", "__", "```", "# ", "## ", "### ", "- ", "* ", "1. ", "](", "> "}

	markdownCount := 0
	for _, pattern := range markdownPatterns {
		if strings.Contains(content, pattern) {
			markdownCount++
		}
	}
	return markdownCount >= 2
}

// MarkdownToHTML renders markdown to HTML. The output still goes
// through Sanitize before leaving the process, so raw HTML embedded in
// the markdown is permitted here.
func MarkdownToHTML(markdown string) string {
	md := goldmark.New(
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var buf strings.Builder
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return markdown
	}
	return buf.String()
}
