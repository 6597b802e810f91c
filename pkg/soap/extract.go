package soap

import (
	"html"
	"regexp"
	"strings"
	"sync"
)

// The backend's responses are not consistent enough to unmarshal into a
// schema. Elements are found by name instead, ignoring namespace prefixes
// and attributes, and a missing element is an empty result rather than an
// error.

var tagPatterns sync.Map

var cdataPattern = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
var markupPattern = regexp.MustCompile(`(?s)<!--.*?-->|<[^>]*>`)

func tagPattern(tag string) *regexp.Regexp {
	if pattern, ok := tagPatterns.Load(tag); ok {
		return pattern.(*regexp.Regexp)
	}

	pattern := regexp.MustCompile(`<(/?)(?:[A-Za-z_][\w.\-]*:)?` + regexp.QuoteMeta(tag) + `(?:\s[^>]*?)?(/?)>`)
	tagPatterns.Store(tag, pattern)

	return pattern
}

type span struct {
	start int
	end   int

	outerStart int
	outerEnd   int
}

// findElements returns the inner span of up to limit top-level elements
// named tag. A limit below 1 returns all of them.
func findElements(body string, tag string, limit int) []span {
	if body == "" || tag == "" {
		return nil
	}

	var spans []span
	depth := 0
	innerStart := 0
	outerStart := 0

	for _, match := range tagPattern(tag).FindAllStringSubmatchIndex(body, -1) {
		closing := match[3] > match[2]
		selfClosing := match[5] > match[4]

		switch {
		case closing:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, span{innerStart, match[0], outerStart, match[1]})
			}
		case selfClosing:
			if depth == 0 {
				spans = append(spans, span{match[1], match[1], match[0], match[1]})
			}
		default:
			if depth == 0 {
				innerStart = match[1]
				outerStart = match[0]
			}
			depth++
		}

		if limit > 0 && len(spans) >= limit {
			return spans
		}
	}

	// Truncated responses still give up whatever they contain
	if depth > 0 {
		spans = append(spans, span{innerStart, len(body), outerStart, len(body)})
	}

	return spans
}

// ExtractField returns the text of the first element named tag, or an
// empty string when there is none.
func ExtractField(body string, tag string) string {
	spans := findElements(body, tag, 1)
	if len(spans) == 0 {
		return ""
	}

	return Text(body[spans[0].start:spans[0].end])
}

// ExtractAll returns the inner XML of every element named tag in document
// order. Leaf values can be read with Text, nested ones queried again.
func ExtractAll(body string, tag string) []string {
	spans := findElements(body, tag, 0)

	fragments := make([]string, 0, len(spans))
	for _, s := range spans {
		fragments = append(fragments, body[s.start:s.end])
	}

	return fragments
}

// ExtractInner returns the raw inner XML of the first element named tag so
// it can be scoped and queried on its own.
func ExtractInner(body string, tag string) string {
	spans := findElements(body, tag, 1)
	if len(spans) == 0 {
		return ""
	}

	return body[spans[0].start:spans[0].end]
}

// RemoveElements returns body without any element named tag, leaving the
// fields that sit directly on the enclosing element
func RemoveElements(body string, tag string) string {
	spans := findElements(body, tag, 0)
	if len(spans) == 0 {
		return body
	}

	var builder strings.Builder
	last := 0

	for _, s := range spans {
		builder.WriteString(body[last:s.outerStart])
		last = s.outerEnd
	}
	builder.WriteString(body[last:])

	return builder.String()
}

// Text converts an XML fragment to its trimmed, unescaped text content
func Text(fragment string) string {
	if fragment == "" {
		return ""
	}

	var builder strings.Builder
	last := 0

	for _, match := range cdataPattern.FindAllStringSubmatchIndex(fragment, -1) {
		builder.WriteString(markupText(fragment[last:match[0]]))
		builder.WriteString(fragment[match[2]:match[3]])
		last = match[1]
	}
	builder.WriteString(markupText(fragment[last:]))

	return strings.TrimSpace(builder.String())
}

func markupText(fragment string) string {
	return html.UnescapeString(markupPattern.ReplaceAllString(fragment, ""))
}

// ExtractFieldFirst returns the first non-empty field among tags
func ExtractFieldFirst(body string, tags ...string) string {
	for _, tag := range tags {
		if value := ExtractField(body, tag); value != "" {
			return value
		}
	}

	return ""
}
