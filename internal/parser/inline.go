package parser

import (
	"regexp"
	"strings"
)

var (
	codeRe = regexp.MustCompile("`([^`]+)`")
	boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	// Word-boundary guards: the opening * must not follow a word
	// character and the closing * must not precede one, so "2*3*4"
	// stays literal.
	italicRe = regexp.MustCompile(`(^|[^\w*])\*([^*\s][^*]*?)\*($|[^\w*])`)
)

const (
	codeToken = "\x00c\x00"
)

// renderInline rewrites the inline span whitelist to minimal markup tags:
// `code`, **bold**, *italic*. Unterminated markers are left literal.
func renderInline(s string) string {
	// Code spans are lifted out first so markers inside code are never
	// re-processed as emphasis.
	var codes []string
	s = codeRe.ReplaceAllStringFunc(s, func(m string) string {
		codes = append(codes, "<code>"+m[1:len(m)-1]+"</code>")
		return codeToken
	})

	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	// The closing guard character is consumed by the match, so the span
	// right after it is invisible to the same pass ("*a* *b*"). Each
	// productive pass removes a marker pair, so this terminates.
	for {
		t := italicRe.ReplaceAllString(s, "$1<em>$2</em>$3")
		if t == s {
			break
		}
		s = t
	}

	for _, c := range codes {
		s = strings.Replace(s, codeToken, c, 1)
	}
	return s
}
