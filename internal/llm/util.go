package llm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const fence = "```"

// ExtractJSON returns the JSON document carried by a model reply. Models wrap
// it in a markdown fence, sometimes tagged, or pad it with prose.
func ExtractJSON(reply string) string {
	body := strings.TrimSpace(reply)
	if rest, ok := strings.CutPrefix(body, fence); ok {
		body = dropInfoString(rest)
		if end := strings.LastIndex(body, fence); end >= 0 {
			body = body[:end]
		}
		body = strings.TrimSpace(body)
	}
	if body == "" || body[0] == '{' || body[0] == '[' {
		return body
	}

	start, end := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}')
	if start >= 0 && end > start {
		return body[start : end+1]
	}
	return body
}

// dropInfoString removes a language tag such as "json" that directly follows
// an opening fence. A tag must be terminated by whitespace.
func dropInfoString(s string) string {
	n := strings.IndexFunc(s, func(r rune) bool { return !isTagRune(r) })
	if n <= 0 {
		return s
	}
	if r, _ := utf8.DecodeRuneInString(s[n:]); !unicode.IsSpace(r) {
		return s
	}
	return s[n:]
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '-'
}
