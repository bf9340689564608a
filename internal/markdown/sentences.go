package markdown

import (
	"strings"
	"unicode"
)

// splitSentences breaks paragraph markup into sentences. Boundaries are
// only taken outside of tags and elements, so every piece stays well formed.
func splitSentences(markup string) []string {
	runes := []rune(markup)

	var (
		out     []string
		current strings.Builder
		inTag   bool
		depth   int
	)
	for i, r := range runes {
		current.WriteRune(r)

		switch {
		case r == '<':
			inTag = true
			switch {
			case i+1 < len(runes) && runes[i+1] == '/':
				depth--
			default:
				depth++
			}
			continue
		case r == '>' && inTag:
			inTag = false
			if i > 0 && runes[i-1] == '/' {
				depth--
			}
			continue
		case inTag || depth > 0:
			continue
		}

		if isSentenceBoundary(runes, i) {
			if s := strings.TrimSpace(current.String()); s != "" {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// isSentenceBoundary reports whether runes[pos] ends a sentence. Terminal
// punctuation must be followed by whitespace and a capital letter, and a
// period must not belong to a title, a decimal number or an ellipsis.
func isSentenceBoundary(runes []rune, pos int) bool {
	r := runes[pos]
	if r != '.' && r != '!' && r != '?' {
		return false
	}
	if r == '.' && (isEllipsis(runes, pos) || isDecimal(runes, pos)) {
		return false
	}

	next := pos + 1
	if next >= len(runes) || !unicode.IsSpace(runes[next]) {
		return false
	}
	for next < len(runes) && unicode.IsSpace(runes[next]) {
		next++
	}
	if next >= len(runes) {
		return false
	}
	// a sentence may open with an element such as emphasis
	upper := unicode.IsUpper(runes[next]) || unicode.IsDigit(runes[next]) || runes[next] == '<'
	if !upper {
		return false
	}
	return r != '.' || !titles[strings.ToLower(wordBefore(runes, pos))]
}

func wordBefore(runes []rune, pos int) string {
	start := pos - 1
	for start >= 0 && !unicode.IsSpace(runes[start]) && runes[start] != '>' {
		start--
	}
	return string(runes[start+1 : pos])
}

func isEllipsis(runes []rune, pos int) bool {
	return (pos > 0 && runes[pos-1] == '.') || (pos+1 < len(runes) && runes[pos+1] == '.')
}

func isDecimal(runes []rune, pos int) bool {
	return pos > 0 && pos+1 < len(runes) && unicode.IsDigit(runes[pos-1]) && unicode.IsDigit(runes[pos+1])
}

// titles precede a name, so a capital letter after them never starts a
// new sentence.
var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true,
}
