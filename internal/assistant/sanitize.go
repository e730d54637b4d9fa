package assistant

import (
	"regexp"
	"strings"
	"unicode"
)

// Model output arrives with inconsistent whitespace, stray control characters,
// and invisible Unicode formatting marks. Replies are normalized before they
// reach the chat so Telegram renders them cleanly.
var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	excessNewlines      = regexp.MustCompile("\n{3,}")

	unicodeReplacer = strings.NewReplacer(
		"\u2060", "", // word joiner
		"\uFEFF", "", // byte order mark
		"\u00AD", "", // soft hyphen
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
		"\u2028", "\n", // line separator
		"\u2029", "\n\n", // paragraph separator
		"\u200B", " ", // zero width space
		"\u00A0", " ", // non-breaking space
		"\u3000", " ", // ideographic space
	)
)

// sanitizeReply normalizes a model reply: line endings become LF, invisible
// formatting characters are dropped, control characters and runs of spaces
// collapse, and three or more newlines become a paragraph break. Returns ""
// when nothing displayable remains.
func sanitizeReply(input string) string {
	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = unicodeReplacer.Replace(s)
	s = controlCharsPattern.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = collapseSpaces(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = excessNewlines.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// collapseSpaces folds consecutive whitespace within one line into a single
// space and trims the ends.
func collapseSpaces(line string) string {
	var b strings.Builder
	space := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteRune(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return strings.TrimSpace(b.String())
}
