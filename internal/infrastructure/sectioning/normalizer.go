package sectioning

import (
	"regexp"
	"strings"
)

var (
	lineBreakPattern  = regexp.MustCompile(`\r\n|\r`)
	horizontalSpaces  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinePattern  = regexp.MustCompile(`\n{3,}`)
	disallowedSymbols = regexp.MustCompile(`[^\w\s.,;:!?\-()\[\]"'/&%$@#]`)
)

// Normalize cleans raw extracted text before section splitting. Newlines are
// preserved because marker detection anchors on line starts; only horizontal
// whitespace runs are collapsed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = lineBreakPattern.ReplaceAllString(text, "\n")
	text = disallowedSymbols.ReplaceAllString(text, "")
	text = horizontalSpaces.ReplaceAllString(text, " ")
	text = blankLinePattern.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
