package message

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	emphasisRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldTagRe  = regexp.MustCompile(`<b>(.*?)</b>`)
)

const lineBreak = "<br />"

// Format turns **text** into <b>text</b> and newlines into <br />.
// Unpaired markers are left alone.
func Format(s string) string {
	s = emphasisRe.ReplaceAllString(s, "<b>$1</b>")
	return strings.ReplaceAll(s, "\n", lineBreak)
}

// RenderMarkup draws Format output for the terminal: <br /> becomes a line
// break and <b> spans are rendered with bold.
func RenderMarkup(formatted string, bold lipgloss.Style) string {
	s := strings.ReplaceAll(formatted, lineBreak, "\n")
	return boldTagRe.ReplaceAllStringFunc(s, func(span string) string {
		inner := boldTagRe.FindStringSubmatch(span)[1]
		return bold.Render(inner)
	})
}
