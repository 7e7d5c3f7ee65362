package generate

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

var blankRun = regexp.MustCompile(`\n{3,}`)

// CompactContext converts a section body to compact readable text for use
// as prompt context. Markdown keeps table and list structure legible to the
// model; if conversion fails the tags are stripped instead.
func CompactContext(html string, maxChars int) string {
	conv := md.NewConverter("", true, nil)
	text, err := conv.ConvertString(html)
	if err != nil {
		text = bluemonday.StrictPolicy().Sanitize(html)
	}

	text = blankRun.ReplaceAllString(strings.TrimSpace(text), "\n\n")

	runes := []rune(text)
	if maxChars > 0 && len(runes) > maxChars {
		return string(runes[:maxChars])
	}
	return text
}
