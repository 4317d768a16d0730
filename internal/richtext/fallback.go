package richtext

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// FallbackPlaceholder is emitted when non-blank input yields no text at all.
const FallbackPlaceholder = "[content could not be converted]"

var (
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	newlineRuns  = regexp.MustCompile(`[\r\n]+`)

	textOnly = bluemonday.StrictPolicy()
)

// splitPlainText turns raw content into one normal block per non-empty line.
// No markup survives.
func (c *Converter) splitPlainText(raw string) []Block {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	text := lineBreakTag.ReplaceAllString(stripCDATA(raw), "\n")
	text = html.UnescapeString(textOnly.Sanitize(text))

	var blocks []Block
	for _, piece := range newlineRuns.Split(text, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		blocks = append(blocks, c.plainBlock(piece))
	}

	if len(blocks) == 0 {
		blocks = append(blocks, c.plainBlock(FallbackPlaceholder))
	}
	return blocks
}
