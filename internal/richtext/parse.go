package richtext

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoBody is returned when a parsed document has no body element.
var ErrNoBody = errors.New("parsed document has no body")

// ParseFunc builds a traversable document from stripped HTML.
type ParseFunc func(string) (*goquery.Document, error)

const (
	shellOpen  = "<!DOCTYPE html><html><head></head><body>"
	shellClose = "</body></html>"
)

var documentMarker = regexp.MustCompile(`(?i)<(?:html|body)[\s>]`)

// parseDocument wraps fragments in a minimal shell so they parse predictably.
func parseDocument(s string) (*goquery.Document, error) {
	if !documentMarker.MatchString(s) {
		s = shellOpen + s + shellClose
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if doc.Find("body").Length() == 0 {
		return nil, ErrNoBody
	}
	return doc, nil
}
