package wxr

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

// ExcerptLength is the maximum excerpt length in runes.
const ExcerptLength = 200

const (
	wpDateLayout = "2006-01-02 15:04:05"
	wpZeroDate   = "0000-00-00 00:00:00"
)

var (
	pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822}

	excerptPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
)

// Post is an accepted item with its cross-references resolved.
type Post struct {
	Item

	AuthorName       string
	FeaturedImageURL string
}

// Content returns the first non-blank content field: content:encoded, then
// content, then description.
func (p Post) Content() (string, error) {
	for _, candidate := range []string{p.encoded(false), p.PlainContent, p.Description} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	return "", ErrNoContent
}

// RawExcerpt returns the excerpt:encoded payload as exported.
func (p Post) RawExcerpt() string {
	return p.encoded(true)
}

func (p Post) encoded(excerpt bool) string {
	for _, e := range p.Encoded {
		if strings.Contains(e.XMLName.Space, "excerpt") == excerpt {
			return e.Data
		}
	}
	return ""
}

// DisplayTitle is the trimmed title, or "Untitled" for blank titles.
func (p Post) DisplayTitle() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return "Untitled"
}

// Slug returns wp:post_name, or a slug derived from the title.
func (p Post) Slug() string {
	if name := strings.TrimSpace(p.PostName); name != "" {
		return name
	}
	if s := slug.Make(p.Title); s != "" {
		return s
	}
	return "post-" + strings.TrimSpace(p.PostID)
}

// PublishedAt resolves the publication time from post_date_gmt, post_date
// and pubDate in that order. ok is false when none of them parse.
func (p Post) PublishedAt() (t time.Time, ok bool) {
	if t, ok := parseWPDate(p.PostDateGMT); ok {
		return t, true
	}
	if t, ok := parseWPDate(p.PostDate); ok {
		return t, true
	}

	pub := strings.TrimSpace(p.PubDate)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, pub); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// post_date carries no zone; it is read as UTC.
func parseWPDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == wpZeroDate {
		return time.Time{}, false
	}
	t, err := time.Parse(wpDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Excerpt returns the plain-text excerpt, taken from excerpt:encoded or,
// when that is blank, from the content. Shortcodes and tags are removed,
// whitespace is collapsed and the result is cut to ExcerptLength runes.
func (p Post) Excerpt() string {
	source := p.RawExcerpt()
	if strings.TrimSpace(source) == "" {
		source, _ = p.Content()
	}
	return Summarize(source, ExcerptLength)
}

// Summarize reduces HTML to at most limit runes of plain text.
func Summarize(raw string, limit int) string {
	text := html.UnescapeString(excerptPolicy.Sanitize(richtext.StripArtifacts(raw)))
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit]))
}
