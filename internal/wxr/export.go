package wxr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrNoContent is returned when none of an item's content fields hold text.
var ErrNoContent = errors.New("item has no content")

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title   string   `xml:"title"`
	Authors []author `xml:"author"` // space: wp
	Items   []Item   `xml:"item"`
}

type author struct {
	Login       string `xml:"author_login"`
	DisplayName string `xml:"author_display_name"`
}

// encoded is the payload of content:encoded or excerpt:encoded.
type encoded struct {
	XMLName xml.Name
	Data    string `xml:",chardata"`
}

// Meta is one wp:postmeta entry.
type Meta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

// Item is a raw export entry: a post, a page or an attachment.
type Item struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	GUID          string    `xml:"guid"`
	PubDate       string    `xml:"pubDate"`
	Description   string    `xml:"description"`
	PlainContent  string    `xml:"content"`
	Encoded       []encoded `xml:"encoded"`       // space: content / excerpt
	Creator       string    `xml:"creator"`       // space: dc
	PostID        string    `xml:"post_id"`       // space: wp
	PostDate      string    `xml:"post_date"`     // space: wp
	PostDateGMT   string    `xml:"post_date_gmt"` // space: wp
	PostName      string    `xml:"post_name"`     // space: wp
	PostType      string    `xml:"post_type"`     // space: wp
	Status        string    `xml:"status"`        // space: wp
	AttachmentURL string    `xml:"attachment_url"`
	Meta          []Meta    `xml:"postmeta"`
}

// Export is a decoded WXR document.
type Export struct {
	Title string
	Items []Item

	authors     map[string]string
	attachments map[string]string
}

// ParseFile opens and decodes the export at path.
func ParseFile(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a WXR document. Exports are frequently not well-formed XML
// (HTML entities, unclosed tags in descriptions), so the decoder runs in
// non-strict mode.
func Parse(r io.Reader) (*Export, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var doc rss
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	export := &Export{
		Title:       strings.TrimSpace(doc.Channel.Title),
		Items:       doc.Channel.Items,
		authors:     make(map[string]string, len(doc.Channel.Authors)),
		attachments: make(map[string]string),
	}

	for _, a := range doc.Channel.Authors {
		login := strings.TrimSpace(a.Login)
		if login == "" {
			continue
		}
		export.authors[login] = strings.TrimSpace(a.DisplayName)
	}

	for _, item := range doc.Channel.Items {
		if item.PostType != "attachment" {
			continue
		}
		id := strings.TrimSpace(item.PostID)
		url := strings.TrimSpace(item.AttachmentURL)
		if url == "" {
			url = strings.TrimSpace(item.GUID)
		}
		if id != "" && url != "" {
			export.attachments[id] = url
		}
	}

	return export, nil
}

// Posts returns the items accepted by f, with author and featured image
// resolved against the rest of the export. Order is export order.
func (e *Export) Posts(f Filter) []Post {
	var posts []Post
	for _, item := range e.Items {
		if !f.Accepts(item) {
			continue
		}
		posts = append(posts, Post{
			Item:             item,
			AuthorName:       e.authorName(item.Creator),
			FeaturedImageURL: e.attachments[item.meta("_thumbnail_id")],
		})
	}
	return posts
}

// DefaultAuthor is used for items without a creator.
const DefaultAuthor = "Admin"

func (e *Export) authorName(login string) string {
	login = strings.TrimSpace(login)
	if login == "" {
		return DefaultAuthor
	}
	if name := e.authors[login]; name != "" {
		return name
	}
	return login
}

func (it Item) meta(key string) string {
	for _, m := range it.Meta {
		if strings.TrimSpace(m.Key) == key {
			return strings.TrimSpace(m.Value)
		}
	}
	return ""
}
