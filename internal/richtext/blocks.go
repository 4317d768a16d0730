package richtext

// Style is the typographic style of a text block.
type Style string

const (
	StyleNormal     Style = "normal"
	StyleH1         Style = "h1"
	StyleH2         Style = "h2"
	StyleH3         Style = "h3"
	StyleH4         Style = "h4"
	StyleH5         Style = "h5"
	StyleH6         Style = "h6"
	StyleBlockquote Style = "blockquote"
)

// ListItem classifies a block as a list entry.
type ListItem string

const (
	ListNone   ListItem = ""
	ListNumber ListItem = "number" // ordered-item
	ListBullet ListItem = "bullet" // unordered-item
)

// Decorator marks. Link marks use the key of a LinkDef instead.
const (
	MarkStrong = "strong"
	MarkEm     = "em"
	MarkCode   = "code"
)

const (
	BlockType = "block"
	SpanType  = "span"
	LinkType  = "link"
)

// Block is one structural unit of converted content.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key"`
	Style    Style     `json:"style"`
	ListItem ListItem  `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []LinkDef `json:"markDefs,omitempty"`
}

// Span is a run of text sharing the same marks.
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// LinkDef is a block-scoped hyperlink referenced by span marks.
type LinkDef struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`
	Href string `json:"href"`
}

// PlainText concatenates the text of all spans.
func (b Block) PlainText() string {
	n := 0
	for _, s := range b.Children {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range b.Children {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// Link returns the definition referenced by mark, if the block has one.
func (b Block) Link(mark string) (LinkDef, bool) {
	for _, def := range b.MarkDefs {
		if def.Key == mark {
			return def, true
		}
	}
	return LinkDef{}, false
}

// IsList reports whether the block is a list item.
func (b Block) IsList() bool {
	return b.ListItem != ListNone
}

func headingStyle(tag string) (Style, bool) {
	switch tag {
	case "h1":
		return StyleH1, true
	case "h2":
		return StyleH2, true
	case "h3":
		return StyleH3, true
	case "h4":
		return StyleH4, true
	case "h5":
		return StyleH5, true
	case "h6":
		return StyleH6, true
	}
	return "", false
}
