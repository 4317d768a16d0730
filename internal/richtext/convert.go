package richtext

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Mode records which path produced a conversion.
type Mode string

const (
	ModeEmpty      Mode = "empty"
	ModeStructured Mode = "structured" // block elements segmented
	ModeBodyText   Mode = "body-text"  // block elements present but all empty
	ModePlainText  Mode = "plain-text" // no block elements, split on newlines
	ModeFallback   Mode = "fallback"   // parsing failed, split on newlines
)

// Conversion is the outcome of converting one piece of content.
type Conversion struct {
	Blocks []Block
	Mode   Mode
	// Err holds the recovered parse failure when Mode is ModeFallback.
	Err error
}

// KeyFunc generates keys for blocks, spans and link definitions.
type KeyFunc func() string

// Converter turns post HTML into blocks. It holds no per-call state and is
// safe for concurrent use as long as its KeyFunc is.
type Converter struct {
	newKey KeyFunc
	parse  ParseFunc
}

type Option func(*Converter)

// WithKeyFunc replaces the random key generator.
func WithKeyFunc(fn KeyFunc) Option {
	return func(c *Converter) {
		c.newKey = fn
	}
}

// WithParser replaces the HTML parser.
func WithParser(fn ParseFunc) Option {
	return func(c *Converter) {
		c.parse = fn
	}
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		newKey: RandomKey,
		parse:  parseDocument,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RandomKey returns 12 hex characters of a random UUID.
func RandomKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

var defaultConverter = NewConverter()

// Convert converts raw HTML with the default converter.
func Convert(raw string) []Block {
	return defaultConverter.Convert(raw)
}

// Convert returns the blocks for raw HTML. Blank input yields no blocks.
func (c *Converter) Convert(raw string) []Block {
	return c.ConvertDetailed(raw).Blocks
}

// ConvertDetailed converts raw HTML and reports which path was taken. Parse
// failures never escape: partial output is discarded and the tag-stripped
// original text is split into paragraphs instead.
func (c *Converter) ConvertDetailed(raw string) (conv Conversion) {
	if strings.TrimSpace(raw) == "" {
		return Conversion{Mode: ModeEmpty}
	}

	defer func() {
		if r := recover(); r != nil {
			conv = c.fallback(raw, fmt.Errorf("segment html: %v", r))
		}
	}()

	blocks, mode, err := c.structured(raw)
	if err != nil {
		return c.fallback(raw, err)
	}
	return Conversion{Blocks: blocks, Mode: mode}
}

func (c *Converter) structured(raw string) ([]Block, Mode, error) {
	cleaned := StripArtifacts(raw)

	doc, err := c.parse(cleaned)
	if err != nil {
		return nil, "", err
	}
	body := doc.Find("body").First()

	blocks, found := c.segment(body)
	if !found {
		// raw is non-blank here, so stripping must not leave the post empty.
		blocks = c.splitPlainText(cleaned)
		if len(blocks) == 0 {
			blocks = []Block{c.plainBlock(FallbackPlaceholder)}
		}
		return blocks, ModePlainText, nil
	}
	if len(blocks) > 0 {
		return blocks, ModeStructured, nil
	}

	text := strings.TrimSpace(body.Text())
	if text == "" {
		return nil, ModeEmpty, nil
	}
	return []Block{c.plainBlock(text)}, ModeBodyText, nil
}

func (c *Converter) fallback(raw string, err error) Conversion {
	return Conversion{
		Blocks: c.splitPlainText(raw),
		Mode:   ModeFallback,
		Err:    err,
	}
}
