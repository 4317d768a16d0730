package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialKeys returns a KeyFunc producing k1, k2, ...
func sequentialKeys() KeyFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}
}

func newTestConverter(opts ...Option) *Converter {
	return NewConverter(append([]Option{WithKeyFunc(sequentialKeys())}, opts...)...)
}

func spanTexts(b Block) []string {
	texts := make([]string, 0, len(b.Children))
	for _, s := range b.Children {
		texts = append(texts, s.Text)
	}
	return texts
}

func TestConvert_EndToEnd(t *testing.T) {
	c := newTestConverter()

	conv := c.ConvertDetailed(`<h2>Title</h2><p>Body text.</p><ul><li>One</li><li>Two</li></ul>`)

	assert.Equal(t, ModeStructured, conv.Mode)
	require.Len(t, conv.Blocks, 4)

	assert.Equal(t, StyleH2, conv.Blocks[0].Style)
	assert.Equal(t, []string{"Title"}, spanTexts(conv.Blocks[0]))
	assert.False(t, conv.Blocks[0].IsList())

	assert.Equal(t, StyleNormal, conv.Blocks[1].Style)
	assert.Equal(t, []string{"Body text."}, spanTexts(conv.Blocks[1]))

	for i, want := range []string{"One", "Two"} {
		b := conv.Blocks[2+i]
		assert.Equal(t, StyleNormal, b.Style)
		assert.Equal(t, ListBullet, b.ListItem)
		assert.Equal(t, 1, b.Level)
		assert.Equal(t, []string{want}, spanTexts(b))
	}

	for _, b := range conv.Blocks {
		assert.Nil(t, b.MarkDefs)
		assert.Equal(t, BlockType, b.Type)
		assert.NotEmpty(t, b.Key)
	}
}

func TestConvert_PreservesDocumentOrder(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<ol><li>First step</li></ol><h3>Heading</h3><blockquote>Quote</blockquote><p>Closing</p><h1>Last</h1>`)

	require.Len(t, blocks, 5)
	assert.Equal(t, "First step", blocks[0].PlainText())
	assert.Equal(t, ListNumber, blocks[0].ListItem)
	assert.Equal(t, StyleH3, blocks[1].Style)
	assert.Equal(t, StyleBlockquote, blocks[2].Style)
	assert.Equal(t, "Closing", blocks[3].PlainText())
	assert.Equal(t, StyleH1, blocks[4].Style)
}

func TestConvert_EmptyInput(t *testing.T) {
	c := newTestConverter()

	for _, input := range []string{"", "   ", "\n\t "} {
		conv := c.ConvertDetailed(input)
		assert.Empty(t, conv.Blocks, "input %q", input)
		assert.Equal(t, ModeEmpty, conv.Mode)
	}
}

func TestConvert_InlineMarks(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p>Hello <strong>world</strong>, <a href="https://x.test">link</a>.</p>`)

	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, StyleNormal, b.Style)
	require.Len(t, b.Children, 5)

	assert.Equal(t, "Hello ", b.Children[0].Text)
	assert.Empty(t, b.Children[0].Marks)

	assert.Equal(t, "world", b.Children[1].Text)
	assert.Equal(t, []string{MarkStrong}, b.Children[1].Marks)

	assert.Equal(t, ", ", b.Children[2].Text)
	assert.Empty(t, b.Children[2].Marks)

	assert.Equal(t, "link", b.Children[3].Text)
	require.Len(t, b.Children[3].Marks, 1)
	def, ok := b.Link(b.Children[3].Marks[0])
	require.True(t, ok)
	assert.Equal(t, "https://x.test", def.Href)
	assert.Equal(t, LinkType, def.Type)

	assert.Equal(t, ".", b.Children[4].Text)
	assert.Empty(t, b.Children[4].Marks)

	assert.Len(t, b.MarkDefs, 1)
}

func TestConvert_MarkAliases(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p><b>bold</b><i>italic</i><em>emphasis</em><code>0-60</code></p>`)

	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Children, 4)
	assert.Equal(t, []string{MarkStrong}, blocks[0].Children[0].Marks)
	assert.Equal(t, []string{MarkEm}, blocks[0].Children[1].Marks)
	assert.Equal(t, []string{MarkEm}, blocks[0].Children[2].Marks)
	assert.Equal(t, []string{MarkCode}, blocks[0].Children[3].Marks)
}

func TestConvert_NestedFormattingFlattensToOuterMark(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p><strong>Call <a href="tel:555">now</a></strong></p>`)

	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Children, 1)
	assert.Equal(t, "Call now", blocks[0].Children[0].Text)
	assert.Equal(t, []string{MarkStrong}, blocks[0].Children[0].Marks)
	assert.Nil(t, blocks[0].MarkDefs)
}

func TestConvert_WhitespaceOnlyMarksContributeNothing(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p>Low<strong> </strong>miles<a href="https://example.com">  </a><em>
</em></p>`)

	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Children, 2)
	assert.Equal(t, "Low", blocks[0].Children[0].Text)
	assert.Equal(t, "miles", blocks[0].Children[1].Text)
	assert.Empty(t, blocks[0].MarkDefs)
	for _, span := range blocks[0].Children {
		assert.Empty(t, span.Marks)
	}
}

func TestConvert_TransparentWrappers(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p><span class="x">Price: <span><strong>$89,000</strong></span></span></p>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"Price: ", "$89,000"}, spanTexts(blocks[0]))
	assert.Equal(t, []string{MarkStrong}, blocks[0].Children[1].Marks)
}

func TestConvert_NestedLists(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<ul><li>O1</li><li>O2<ul><li>I1</li></ul></li></ul>`)

	require.Len(t, blocks, 3)

	assert.Equal(t, "O1", blocks[0].PlainText())
	assert.Equal(t, 1, blocks[0].Level)

	assert.Equal(t, "O2", blocks[1].PlainText())
	assert.Equal(t, 1, blocks[1].Level)

	assert.Equal(t, "I1", blocks[2].PlainText())
	assert.Equal(t, 2, blocks[2].Level)

	for _, b := range blocks {
		assert.Equal(t, ListBullet, b.ListItem)
	}
}

func TestConvert_MixedNestedListKinds(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<ol><li>Step<ul><li>Detail<ol><li>Deep</li></ol></li></ul></li></ol>`)

	require.Len(t, blocks, 3)
	assert.Equal(t, ListNumber, blocks[0].ListItem)
	assert.Equal(t, 1, blocks[0].Level)
	assert.Equal(t, ListBullet, blocks[1].ListItem)
	assert.Equal(t, 2, blocks[1].Level)
	assert.Equal(t, ListNumber, blocks[2].ListItem)
	assert.Equal(t, 3, blocks[2].Level)
}

func TestConvert_AnchorWithoutHref(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p>Jump <a name="specs">here</a></p>`)

	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Children, 2)
	assert.Equal(t, "here", blocks[0].Children[1].Text)
	assert.Empty(t, blocks[0].Children[1].Marks)
	assert.Nil(t, blocks[0].MarkDefs)
}

func TestConvert_LinkKeysAreUniquePerBlock(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p><a href="/a">A</a> and <a href="/b">B</a></p>`)

	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].MarkDefs, 2)
	assert.NotEqual(t, blocks[0].MarkDefs[0].Key, blocks[0].MarkDefs[1].Key)

	first, ok := blocks[0].Link(blocks[0].Children[0].Marks[0])
	require.True(t, ok)
	assert.Equal(t, "/a", first.Href)

	second, ok := blocks[0].Link(blocks[0].Children[2].Marks[0])
	require.True(t, ok)
	assert.Equal(t, "/b", second.Href)
}

func TestConvert_SkipsEmptyElements(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p>   </p><p>&nbsp;</p><h2></h2><p>Kept</p><ul><li> </li><li>Item</li></ul>`)

	require.Len(t, blocks, 2)
	assert.Equal(t, "Kept", blocks[0].PlainText())
	assert.Equal(t, "Item", blocks[1].PlainText())
}

func TestConvert_BlockquoteWithParagraphsIsNotDuplicated(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<blockquote><p>Best dealer in town.</p></blockquote>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, StyleBlockquote, blocks[0].Style)
	assert.Equal(t, "Best dealer in town.", blocks[0].PlainText())
}

func TestConvert_StripsShortcodesBeforeParsing(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<![CDATA[<p>[caption id="a1"]<img src="x.jpg"> Rear spoiler[/caption]</p>[gallery ids="1,2"]<p>Done</p>]]>`)

	require.Len(t, blocks, 2)
	assert.Equal(t, " Rear spoiler", blocks[0].PlainText())
	assert.Equal(t, "Done", blocks[1].PlainText())
}

func TestConvert_BodyTextWhenBlocksAreEmpty(t *testing.T) {
	c := newTestConverter()

	conv := c.ConvertDetailed(`<p><img src="hero.jpg"></p><div>Call us today</div>`)

	assert.Equal(t, ModeBodyText, conv.Mode)
	require.Len(t, conv.Blocks, 1)
	assert.Equal(t, "Call us today", conv.Blocks[0].PlainText())
	assert.Equal(t, StyleNormal, conv.Blocks[0].Style)
}

func TestConvert_PlainTextWithoutBlockElements(t *testing.T) {
	c := newTestConverter()

	conv := c.ConvertDetailed("Low miles.<br>One owner.\n\n<strong>Full service history</strong>")

	assert.Equal(t, ModePlainText, conv.Mode)
	require.Len(t, conv.Blocks, 3)
	assert.Equal(t, "Low miles.", conv.Blocks[0].PlainText())
	assert.Equal(t, "One owner.", conv.Blocks[1].PlainText())
	assert.Equal(t, "Full service history", conv.Blocks[2].PlainText())
	for _, b := range conv.Blocks {
		require.Len(t, b.Children, 1)
		assert.Empty(t, b.Children[0].Marks)
	}
}

func TestConvert_PlainTextPlaceholderForArtifactOnlyContent(t *testing.T) {
	c := newTestConverter()

	inputs := []string{
		`[gallery ids="1,2"]`,
		"<![CDATA[]]>",
		"[vc_row][/vc_row]",
	}
	for _, input := range inputs {
		conv := c.ConvertDetailed(input)

		assert.Equal(t, ModePlainText, conv.Mode, "input %q", input)
		require.Len(t, conv.Blocks, 1, "input %q", input)
		assert.Equal(t, FallbackPlaceholder, conv.Blocks[0].PlainText())
	}
}

func TestConvert_FallbackOnParseFailure(t *testing.T) {
	parseErr := errors.New("boom")
	c := newTestConverter(WithParser(func(string) (*goquery.Document, error) {
		return nil, parseErr
	}))

	conv := c.ConvertDetailed(`<p>First &amp; foremost</p><br/>[gallery]<p>Second</p>`)

	assert.Equal(t, ModeFallback, conv.Mode)
	assert.ErrorIs(t, conv.Err, parseErr)
	require.Len(t, conv.Blocks, 2)
	assert.Equal(t, "First & foremost", conv.Blocks[0].PlainText())
	assert.Equal(t, "[gallery]Second", conv.Blocks[1].PlainText())
}

func TestConvert_FallbackOnPanic(t *testing.T) {
	c := newTestConverter(WithParser(func(string) (*goquery.Document, error) {
		panic("unexpected node")
	}))

	conv := c.ConvertDetailed("<![CDATA[<p>Only line</p>]]>")

	assert.Equal(t, ModeFallback, conv.Mode)
	require.Error(t, conv.Err)
	require.Len(t, conv.Blocks, 1)
	assert.Equal(t, "Only line", conv.Blocks[0].PlainText())
}

func TestConvert_FallbackNeverEmptyForNonBlankInput(t *testing.T) {
	c := newTestConverter(WithParser(func(string) (*goquery.Document, error) {
		return nil, errors.New("unparseable")
	}))

	inputs := []string{
		`<img src="a.jpg">`,
		"<script>alert(1)</script>",
		"text",
		"<p>a</p>\n\n\n<p>b</p>",
	}
	for _, input := range inputs {
		blocks := c.Convert(input)
		assert.NotEmpty(t, blocks, "input %q", input)
	}

	placeholder := c.Convert(`<img src="a.jpg">`)
	require.Len(t, placeholder, 1)
	assert.Equal(t, FallbackPlaceholder, placeholder[0].PlainText())
}

func TestConvert_FullDocumentInput(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<html><body><h4>Warranty</h4><p>12 months</p></body></html>`)

	require.Len(t, blocks, 2)
	assert.Equal(t, StyleH4, blocks[0].Style)
	assert.Equal(t, "12 months", blocks[1].PlainText())
}

func TestBlock_JSONShape(t *testing.T) {
	c := newTestConverter()

	blocks := c.Convert(`<p>See <a href="/inventory">inventory</a></p>`)
	require.Len(t, blocks, 1)

	data, err := json.Marshal(blocks[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "block", decoded["_type"])
	assert.Equal(t, "normal", decoded["style"])
	assert.NotContains(t, decoded, "listItem")
	assert.NotContains(t, decoded, "level")

	children := decoded["children"].([]any)
	require.Len(t, children, 2)
	first := children[0].(map[string]any)
	assert.Equal(t, "span", first["_type"])
	assert.Equal(t, []any{}, first["marks"])

	defs := decoded["markDefs"].([]any)
	require.Len(t, defs, 1)
	assert.Equal(t, "/inventory", defs[0].(map[string]any)["href"])
}

func TestRandomKey(t *testing.T) {
	a := RandomKey()
	b := RandomKey()

	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
