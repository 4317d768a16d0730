// Package richtext converts post HTML into ordered rich content blocks.
//
// # Pipeline
//
//	raw HTML → StripArtifacts → parse (goquery) → segment blocks → resolve inline marks → []Block
//
// Any parse failure (or a panic while segmenting) discards partial output and
// falls back to splitting the tag-stripped original text on line breaks.
//
// # Output Shape
//
// A Block is one paragraph, heading, quotation or list item. Its Children are
// spans of text with zero or more marks. Hyperlinks are stored once per block
// in MarkDefs; a span references a link through the definition's key:
//
//	{
//	  "_type": "block", "_key": "9c1d2e3f4a5b", "style": "normal",
//	  "children": [
//	    {"_type": "span", "_key": "…", "text": "Visit ", "marks": []},
//	    {"_type": "span", "_key": "…", "text": "our showroom", "marks": ["3b7a0c9d1e2f"]}
//	  ],
//	  "markDefs": [{"_type": "link", "_key": "3b7a0c9d1e2f", "href": "https://…"}]
//	}
//
// # Usage
//
//	blocks := richtext.Convert(html)
//
//	// Deterministic keys (tests) or a custom parser:
//	c := richtext.NewConverter(richtext.WithKeyFunc(myKeys))
//	conv := c.ConvertDetailed(html)
//	log.Printf("converted via %s into %d blocks", conv.Mode, len(conv.Blocks))
package richtext
