package richtext

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// inline is the result of resolving a subtree: spans plus the link
// definitions they reference. Values are composed, never mutated.
type inline struct {
	spans []Span
	links []LinkDef
}

func (r inline) concat(other inline) inline {
	return inline{
		spans: slices.Concat(r.spans, other.spans),
		links: slices.Concat(r.links, other.links),
	}
}

func (c *Converter) resolveChildren(n *html.Node) inline {
	var out inline
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = out.concat(c.resolveNode(child))
	}
	return out
}

func (c *Converter) resolveNode(n *html.Node) inline {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return inline{}
		}
		return inline{spans: []Span{c.span(n.Data)}}
	case html.ElementNode:
	default:
		return inline{}
	}

	switch n.Data {
	case "a":
		return c.resolveLink(n)
	case "strong", "b":
		return c.resolveMarked(n, MarkStrong)
	case "em", "i":
		return c.resolveMarked(n, MarkEm)
	case "code":
		return c.resolveMarked(n, MarkCode)
	case "ul", "ol":
		// Nested lists are emitted as their own blocks.
		return inline{}
	}
	return c.resolveChildren(n)
}

func (c *Converter) resolveLink(n *html.Node) inline {
	text := textContent(n)
	if strings.TrimSpace(text) == "" {
		return inline{}
	}

	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		return inline{spans: []Span{c.span(text)}}
	}

	key := c.newKey()
	return inline{
		spans: []Span{c.span(text, key)},
		links: []LinkDef{{Type: LinkType, Key: key, Href: href}},
	}
}

// resolveMarked flattens the element to its text; formatting nested inside
// it is not resolved separately.
func (c *Converter) resolveMarked(n *html.Node, mark string) inline {
	text := textContent(n)
	if strings.TrimSpace(text) == "" {
		return inline{}
	}
	return inline{spans: []Span{c.span(text, mark)}}
}

func (c *Converter) span(text string, marks ...string) Span {
	if marks == nil {
		marks = []string{}
	}
	return Span{Type: SpanType, Key: c.newKey(), Text: text, Marks: marks}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
