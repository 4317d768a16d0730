package richtext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const blockSelector = "p, h1, h2, h3, h4, h5, h6, blockquote, ul, ol"

// segment emits one block per recognized element under body, in document
// order. found is false when body contains no candidate element at all.
func (c *Converter) segment(body *goquery.Selection) (blocks []Block, found bool) {
	candidates := body.Find(blockSelector)
	if candidates.Length() == 0 {
		return nil, false
	}

	candidates.Each(func(_ int, el *goquery.Selection) {
		node := el.Get(0)

		switch node.Data {
		case "ul", "ol":
			blocks = append(blocks, c.listItems(el)...)
			return
		}

		// Already part of an enclosing block's spans.
		if hasTextBlockAncestor(node) {
			return
		}

		style := StyleNormal
		if node.Data == "blockquote" {
			style = StyleBlockquote
		} else if h, ok := headingStyle(node.Data); ok {
			style = h
		}

		if b, ok := c.textBlock(node, style, ListNone, 0); ok {
			blocks = append(blocks, b)
		}
	})

	return blocks, true
}

func (c *Converter) listItems(list *goquery.Selection) []Block {
	kind := ListBullet
	if goquery.NodeName(list) == "ol" {
		kind = ListNumber
	}

	var blocks []Block
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		node := li.Get(0)
		if b, ok := c.textBlock(node, StyleNormal, kind, listDepth(node)); ok {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

// textBlock resolves the children of n into a block. Blocks without any
// visible text are reported as not ok.
func (c *Converter) textBlock(n *html.Node, style Style, list ListItem, level int) (Block, bool) {
	res := c.resolveChildren(n)
	if isBlank(res.spans) {
		return Block{}, false
	}

	links := res.links
	if len(links) == 0 {
		links = nil
	}

	return Block{
		Type:     BlockType,
		Key:      c.newKey(),
		Style:    style,
		ListItem: list,
		Level:    level,
		Children: res.spans,
		MarkDefs: links,
	}, true
}

func (c *Converter) plainBlock(text string) Block {
	return Block{
		Type:     BlockType,
		Key:      c.newKey(),
		Style:    StyleNormal,
		Children: []Span{c.span(text)},
	}
}

// listDepth counts the ul/ol containers enclosing a list item.
func listDepth(li *html.Node) int {
	depth := 0
	for p := li.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "ul" || p.Data == "ol") {
			depth++
		}
	}
	if depth < 1 {
		depth = 1
	}
	return depth
}

func hasTextBlockAncestor(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.Data {
		case "body":
			return false
		case "p", "blockquote", "li":
			return true
		}
		if _, ok := headingStyle(p.Data); ok {
			return true
		}
	}
	return false
}

func isBlank(spans []Span) bool {
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}
