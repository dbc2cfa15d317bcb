package core

import (
	"strings"

	"golang.org/x/net/html"
)

// voidElements render without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextElements carry content that must be emitted verbatim.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

const indentUnit = "  "

// printDocument serializes the processed tree. Every node outside the
// container subtree goes on its own indented line. The container element and
// all of its descendants are emitted as one line with zero inserted
// whitespace: the client runtime diffs that subtree against its virtual
// representation and any extra text node causes a hydration mismatch.
func printDocument(doc *html.Node, containerID string) string {
	var b strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		printNode(&b, c, 0, containerID)
	}
	return b.String()
}

func printNode(b *strings.Builder, n *html.Node, depth int, containerID string) {
	switch n.Type {
	case html.DoctypeNode:
		b.WriteString("<!doctype html>\n")

	case html.CommentNode:
		writeIndent(b, depth)
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->\n")

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return
		}
		writeIndent(b, depth)
		b.WriteString(escapeText(text))
		b.WriteString("\n")

	case html.ElementNode:
		writeIndent(b, depth)
		writeOpenTag(b, n)
		if voidElements[n.Data] {
			b.WriteString("\n")
			return
		}
		if isContainer(n, containerID) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				printInline(b, c)
			}
			writeCloseTag(b, n)
			b.WriteString("\n")
			return
		}
		if n.FirstChild == nil {
			writeCloseTag(b, n)
			b.WriteString("\n")
			return
		}
		if rawTextElements[n.Data] {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				b.WriteString(c.Data)
			}
			writeCloseTag(b, n)
			b.WriteString("\n")
			return
		}
		b.WriteString("\n")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			printNode(b, c, depth+1, containerID)
		}
		writeIndent(b, depth)
		writeCloseTag(b, n)
		b.WriteString("\n")
	}
}

// printInline emits a node and its descendants with no added whitespace and
// with text content preserved exactly as parsed.
func printInline(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(escapeText(n.Data))

	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")

	case html.ElementNode:
		writeOpenTag(b, n)
		if voidElements[n.Data] {
			return
		}
		if rawTextElements[n.Data] {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				b.WriteString(c.Data)
			}
			writeCloseTag(b, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			printInline(b, c)
		}
		writeCloseTag(b, n)
	}
}

func isContainer(n *html.Node, containerID string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "id" && attr.Val == containerID {
			return true
		}
	}
	return false
}

func writeOpenTag(b *strings.Builder, n *html.Node) {
	b.WriteString("<")
	b.WriteString(n.Data)
	for _, attr := range n.Attr {
		b.WriteString(" ")
		if attr.Namespace != "" {
			b.WriteString(attr.Namespace)
			b.WriteString(":")
		}
		b.WriteString(attr.Key)
		if attr.Val == "" {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(escapeAttr(attr.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
}

func writeCloseTag(b *strings.Builder, n *html.Node) {
	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteString(">")
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
