package core

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrEmptyTemplate = errors.New("template is empty")

// ValidationError reports required markers missing from a shell template.
type ValidationError struct {
	Mode    TemplateMode
	Missing []string
}

func (e *ValidationError) Error() string {
	descriptions := make([]string, 0, len(e.Missing))
	for _, marker := range e.Missing {
		descriptions = append(descriptions, fmt.Sprintf("<!--%s--> (%s)", marker, markerPurpose(marker, e.Mode)))
	}
	return fmt.Sprintf("template is missing required marker(s): %s", strings.Join(descriptions, ", "))
}

func markerPurpose(marker string, mode TemplateMode) string {
	switch marker {
	case HeadMarker:
		if mode == ModeSSG {
			return "head metadata for each generated page is injected here at build time"
		}
		return "the rendered page's title, meta and link tags are injected here on every request"
	case OutletMarker:
		if mode == ModeSSG {
			return "pre-rendered page markup is injected here at build time"
		}
		return "server-rendered page markup is injected here on every request"
	}
	return "reserved marker"
}

// metaNameWhitelist lists the only <meta name="..."> tags a template may keep.
// Everything else is stripped because per-request metadata is injected fresh.
var metaNameWhitelist = map[string]bool{
	"apple-mobile-web-app-title": true,
}

// ProcessTemplate validates and normalizes a raw HTML shell so it is safe to
// inject rendered content into. It locates the required ss-head and ss-outlet
// marker comments, strips stale head metadata, relocates every script tag to
// just after the container element, reserves a slot for the context scripts,
// and re-serializes the document with the container subtree kept on a single
// line so client hydration sees byte-identical markup.
func ProcessTemplate(rawHTML string, mode TemplateMode, isDev bool, containerID string) (out string, err error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", ErrEmptyTemplate
	}
	if containerID == "" {
		containerID = DefaultContainerID
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)
	if body == nil {
		return "", errors.New("failed to process template: no body element")
	}

	removeTitles(head)

	var devMarker *html.Node
	if isDev {
		devMarker = &html.Node{Type: html.CommentNode, Data: DevModeComment}
		body.InsertBefore(devMarker, body.FirstChild)
	}

	stripNamedMeta(head)

	scripts := detachScripts(doc)
	placeholder := &html.Node{Type: html.CommentNode, Data: ContextScriptsMarker}
	scripts = append([]*html.Node{placeholder}, scripts...)

	seen := normalizeComments(doc, devMarker)

	var missing []string
	if !seen[HeadMarker] {
		missing = append(missing, HeadMarker)
	}
	if !seen[OutletMarker] {
		missing = append(missing, OutletMarker)
	}
	if len(missing) > 0 {
		return "", &ValidationError{Mode: mode, Missing: missing}
	}

	container := findElementByID(doc, containerID)
	insertScripts(body, container, scripts)

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("failed to serialize template: %v", r)
		}
	}()

	return printDocument(doc, containerID), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findElementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// removeTitles removes every <title> from the head: the title is injected
// per request alongside the rest of the head metadata.
func removeTitles(head *html.Node) {
	if head == nil {
		return
	}
	for _, title := range collectElements(head, atom.Title) {
		title.Parent.RemoveChild(title)
	}
}

// stripNamedMeta removes <meta name="..."> tags except whitelisted ones.
// Nameless metas (charset, http-equiv, viewport via property) are untouched.
func stripNamedMeta(head *html.Node) {
	if head == nil {
		return
	}
	for _, meta := range collectElements(head, atom.Meta) {
		name := ""
		for _, attr := range meta.Attr {
			if attr.Key == "name" {
				name = attr.Val
				break
			}
		}
		if name != "" && !metaNameWhitelist[name] {
			meta.Parent.RemoveChild(meta)
		}
	}
}

// detachScripts removes every script element from the tree and returns them
// in document order so they can be relocated after the container.
func detachScripts(doc *html.Node) []*html.Node {
	scripts := collectElements(doc, atom.Script)
	for _, s := range scripts {
		s.Parent.RemoveChild(s)
	}
	return scripts
}

func collectElements(n *html.Node, a atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == a {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// normalizeComments rewrites every ss- prefixed comment to its whitespace-free
// form and deletes any other comment except the dev marker. It reports which
// normalized comments were observed.
func normalizeComments(doc *html.Node, devMarker *html.Node) map[string]bool {
	seen := make(map[string]bool)

	var comments []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.CommentNode {
			comments = append(comments, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, c := range comments {
		if c == devMarker {
			continue
		}
		trimmed := strings.TrimSpace(c.Data)
		if strings.HasPrefix(trimmed, MarkerPrefix) {
			c.Data = strings.Join(strings.Fields(trimmed), "")
			seen[c.Data] = true
			continue
		}
		c.Parent.RemoveChild(c)
	}

	return seen
}

// insertScripts places the detached scripts immediately after the container
// element, preserving document order. Without a container they are appended
// to the body, which keeps the document valid but unanchored.
func insertScripts(body, container *html.Node, scripts []*html.Node) {
	if container != nil && container.Parent != nil {
		ref := container.NextSibling
		for _, s := range scripts {
			container.Parent.InsertBefore(s, ref)
		}
		return
	}
	for _, s := range scripts {
		body.AppendChild(s)
	}
}
