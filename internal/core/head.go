package core

import (
	"html"
	"strings"
)

// HeadMetadata is the per-page head content produced by a render. Meta,
// Links and Preloads hold already-serialized tag strings.
type HeadMetadata struct {
	Title    string
	Meta     []string
	Links    []string
	Preloads []string
}

// Serialize flattens the metadata into a single tag concatenation, ready for
// the head reformatter in InjectContent.
func (h HeadMetadata) Serialize() string {
	var b strings.Builder
	if h.Title != "" {
		b.WriteString("<title>")
		b.WriteString(html.EscapeString(h.Title))
		b.WriteString("</title>")
	}
	for _, tag := range h.Meta {
		b.WriteString(tag)
	}
	for _, tag := range h.Links {
		b.WriteString(tag)
	}
	for _, tag := range h.Preloads {
		b.WriteString(tag)
	}
	return b.String()
}
