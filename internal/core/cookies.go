package core

import (
	"slices"
	"strings"
)

// CookiePolicy filters cookies crossing the proxy boundary in either
// direction. A zero policy passes everything through. With an allow list a
// cookie must be named in it; a block list always wins over the allow list.
type CookiePolicy struct {
	Allow    []string
	Block    []string
	BlockAll bool
}

func (p CookiePolicy) allows(name string) bool {
	if p.BlockAll {
		return false
	}
	if slices.Contains(p.Block, name) {
		return false
	}
	if p.Allow != nil && !slices.Contains(p.Allow, name) {
		return false
	}
	return true
}

// FilterCookieHeader filters an inbound Cookie header value. Entries without
// an = sign cannot be matched against the lists and pass through unmodified,
// except under BlockAll which removes everything.
func (p CookiePolicy) FilterCookieHeader(raw string) string {
	if raw == "" {
		return ""
	}
	if p.BlockAll {
		return ""
	}

	var kept []string
	for _, part := range strings.Split(raw, ";") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		name, _, ok := strings.Cut(entry, "=")
		if !ok {
			kept = append(kept, entry)
			continue
		}
		if p.allows(strings.TrimSpace(name)) {
			kept = append(kept, entry)
		}
	}
	return strings.Join(kept, "; ")
}

// FilterSetCookies filters outbound Set-Cookie header values by cookie name.
func (p CookiePolicy) FilterSetCookies(values []string) []string {
	if p.BlockAll {
		return nil
	}

	var kept []string
	for _, value := range values {
		nameValue := value
		if i := strings.Index(value, ";"); i >= 0 {
			nameValue = value[:i]
		}
		name, _, ok := strings.Cut(nameValue, "=")
		if !ok {
			kept = append(kept, value)
			continue
		}
		if p.allows(strings.TrimSpace(name)) {
			kept = append(kept, value)
		}
	}
	return kept
}
