package core

import (
	"fmt"
	"strings"
)

// NormalizeRoutePath collapses duplicate slashes, ensures a leading slash and
// strips the trailing slash (except for the root path) so that equivalent
// URL spellings map to the same page-map key.
func NormalizeRoutePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// RoutePathForFile derives the URL path an output file is served at.
func RoutePathForFile(filename string) string {
	path := strings.TrimSuffix(filename, ".html")
	path = strings.TrimSuffix(path, "/index")
	if path == "index" || path == "" {
		return "/"
	}
	return NormalizeRoutePath(path)
}

func ValidateRoutePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /")
	}

	if strings.Contains(path, "?") {
		return fmt.Errorf("path cannot contain query string")
	}

	if strings.Contains(path, "#") {
		return fmt.Errorf("path cannot contain fragment")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path cannot contain parent directory references")
	}

	return nil
}
