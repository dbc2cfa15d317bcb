package core

import "testing"

func TestNormalizeRoutePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"", "/"},
		{"/about", "/about"},
		{"/about/", "/about"},
		{"about", "/about"},
		{"//about//team/", "/about/team"},
		{"/blog//post", "/blog/post"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeRoutePath(tt.in); got != tt.want {
				t.Errorf("NormalizeRoutePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoutePathForFile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"index.html", "/"},
		{"about.html", "/about"},
		{"blog/post.html", "/blog/post"},
		{"blog/index.html", "/blog"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := RoutePathForFile(tt.in); got != tt.want {
				t.Errorf("RoutePathForFile(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateRoutePath(t *testing.T) {
	valid := []string{"/", "/about", "/blog/post"}
	for _, path := range valid {
		if err := ValidateRoutePath(path); err != nil {
			t.Errorf("ValidateRoutePath(%q) = %v, want nil", path, err)
		}
	}

	invalid := []string{"", "about", "/a?b=1", "/a#b", "/../etc"}
	for _, path := range invalid {
		if err := ValidateRoutePath(path); err == nil {
			t.Errorf("ValidateRoutePath(%q) = nil, want error", path)
		}
	}
}
