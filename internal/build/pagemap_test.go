package build

import (
	"strings"
	"testing"

	"github.com/glimt-studio/skald/internal/types"
)

func successReport(path, filename string) types.PageReport {
	return types.PageReport{
		Descriptor: types.PageDescriptor{Type: types.DescriptorSSG, Path: path, Filename: filename},
		Status:     types.PageSuccess,
	}
}

func TestBuildPageMap(t *testing.T) {
	pageMap, err := BuildPageMap([]types.PageReport{
		successReport("/", "index.html"),
		successReport("/about/", "about.html"),
		{
			Descriptor: types.PageDescriptor{Type: types.DescriptorSSG, Path: "/missing", Filename: "404.html"},
			Status:     types.PageNotFound,
		},
		{
			Descriptor: types.PageDescriptor{Type: types.DescriptorSSG, Path: "/broken", Filename: "broken.html"},
			Status:     types.PageError,
		},
	})
	if err != nil {
		t.Fatalf("BuildPageMap() error = %v", err)
	}

	want := map[string]string{
		"/":        "index.html",
		"/about":   "about.html",
		"/missing": "404.html",
	}
	if len(pageMap) != len(want) {
		t.Fatalf("pageMap has %d entries, want %d: %v", len(pageMap), len(want), pageMap)
	}
	for path, file := range want {
		if pageMap[path] != file {
			t.Errorf("pageMap[%q] = %q, want %q", path, pageMap[path], file)
		}
	}
}

func TestBuildPageMapDerivesPathFromFilename(t *testing.T) {
	pageMap, err := BuildPageMap([]types.PageReport{
		{
			Descriptor: types.PageDescriptor{Type: types.DescriptorSPA, Filename: "blog/index.html"},
			Status:     types.PageSuccess,
		},
	})
	if err != nil {
		t.Fatalf("BuildPageMap() error = %v", err)
	}
	if pageMap["/blog"] != "blog/index.html" {
		t.Errorf("pageMap = %v, want /blog -> blog/index.html", pageMap)
	}
}

func TestBuildPageMapConflicts(t *testing.T) {
	_, err := BuildPageMap([]types.PageReport{
		successReport("/about/", "about.html"),
		successReport("/about", "about-2.html"),
	})
	if err == nil {
		t.Fatal("conflicting normalized paths must error")
	}
	for _, fragment := range []string{"/about", "about.html", "about-2.html"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q should mention %q", err, fragment)
		}
	}
}

func TestBuildPageMapSameFileTwiceIsNotAConflict(t *testing.T) {
	pageMap, err := BuildPageMap([]types.PageReport{
		successReport("/about", "about.html"),
		successReport("/about/", "about.html"),
	})
	if err != nil {
		t.Fatalf("same filename for the same path is not a conflict: %v", err)
	}
	if pageMap["/about"] != "about.html" {
		t.Errorf("pageMap = %v, want /about -> about.html", pageMap)
	}
}
