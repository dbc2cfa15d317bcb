package adapters

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/glimt-studio/skald/internal/core"
)

const sourceShell = `<html>
  <head><!--ss-head--></head>
  <body><div id="root"><!--ss-outlet--></div></body>
</html>`

// countingSource tracks how many times the template is loaded.
type countingSource struct {
	mu    sync.Mutex
	loads int
	html  string
	err   error
}

func (s *countingSource) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.html, s.err
}

func (s *countingSource) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func TestProviderCachesInProduction(t *testing.T) {
	source := &countingSource{html: sourceShell}
	provider := NewTemplateProvider(source, core.ModeSSR, false, "root")

	first, err := provider.Template()
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	second, err := provider.Template()
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}

	if first != second {
		t.Error("cached template should be identical across calls")
	}
	if got := source.loadCount(); got != 1 {
		t.Errorf("source loaded %d times, want 1", got)
	}
}

func TestProviderCachesErrorsInProduction(t *testing.T) {
	source := &countingSource{err: errors.New("disk on fire")}
	provider := NewTemplateProvider(source, core.ModeSSR, false, "root")

	if _, err := provider.Template(); err == nil {
		t.Fatal("expected load error")
	}
	if _, err := provider.Template(); err == nil {
		t.Fatal("expected cached load error")
	}
	if got := source.loadCount(); got != 1 {
		t.Errorf("source loaded %d times, want 1", got)
	}
}

func TestProviderInvalidateForcesReload(t *testing.T) {
	source := &countingSource{html: sourceShell}
	provider := NewTemplateProvider(source, core.ModeSSR, false, "root")

	if _, err := provider.Template(); err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if _, err := provider.Template(); err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := source.loadCount(); got != 1 {
		t.Fatalf("source loaded %d times before Invalidate, want 1", got)
	}

	provider.Invalidate()

	if _, err := provider.Template(); err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := source.loadCount(); got != 2 {
		t.Errorf("source loaded %d times after Invalidate, want 2", got)
	}
}

func TestProviderReloadsInDevMode(t *testing.T) {
	source := &countingSource{html: sourceShell}
	provider := NewTemplateProvider(source, core.ModeSSR, true, "root")

	for i := 0; i < 3; i++ {
		if _, err := provider.Template(); err != nil {
			t.Fatalf("Template() error = %v", err)
		}
	}
	if got := source.loadCount(); got != 3 {
		t.Errorf("source loaded %d times, want 3 (dev mode reloads every call)", got)
	}
}

func TestProviderValidatesTemplate(t *testing.T) {
	source := StringTemplateSource{HTML: "<html><head></head><body></body></html>"}
	provider := NewTemplateProvider(source, core.ModeSSR, false, "root")

	_, err := provider.Template()
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Template() error = %v, want a marker validation error", err)
	}
}

func TestFSTemplateSource(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/index.html": {Data: []byte(sourceShell)},
	}

	source := FSTemplateSource{FS: fsys, Path: "templates/index.html"}
	html, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if html != sourceShell {
		t.Error("Load() should return the file content verbatim")
	}

	missing := FSTemplateSource{FS: fsys, Path: "templates/other.html"}
	if _, err := missing.Load(); err == nil {
		t.Error("missing file should error")
	} else if !strings.Contains(err.Error(), "templates/other.html") {
		t.Errorf("error %q should name the missing path", err)
	}
}

func TestFileTemplateSourceMissing(t *testing.T) {
	source := FileTemplateSource{Path: t.TempDir() + "/nope.html"}
	if _, err := source.Load(); err == nil {
		t.Error("missing file should error")
	}
}
