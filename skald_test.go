package skald

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const appShell = `<html>
  <head><!--ss-head--></head>
  <body>
    <div id="root"><!--ss-outlet--></div>
    <script type="module" src="__CDN_URL__/dist/app.js"></script>
  </body>
</html>`

func okRender(body string) RenderFunc {
	return func(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
		return PageOutcome(&PageResult{Body: body}), nil
	}
}

func TestNewRequiresRenderFunc(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should error")
	}
}

func TestNewValidatesTemplateAtStartup(t *testing.T) {
	brokenShell := "<html><head></head><body><div id=\"root\"></div></body></html>"

	t.Run("production fails fast", func(t *testing.T) {
		_, err := New(okRender("x"), WithTemplateString(brokenShell))
		if err == nil {
			t.Fatal("missing markers should fail New in production mode")
		}
		if !strings.Contains(err.Error(), "ss-head") || !strings.Contains(err.Error(), "ss-outlet") {
			t.Errorf("error %q should name the missing markers", err)
		}
	})

	t.Run("dev defers to first request", func(t *testing.T) {
		app, err := New(okRender("x"), WithTemplateString(brokenShell), WithDevMode(true))
		if err != nil {
			t.Fatalf("dev mode should not validate at startup: %v", err)
		}

		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500 from deferred validation", rec.Code)
		}
	})
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty template path", WithTemplate("")},
		{"nil template fs", WithTemplateFS(nil, "index.html")},
		{"empty container id", WithContainerID("")},
		{"zero render timeout", WithRenderTimeout(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(okRender("x"), WithTemplateString(appShell), tt.opt); err == nil {
				t.Error("invalid option should fail New")
			}
		})
	}
}

func TestAppServesPages(t *testing.T) {
	app, err := New(okRender("<h1>Hi</h1>"),
		WithTemplateString(appShell),
		WithAppConfig(map[string]any{"env": "test"}),
		WithCDNBaseURL("https://cdn.example.com"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<div id="root"><h1>Hi</h1></div>`) {
		t.Errorf("rendered markup missing from response:\n%s", body)
	}
	if !strings.Contains(body, "https://cdn.example.com/dist/app.js") {
		t.Error("CDN placeholder should be substituted")
	}
	if !strings.Contains(body, "window.__APP_CONFIG__") {
		t.Error("app config script missing")
	}
}

func TestAppClose(t *testing.T) {
	app, err := New(okRender("<p>page</p>"), WithTemplateString(appShell))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if err := app.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// The dropped cache is repopulated on the next request.
	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status after Close = %d, want 200", rec.Code)
	}
}

func TestWrapRegistersCatchAll(t *testing.T) {
	app, err := New(okRender("<p>page</p>"), WithTemplateString(appShell))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	combined := app.Wrap(mux)

	rec := httptest.NewRecorder()
	combined.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Body.String() != "ok" {
		t.Error("registered routes should keep precedence over the catch-all")
	}

	rec = httptest.NewRecorder()
	combined.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	if !strings.Contains(rec.Body.String(), "<p>page</p>") {
		t.Error("unmatched routes should fall through to the page handler")
	}
}

func TestWrapNilRouterPanics(t *testing.T) {
	app, err := New(okRender("x"), WithTemplateString(appShell))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Wrap(nil) should panic")
		}
	}()
	app.Wrap(nil)
}

func TestGenerateBuild(t *testing.T) {
	app, err := New(okRender("<h1>Static</h1>"), WithTemplateString(appShell))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "dist")
	report := app.GenerateBuild(context.Background(), []PageDescriptor{
		{Type: DescriptorSSG, Path: "/", Filename: "index.html"},
		{Type: DescriptorSPA, Filename: "app.html", Title: "App"},
	}, BuildOptions{OutDir: outDir, PageMapPath: "page-map.json"})

	if report.HasFailures() {
		t.Fatalf("build failed: fatal=%q pages=%+v", report.FatalError, report.Pages)
	}
	if report.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", report.SuccessCount)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("reading generated page: %v", err)
	}
	if !strings.Contains(string(data), "<h1>Static</h1>") {
		t.Error("generated page missing rendered markup")
	}

	mapData, err := os.ReadFile(filepath.Join(outDir, "page-map.json"))
	if err != nil {
		t.Fatalf("reading page map: %v", err)
	}
	var pageMap map[string]string
	if err := json.Unmarshal(mapData, &pageMap); err != nil {
		t.Fatalf("page map is not valid JSON: %v", err)
	}
	if pageMap["/"] != "index.html" || pageMap["/app"] != "app.html" {
		t.Errorf("pageMap = %v", pageMap)
	}
}
