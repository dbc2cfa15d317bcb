// Package skald renders UI pages on demand or ahead of time and splices the
// rendered output into a shared HTML shell without breaking the client
// runtime's ability to hydrate that markup. Rendering itself is delegated to
// an opaque RenderFunc; skald owns the shell marker protocol, the outcome
// dispatch to HTTP responses and the build-time page generation loop.
package skald

import (
	"context"
	"errors"
	"net/http"

	"github.com/glimt-studio/skald/internal/adapters"
	"github.com/glimt-studio/skald/internal/adapters/fs"
	"github.com/glimt-studio/skald/internal/build"
	"github.com/glimt-studio/skald/internal/core"
	"github.com/glimt-studio/skald/internal/page"
)

type App struct {
	render   RenderFunc
	cfg      config
	provider *adapters.TemplateProvider
	handler  *page.Handler
}

// New creates an application around a render function. In production mode
// the shell template is loaded, validated and processed once here; a
// template missing a required marker fails startup rather than the first
// request.
func New(render RenderFunc, opts ...Option) (*App, error) {
	if render == nil {
		return nil, errors.New("skald: render function is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	provider := adapters.NewTemplateProvider(cfg.templateSource, core.ModeSSR, cfg.isDev, cfg.containerID)
	if !cfg.isDev {
		if _, err := provider.Template(); err != nil {
			return nil, err
		}
	}

	app := &App{
		render:   render,
		cfg:      cfg,
		provider: provider,
	}
	app.handler = page.NewHandler(page.Config{
		Render:        render,
		Templates:     provider,
		CookiePolicy:  cfg.cookiePolicy,
		ErrorPage:     cfg.errorPage,
		AppConfig:     cfg.appConfig,
		CDNBaseURL:    cfg.cdnBaseURL,
		IsDev:         cfg.isDev,
		RenderTimeout: cfg.renderTimeout,
		Logger:        cfg.logger,
	})

	return app, nil
}

// Handler returns the catch-all page handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close releases resources acquired at startup. The processed shell template
// cached in production mode is dropped; a later request reloads it. Close is
// safe to call more than once.
func (a *App) Close() error {
	a.provider.Invalidate()
	return nil
}

type router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

// Wrap registers the page handler as the catch-all route on an existing
// router and returns the combined handler.
func (a *App) Wrap(api router) http.Handler {
	if api == nil {
		panic("skald: nil router passed to Wrap; use app.Handler()")
	}
	api.Handle("/", a.handler)
	return api
}

// BuildOptions configures a static generation run.
type BuildOptions struct {
	// OutDir is the directory generated files are confined to.
	OutDir string
	// PageMapPath, when set, is the path (inside OutDir) of the JSON file
	// mapping normalized URL paths to generated filenames.
	PageMapPath string
}

// GenerateBuild pre-renders the described pages into OutDir using the same
// render and injection machinery as live serving, one page at a time.
func (a *App) GenerateBuild(ctx context.Context, pages []PageDescriptor, opts BuildOptions) BuildReport {
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "dist"
	}

	provider := adapters.NewTemplateProvider(a.cfg.templateSource, core.ModeSSG, false, a.cfg.containerID)

	return build.Generate(ctx, pages, build.Options{
		Render:      a.render,
		Templates:   provider,
		FS:          fs.NewRootedFS(outDir),
		AppConfig:   a.cfg.appConfig,
		CDNBaseURL:  a.cfg.cdnBaseURL,
		PageMapPath: opts.PageMapPath,
		Logger:      a.cfg.logger,
	})
}
