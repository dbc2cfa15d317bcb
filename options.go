package skald

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/glimt-studio/skald/internal/adapters"
	"github.com/glimt-studio/skald/internal/adapters/env"
	"github.com/glimt-studio/skald/internal/core"
)

const defaultTemplatePath = "index.html"

type config struct {
	templateSource adapters.TemplateSource
	containerID    string
	isDev          bool
	cookiePolicy   core.CookiePolicy
	errorPage      core.ErrorPageFunc
	appConfig      any
	cdnBaseURL     string
	renderTimeout  time.Duration
	logger         *slog.Logger
}

func defaultConfig() config {
	return config{
		templateSource: adapters.FileTemplateSource{Path: defaultTemplatePath},
		containerID:    core.DefaultContainerID,
		isDev:          env.IsDev(),
	}
}

type Option func(*config) error

// WithTemplate reads the shell template from a file path.
func WithTemplate(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.New("skald: template path cannot be empty")
		}
		c.templateSource = adapters.FileTemplateSource{Path: path}
		return nil
	}
}

// WithTemplateFS reads the shell template from an fs.FS, typically an
// embed.FS in production builds.
func WithTemplateFS(fsys fs.FS, path string) Option {
	return func(c *config) error {
		if fsys == nil {
			return errors.New("skald: template fs cannot be nil")
		}
		c.templateSource = adapters.FSTemplateSource{FS: fsys, Path: path}
		return nil
	}
}

// WithTemplateString uses a literal HTML string as the shell template.
func WithTemplateString(html string) Option {
	return func(c *config) error {
		c.templateSource = adapters.StringTemplateSource{HTML: html}
		return nil
	}
}

// WithContainerID overrides the id of the mount element the client runtime
// hydrates into. Defaults to "root".
func WithContainerID(id string) Option {
	return func(c *config) error {
		if id == "" {
			return errors.New("skald: container id cannot be empty")
		}
		c.containerID = id
		return nil
	}
}

// WithDevMode forces development mode on or off, overriding SKALD_DEV.
func WithDevMode(enabled bool) Option {
	return func(c *config) error {
		c.isDev = enabled
		return nil
	}
}

// WithCookiePolicy sets the cookie filter applied to inbound Cookie headers
// and outbound Set-Cookie headers in both dispatch directions.
func WithCookiePolicy(policy CookiePolicy) Option {
	return func(c *config) error {
		c.cookiePolicy = policy
		return nil
	}
}

// WithErrorPage installs a custom error page generator. When it errors or
// panics the built-in page is served instead.
func WithErrorPage(fn ErrorPageFunc) Option {
	return func(c *config) error {
		c.errorPage = fn
		return nil
	}
}

// WithAppConfig sets the value serialized into window.__APP_CONFIG__ on
// every injected page.
func WithAppConfig(value any) Option {
	return func(c *config) error {
		c.appConfig = value
		return nil
	}
}

// WithCDNBaseURL rewrites the CDN placeholder in asset URLs to the given
// base. Without it the placeholder is stripped and assets stay root-relative.
func WithCDNBaseURL(base string) Option {
	return func(c *config) error {
		c.cdnBaseURL = base
		return nil
	}
}

// WithRenderTimeout bounds each render call. A timeout surfaces as a render
// error and takes the error-page path.
func WithRenderTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return errors.New("skald: render timeout must be positive")
		}
		c.renderTimeout = timeout
		return nil
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
