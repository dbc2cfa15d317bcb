package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glimt-studio/skald/internal/core"
	"github.com/glimt-studio/skald/internal/types"
)

const DefaultRenderTimeout = 30 * time.Second

// TemplateProvider hands out the processed shell template.
type TemplateProvider interface {
	Template() (string, error)
}

type Config struct {
	Render        types.RenderFunc
	Templates     TemplateProvider
	CookiePolicy  core.CookiePolicy
	ErrorPage     core.ErrorPageFunc
	AppConfig     any
	CDNBaseURL    string
	IsDev         bool
	RenderTimeout time.Duration
	Logger        *slog.Logger
}

// Handler is the catch-all page handler. It synthesizes a render request,
// invokes the opaque render call and maps its outcome to an HTTP response.
type Handler struct {
	render       types.RenderFunc
	templates    TemplateProvider
	cookiePolicy core.CookiePolicy
	errorPage    core.ErrorPageFunc
	appConfig    any
	cdnBaseURL   string
	isDev        bool
	timeout      time.Duration
	logger       *slog.Logger
}

func NewHandler(cfg Config) *Handler {
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{
		render:       cfg.Render,
		templates:    cfg.Templates,
		cookiePolicy: cfg.CookiePolicy,
		errorPage:    cfg.ErrorPage,
		appConfig:    cfg.AppConfig,
		cdnBaseURL:   cfg.CDNBaseURL,
		isDev:        cfg.IsDev,
		timeout:      timeout,
		logger:       logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rp := newReply(w)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req := h.synthesizeRequest(r)

	result, err := invokeRender(ctx, h.render, req)
	if err != nil {
		h.serveErrorPage(rp, r, req.ID, err)
		return
	}

	switch result.Kind {
	case types.KindPage:
		h.servePage(rp, r, req.ID, result.Page)
	case types.KindResponse:
		h.serveRawResponse(rp, result.Response)
	case types.KindRenderError:
		h.serveErrorPage(rp, r, req.ID, result.Err)
	default:
		h.serveErrorPage(rp, r, req.ID, fmt.Errorf("unrecognized render outcome kind %d", result.Kind))
	}
}

func (h *Handler) synthesizeRequest(r *http.Request) *types.RenderRequest {
	header := r.Header.Clone()
	if raw := header.Get("Cookie"); raw != "" {
		filtered := h.cookiePolicy.FilterCookieHeader(raw)
		if filtered == "" {
			header.Del("Cookie")
		} else {
			header.Set("Cookie", filtered)
		}
	}

	return &types.RenderRequest{
		Method:     r.Method,
		Path:       r.URL.Path,
		Header:     header,
		RemoteAddr: r.RemoteAddr,
		ID:         uuid.NewString(),
	}
}

// invokeRender calls the render function, converting panics and nil results
// into errors so every failure takes the error-page path.
func invokeRender(ctx context.Context, render types.RenderFunc, req *types.RenderRequest) (result *types.RenderResult, err error) {
	if render == nil {
		return nil, errors.New("no render function configured")
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("render panicked: %v", rec)
		}
	}()

	result, err = render(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("render returned no result")
	}
	return result, nil
}

func (h *Handler) servePage(rp *reply, r *http.Request, requestID string, page *types.PageResult) {
	if page == nil {
		h.serveErrorPage(rp, r, requestID, errors.New("page outcome carried no page"))
		return
	}

	status := page.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	for _, cookie := range h.cookiePolicy.FilterSetCookies(page.SetCookies) {
		rp.Header().Add("Set-Cookie", cookie)
	}

	// A server-rendered error boundary diverges from its client state, so a
	// 500 page is never hydrated: the rendered markup is discarded and the
	// error page regenerated deterministically.
	if status == http.StatusInternalServerError {
		cause := errors.New("page rendered with status 500")
		if page.ErrorDetail != "" {
			cause = errors.New(page.ErrorDetail)
		}
		h.serveErrorPage(rp, r, requestID, cause)
		return
	}

	template, err := h.templates.Template()
	if err != nil {
		h.serveErrorPage(rp, r, requestID, err)
		return
	}

	injectCtx := core.InjectContext{App: h.appConfig}
	if page.RequestContext != nil {
		injectCtx.Request = page.RequestContext
	}

	body, err := core.InjectContent(template, page.Head.Serialize(), page.Body, injectCtx, h.cdnBaseURL)
	if err != nil {
		h.serveErrorPage(rp, r, requestID, err)
		return
	}

	rp.HTML(status, body)
}

// serveRawResponse forwards an upstream redirect or error response. Only the
// Location and Set-Cookie headers cross the boundary; everything else is
// dropped deliberately.
func (h *Handler) serveRawResponse(rp *reply, resp *types.RawResponse) {
	if resp == nil {
		rp.Raw(http.StatusBadGateway, nil)
		return
	}

	if resp.Header != nil {
		if location := resp.Header.Get("Location"); location != "" {
			rp.Header().Set("Location", location)
		}
		for _, cookie := range h.cookiePolicy.FilterSetCookies(resp.Header.Values("Set-Cookie")) {
			rp.Header().Add("Set-Cookie", cookie)
		}
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	rp.Raw(status, resp.Body)
}

func (h *Handler) serveErrorPage(rp *reply, r *http.Request, requestID string, cause error) {
	h.logger.LogAttrs(r.Context(), slog.LevelError, "render failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", requestID),
		slog.Any("error", cause),
	)

	rp.HTML(http.StatusInternalServerError, h.generateErrorPage(r, cause))
}

// generateErrorPage prefers the configured generator and falls back to the
// built-in page when the generator itself errors or panics.
func (h *Handler) generateErrorPage(r *http.Request, cause error) string {
	if h.errorPage == nil {
		return core.DefaultErrorPage(cause, h.isDev)
	}

	page, err := func() (page string, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("error page generator panicked: %v", rec)
			}
		}()
		return h.errorPage(r, cause, h.isDev)
	}()
	if err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelWarn, "custom error page failed, using built-in",
			slog.Any("error", err),
		)
		return core.DefaultErrorPage(cause, h.isDev)
	}

	return page
}
