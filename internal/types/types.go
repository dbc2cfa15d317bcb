package types

import (
	"context"
	"net/http"

	"github.com/glimt-studio/skald/internal/core"
)

// ResultKind tags the three shapes a render call may produce.
type ResultKind int

const (
	KindPage ResultKind = iota
	KindResponse
	KindRenderError
)

// RenderResult is the outcome of one render call. Exactly one of Page,
// Response or Err is set, selected by Kind. A result is constructed once per
// render, consumed immediately by the dispatcher and never reused.
type RenderResult struct {
	Kind     ResultKind
	Page     *PageResult
	Response *RawResponse
	Err      error
}

func PageOutcome(p *PageResult) *RenderResult {
	return &RenderResult{Kind: KindPage, Page: p}
}

func ResponseOutcome(r *RawResponse) *RenderResult {
	return &RenderResult{Kind: KindResponse, Response: r}
}

func ErrorOutcome(err error) *RenderResult {
	return &RenderResult{Kind: KindRenderError, Err: err}
}

// PageResult is a successfully rendered page. RequestContext is the
// per-request state serialized into window.__REQUEST_CONTEXT__; nil omits
// the script, an empty non-nil map still emits one.
type PageResult struct {
	StatusCode     int
	Body           string
	Head           core.HeadMetadata
	SetCookies     []string
	RequestContext map[string]any
	ErrorDetail    string
}

// RawResponse is a protocol-level response (typically a redirect or an
// upstream error) forwarded nearly verbatim: only the status, the Location
// and Set-Cookie headers and the body survive the containment boundary.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RenderRequest is the synthesized request handed to the render call.
type RenderRequest struct {
	Method     string
	Path       string
	Header     http.Header
	RemoteAddr string
	ID         string
}

// RenderFunc is the opaque render collaborator. Cancellation and the render
// timeout arrive through ctx; a returned error is routed to the error page.
type RenderFunc func(ctx context.Context, req *RenderRequest) (*RenderResult, error)
