package skald

import (
	"github.com/glimt-studio/skald/internal/core"
	"github.com/glimt-studio/skald/internal/types"
)

// Render contract.
type (
	RenderFunc    = types.RenderFunc
	RenderRequest = types.RenderRequest
	RenderResult  = types.RenderResult
	PageResult    = types.PageResult
	RawResponse   = types.RawResponse
	HeadMetadata  = core.HeadMetadata
)

// PageOutcome wraps a successfully rendered page.
func PageOutcome(p *PageResult) *RenderResult { return types.PageOutcome(p) }

// ResponseOutcome wraps a raw protocol-level response such as a redirect.
func ResponseOutcome(r *RawResponse) *RenderResult { return types.ResponseOutcome(r) }

// ErrorOutcome wraps a render failure; the dispatcher turns it into an
// error page.
func ErrorOutcome(err error) *RenderResult { return types.ErrorOutcome(err) }

// Policies and error pages.
type (
	CookiePolicy  = core.CookiePolicy
	ErrorPageFunc = core.ErrorPageFunc
)

// Build-time page generation.
type (
	PageDescriptor = types.PageDescriptor
	PageReport     = types.PageReport
	BuildReport    = types.BuildReport
)

const (
	DescriptorSSG = types.DescriptorSSG
	DescriptorSPA = types.DescriptorSPA

	PageSuccess  = types.PageSuccess
	PageNotFound = types.PageNotFound
	PageError    = types.PageError
)
