package core

// Reserved tokens recognized inside a shell template. The comment markers
// are insertion points; the CDN placeholder is rewritten in asset URLs.
const (
	HeadMarker           = "ss-head"
	OutletMarker         = "ss-outlet"
	ContextScriptsMarker = "context-scripts-injection-point"
	MarkerPrefix         = "ss-"

	DevModeComment = "dev-mode"

	CDNPlaceholder = "__CDN_URL__"

	DefaultContainerID = "root"
)

// Global variables the injected context scripts assign to.
const (
	RequestContextGlobal = "__REQUEST_CONTEXT__"
	AppConfigGlobal      = "__APP_CONFIG__"
)

// TemplateMode selects the wording of validation errors: the same template
// is validated before live serving (SSR) and before static generation (SSG).
type TemplateMode int

const (
	ModeSSR TemplateMode = iota
	ModeSSG
)

func (m TemplateMode) String() string {
	if m == ModeSSG {
		return "ssg"
	}
	return "ssr"
}
