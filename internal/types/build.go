package types

// DescriptorKind selects how a build-time page is produced: ssg pages are
// fully pre-rendered through the render call, spa pages are metadata-only
// shells the client renders from scratch.
type DescriptorKind string

const (
	DescriptorSSG DescriptorKind = "ssg"
	DescriptorSPA DescriptorKind = "spa"
)

// PageDescriptor describes one page of a build. Consumed once, never mutated.
type PageDescriptor struct {
	Type     DescriptorKind `json:"type"`
	Path     string         `json:"path,omitempty"`
	Filename string         `json:"filename"`

	// spa descriptors only.
	Title          string         `json:"title,omitempty"`
	Description    string         `json:"description,omitempty"`
	Meta           []string       `json:"meta,omitempty"`
	RequestContext map[string]any `json:"requestContext,omitempty"`
}

type PageStatus string

const (
	PageSuccess  PageStatus = "success"
	PageNotFound PageStatus = "not_found"
	PageError    PageStatus = "error"
)

type PageReport struct {
	Descriptor   PageDescriptor `json:"descriptor"`
	Status       PageStatus     `json:"status"`
	OutputPath   string         `json:"outputPath,omitempty"`
	ErrorDetails string         `json:"errorDetails,omitempty"`
	ElapsedMs    int64          `json:"elapsedMs"`
}

// BuildReport is the sole artifact of a build run. A fatal error means the
// whole build was aborted; per-page errors never abort the batch.
type BuildReport struct {
	Pages          []PageReport `json:"pages"`
	TotalPages     int          `json:"totalPages"`
	SuccessCount   int          `json:"successCount"`
	ErrorCount     int          `json:"errorCount"`
	NotFoundCount  int          `json:"notFoundCount"`
	TotalElapsedMs int64        `json:"totalElapsedMs"`
	FatalError     string       `json:"fatalError,omitempty"`
}

func (r BuildReport) HasFailures() bool {
	return r.FatalError != "" || r.ErrorCount > 0
}
