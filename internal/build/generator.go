package build

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	iofs "io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glimt-studio/skald/internal/core"
	"github.com/glimt-studio/skald/internal/types"
)

// TemplateProvider hands out the processed shell template.
type TemplateProvider interface {
	Template() (string, error)
}

// WriteFS writes generated files, confined to the build output root.
type WriteFS interface {
	WriteFile(path string, data []byte, perm iofs.FileMode) error
}

type Options struct {
	// Render is required for ssg descriptors; spa descriptors never render.
	Render      types.RenderFunc
	Templates   TemplateProvider
	FS          WriteFS
	AppConfig   any
	CDNBaseURL  string
	PageMapPath string
	Logger      *slog.Logger
}

// Generate produces every described page sequentially and folds the per-page
// outcomes into an immutable report. Pages are processed in order and one at
// a time: deterministic timing and output ordering matter more here than
// throughput. Per-page failures stay local; template failures and page-map
// conflicts abort the build with a fatal error.
func Generate(ctx context.Context, pages []types.PageDescriptor, opts Options) types.BuildReport {
	start := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Templates == nil || opts.FS == nil {
		return fatalReport(start, "build misconfigured: template provider and output filesystem are required")
	}

	template, err := opts.Templates.Template()
	if err != nil {
		return fatalReport(start, fmt.Sprintf("template processing failed: %v", err))
	}

	reports := make([]types.PageReport, 0, len(pages))
	for _, descriptor := range pages {
		if ctx.Err() != nil {
			report := foldReport(reports, start)
			report.FatalError = fmt.Sprintf("build cancelled: %v", ctx.Err())
			return report
		}

		pageReport := generateOne(ctx, template, descriptor, opts)
		logger.LogAttrs(ctx, slog.LevelInfo, "page generated",
			slog.String("filename", descriptor.Filename),
			slog.String("status", string(pageReport.Status)),
			slog.Int64("elapsed_ms", pageReport.ElapsedMs),
		)
		reports = append(reports, pageReport)
	}

	report := foldReport(reports, start)

	if opts.PageMapPath != "" {
		pageMap, err := BuildPageMap(reports)
		if err != nil {
			report.FatalError = err.Error()
			return report
		}
		data, err := json.MarshalIndent(pageMap, "", "  ")
		if err != nil {
			report.FatalError = fmt.Sprintf("failed to serialize page map: %v", err)
			return report
		}
		if err := opts.FS.WriteFile(opts.PageMapPath, data, 0o644); err != nil {
			report.FatalError = fmt.Sprintf("failed to write page map: %v", err)
			return report
		}
	}

	return report
}

func fatalReport(start time.Time, message string) types.BuildReport {
	return types.BuildReport{
		Pages:          []types.PageReport{},
		TotalElapsedMs: time.Since(start).Milliseconds(),
		FatalError:     message,
	}
}

func foldReport(reports []types.PageReport, start time.Time) types.BuildReport {
	out := types.BuildReport{
		Pages:      reports,
		TotalPages: len(reports),
	}
	for _, r := range reports {
		switch r.Status {
		case types.PageSuccess:
			out.SuccessCount++
		case types.PageNotFound:
			out.NotFoundCount++
		default:
			out.ErrorCount++
		}
	}
	out.TotalElapsedMs = time.Since(start).Milliseconds()
	return out
}

func generateOne(ctx context.Context, template string, d types.PageDescriptor, opts Options) types.PageReport {
	start := time.Now()
	report := types.PageReport{Descriptor: d}

	switch d.Type {
	case types.DescriptorSSG:
		report = generateSSG(ctx, template, d, opts)
	case types.DescriptorSPA:
		report = generateSPA(template, d, opts)
	default:
		report.Status = types.PageError
		report.ErrorDetails = fmt.Sprintf("unrecognized page type %q", d.Type)
	}

	report.ElapsedMs = time.Since(start).Milliseconds()
	return report
}

// generateSSG renders the descriptor's path through the same outcome mapping
// the live dispatcher uses, but the assembled HTML goes to a file. A
// rendered 404 is written and bucketed as not_found rather than error.
func generateSSG(ctx context.Context, template string, d types.PageDescriptor, opts Options) types.PageReport {
	report := types.PageReport{Descriptor: d}

	if opts.Render == nil {
		report.Status = types.PageError
		report.ErrorDetails = "no render function configured for ssg pages"
		return report
	}

	if d.Path != "" {
		if err := core.ValidateRoutePath(d.Path); err != nil {
			report.Status = types.PageError
			report.ErrorDetails = fmt.Sprintf("invalid path %q: %v", d.Path, err)
			return report
		}
	}

	req := &types.RenderRequest{
		Method: http.MethodGet,
		Path:   d.Path,
		Header: http.Header{},
		ID:     uuid.NewString(),
	}

	result, err := invokeBuildRender(ctx, opts.Render, req)
	if err != nil {
		report.Status = types.PageError
		report.ErrorDetails = err.Error()
		return report
	}

	switch result.Kind {
	case types.KindPage:
		return writePageResult(template, d, result.Page, opts)

	case types.KindResponse:
		report.Status = types.PageError
		if result.Response == nil {
			report.ErrorDetails = "response outcome carried no response"
			return report
		}
		detail := fmt.Sprintf("render returned a raw response (status %d)", result.Response.StatusCode)
		if location := result.Response.Header.Get("Location"); location != "" {
			detail += " redirecting to " + location
		}
		report.ErrorDetails = detail + "; cannot be written as a static page"
		return report

	case types.KindRenderError:
		report.Status = types.PageError
		report.ErrorDetails = result.Err.Error()
		return report

	default:
		report.Status = types.PageError
		report.ErrorDetails = fmt.Sprintf("unrecognized render outcome kind %d", result.Kind)
		return report
	}
}

func invokeBuildRender(ctx context.Context, render types.RenderFunc, req *types.RenderRequest) (result *types.RenderResult, err error) {
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
		return nil, fmt.Errorf("render returned no result")
	}
	return result, nil
}

func writePageResult(template string, d types.PageDescriptor, page *types.PageResult, opts Options) types.PageReport {
	report := types.PageReport{Descriptor: d}

	if page == nil {
		report.Status = types.PageError
		report.ErrorDetails = "page outcome carried no page"
		return report
	}

	status := page.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	// Same rule as live serving: a 500 page is never materialized from its
	// rendered markup. At build time that is a per-page error.
	if status == http.StatusInternalServerError {
		report.Status = types.PageError
		report.ErrorDetails = "page rendered with status 500"
		if page.ErrorDetail != "" {
			report.ErrorDetails = page.ErrorDetail
		}
		return report
	}

	injectCtx := core.InjectContext{App: opts.AppConfig}
	if page.RequestContext != nil {
		injectCtx.Request = page.RequestContext
	}

	body, err := core.InjectContent(template, page.Head.Serialize(), page.Body, injectCtx, opts.CDNBaseURL)
	if err != nil {
		report.Status = types.PageError
		report.ErrorDetails = err.Error()
		return report
	}

	if err := opts.FS.WriteFile(d.Filename, []byte(body), 0o644); err != nil {
		report.Status = types.PageError
		report.ErrorDetails = fmt.Sprintf("failed to write %s: %v", d.Filename, err)
		return report
	}

	report.OutputPath = d.Filename
	if status == http.StatusNotFound {
		report.Status = types.PageNotFound
	} else {
		report.Status = types.PageSuccess
	}
	return report
}

// generateSPA writes a metadata-only shell with an empty outlet; the client
// renders from scratch, so no render call is made.
func generateSPA(template string, d types.PageDescriptor, opts Options) types.PageReport {
	report := types.PageReport{Descriptor: d}

	head := core.HeadMetadata{Title: d.Title}
	if d.Description != "" {
		head.Meta = append(head.Meta, fmt.Sprintf(`<meta name="description" content="%s">`, html.EscapeString(d.Description)))
	}
	head.Meta = append(head.Meta, d.Meta...)

	injectCtx := core.InjectContext{App: opts.AppConfig}
	if d.RequestContext != nil {
		injectCtx.Request = d.RequestContext
	}

	body, err := core.InjectContent(template, head.Serialize(), "", injectCtx, opts.CDNBaseURL)
	if err != nil {
		report.Status = types.PageError
		report.ErrorDetails = err.Error()
		return report
	}

	if err := opts.FS.WriteFile(d.Filename, []byte(body), 0o644); err != nil {
		report.Status = types.PageError
		report.ErrorDetails = fmt.Sprintf("failed to write %s: %v", d.Filename, err)
		return report
	}

	report.Status = types.PageSuccess
	report.OutputPath = d.Filename
	return report
}
