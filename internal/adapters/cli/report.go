// Package cli prints build reports for the skald-build command.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/glimt-studio/skald/internal/types"
)

const (
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiGray   = "\033[90m"
	ansiReset  = "\033[0m"
)

// ReportPrinter renders a build report for the terminal: one line per page,
// then the per-bucket totals and the overall outcome. Colors are on when
// stdout is a terminal.
type ReportPrinter struct {
	colors bool
}

func NewReportPrinter() *ReportPrinter {
	return &ReportPrinter{colors: isTerminal()}
}

func (p *ReportPrinter) DisableColors() {
	p.colors = false
}

func (p *ReportPrinter) paint(code, text string) string {
	if !p.colors {
		return text
	}
	return code + text + ansiReset
}

func (p *ReportPrinter) PrintHeader(msg string) {
	fmt.Println(msg)
	fmt.Println()
}

func (p *ReportPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  "+p.paint(ansiRed, "✗ ")+"%s\n", fmt.Sprintf(format, args...))
}

func (p *ReportPrinter) PrintReport(report types.BuildReport) {
	for _, page := range report.Pages {
		p.printPage(page)
	}

	fmt.Println()
	fmt.Printf("  %d pages: %d generated, %d not found, %d failed\n",
		report.TotalPages, report.SuccessCount, report.NotFoundCount, report.ErrorCount)

	elapsed := formatMillis(report.TotalElapsedMs)
	switch {
	case report.FatalError != "":
		fmt.Fprintf(os.Stderr, "  %s\n", p.paint(ansiRed, "Build failed: "+report.FatalError))
	case report.ErrorCount > 0:
		fmt.Fprintf(os.Stderr, "  %s\n", p.paint(ansiRed, fmt.Sprintf("Build finished with errors after %s", elapsed)))
	default:
		fmt.Printf("  "+p.paint(ansiGreen, "✓ ")+"Build complete in %s\n", elapsed)
	}
}

func (p *ReportPrinter) printPage(page types.PageReport) {
	switch page.Status {
	case types.PageSuccess:
		fmt.Printf("  %s%s %s\n", p.paint(ansiGreen, "✓ "), page.Descriptor.Filename, p.paint(ansiGray, formatMillis(page.ElapsedMs)))
	case types.PageNotFound:
		fmt.Printf("  %s%s %s\n", p.paint(ansiYellow, "⚠ "), page.Descriptor.Filename, p.paint(ansiGray, "not found"))
	default:
		fmt.Fprintf(os.Stderr, "  %s%s\n", p.paint(ansiRed, "✗ "), page.Descriptor.Filename)
		if page.ErrorDetails != "" {
			fmt.Fprintf(os.Stderr, "      • %s\n", page.ErrorDetails)
		}
	}
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

func isTerminal() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}
