// skald-build generates static shell pages from a page descriptor file.
//
// spa descriptors are generated here directly. ssg descriptors need the
// application's render function and are generated from the application
// binary via App.GenerateBuild; when they appear in the descriptor file they
// are reported as errors.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/glimt-studio/skald/internal/adapters"
	skaldcli "github.com/glimt-studio/skald/internal/adapters/cli"
	"github.com/glimt-studio/skald/internal/adapters/fs"
	"github.com/glimt-studio/skald/internal/build"
	"github.com/glimt-studio/skald/internal/core"
	"github.com/glimt-studio/skald/internal/types"
)

type buildFlags struct {
	template    string
	outDir      string
	pageMap     string
	reportPath  string
	containerID string
	cdnBaseURL  string
	dev         bool
	noColor     bool
}

func main() {
	flags := buildFlags{}

	cmd := &cobra.Command{
		Use:   "skald-build <pages.json>",
		Short: "Generate static shell pages from a page descriptor file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flags.template, "template", "index.html", "path to the HTML shell template")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "dist", "output directory for generated pages")
	cmd.Flags().StringVar(&flags.pageMap, "page-map", "", "write a path-to-file JSON map to this path inside the output directory")
	cmd.Flags().StringVar(&flags.reportPath, "report", "", "write the build report JSON to this file")
	cmd.Flags().StringVar(&flags.containerID, "container", core.DefaultContainerID, "id of the mount element")
	cmd.Flags().StringVar(&flags.cdnBaseURL, "cdn-base", "", "CDN base URL substituted for the asset placeholder")
	cmd.Flags().BoolVar(&flags.dev, "dev", false, "development mode (shows error details)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	if err := cmd.Execute(); err != nil {
		printer := skaldcli.NewReportPrinter()
		printer.PrintError("%v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, pagesPath string, flags buildFlags) error {
	_ = godotenv.Load()

	printer := skaldcli.NewReportPrinter()
	if flags.noColor {
		printer.DisableColors()
	}
	printer.PrintHeader("Skald Build")

	pages, err := loadDescriptors(pagesPath)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found in %s", pagesPath)
	}

	provider := adapters.NewTemplateProvider(
		adapters.FileTemplateSource{Path: flags.template},
		core.ModeSSG,
		flags.dev,
		flags.containerID,
	)

	report := build.Generate(cmd.Context(), pages, build.Options{
		Templates:   provider,
		FS:          fs.NewRootedFS(flags.outDir),
		CDNBaseURL:  flags.cdnBaseURL,
		PageMapPath: flags.pageMap,
	})

	printer.PrintReport(report)

	if flags.reportPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize build report: %w", err)
		}
		if err := os.WriteFile(flags.reportPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write build report: %w", err)
		}
	}

	if report.HasFailures() {
		return fmt.Errorf("build failed")
	}
	return nil
}

func loadDescriptors(path string) ([]types.PageDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var pages []types.PageDescriptor
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return pages, nil
}
