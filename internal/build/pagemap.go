package build

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/glimt-studio/skald/internal/core"
	"github.com/glimt-studio/skald/internal/types"
)

// BuildPageMap maps each successfully generated page's normalized URL path
// to its output filename. Two descriptors whose normalized paths collide
// with different filenames fail the whole build: a silent map that hides one
// of them is worse than no map.
func BuildPageMap(reports []types.PageReport) (map[string]string, error) {
	pageMap := make(map[string]string)
	filesByPath := make(map[string][]string)

	for _, report := range reports {
		if report.Status != types.PageSuccess && report.Status != types.PageNotFound {
			continue
		}

		path := routePathFor(report.Descriptor)
		if !slices.Contains(filesByPath[path], report.Descriptor.Filename) {
			filesByPath[path] = append(filesByPath[path], report.Descriptor.Filename)
		}
		pageMap[path] = report.Descriptor.Filename
	}

	var conflicts []string
	for path, files := range filesByPath {
		if len(files) > 1 {
			sort.Strings(files)
			conflicts = append(conflicts, fmt.Sprintf("%s -> [%s]", path, strings.Join(files, ", ")))
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, fmt.Errorf("page map path conflicts: %s", strings.Join(conflicts, "; "))
	}

	return pageMap, nil
}

func routePathFor(d types.PageDescriptor) string {
	if d.Path != "" {
		return core.NormalizeRoutePath(d.Path)
	}
	return core.RoutePathForFile(d.Filename)
}
