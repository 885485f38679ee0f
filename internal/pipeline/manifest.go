package pipeline

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/wextkit/cli/internal/directive"
)

// ManifestFileName is the canonical name browsers expect at the extension
// root.
const ManifestFileName = "manifest.json"

// SelectManifest resolves the single manifest directive admitted by the
// build target. Zero matches and multiple matches are both configuration
// defects, reported as distinct errors; there is no silent fallback.
func SelectManifest(dirs []directive.Directive, target directive.BuildTarget) (directive.Directive, error) {
	matches := manifestCandidates(dirs, target)
	switch len(matches) {
	case 0:
		return directive.Directive{}, &NoManifestMatchError{Target: target}
	case 1:
		return matches[0], nil
	}
	return directive.Directive{}, &AmbiguousManifestError{
		Target: target,
		Matches: lo.Map(matches, func(d directive.Directive, _ int) string {
			return d.TargetRef
		}),
	}
}

// ManifestSummary holds display fields read back from a committed manifest.
type ManifestSummary struct {
	Name    string
	Version string
	Valid   bool
}

// SummarizeManifest reads the committed manifest for build reporting. The
// copy itself is byte-for-byte, so an invalid manifest is surfaced as a
// warning by the caller rather than failing the build here.
func SummarizeManifest(stagingDir string) (ManifestSummary, error) {
	data, err := os.ReadFile(filepath.Join(stagingDir, ManifestFileName))
	if err != nil {
		return ManifestSummary{}, err
	}
	if !gjson.ValidBytes(data) {
		return ManifestSummary{Valid: false}, nil
	}
	return ManifestSummary{
		Name:    gjson.GetBytes(data, "name").String(),
		Version: gjson.GetBytes(data, "manifest_version").Raw,
		Valid:   true,
	}, nil
}
