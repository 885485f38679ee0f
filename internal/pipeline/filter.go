package pipeline

import (
	"github.com/samber/lo"
	"github.com/wextkit/cli/internal/directive"
)

// ForSurface returns the subset of directives that apply to one surface: a
// directive applies when its include filter is empty or contains the
// surface's id. Manifest directives are excluded here; their filters are
// target-scoped and evaluated by manifest selection instead.
func ForSurface(dirs []directive.Directive, s Surface) []directive.Directive {
	return lo.Filter(dirs, func(d directive.Directive, _ int) bool {
		return d.Kind != directive.KindManifest && d.AppliesTo(s.ID)
	})
}

// manifestCandidates returns the manifest directives admitted by the build
// target. A manifest with no include filter applies to every target.
func manifestCandidates(dirs []directive.Directive, target directive.BuildTarget) []directive.Directive {
	return lo.Filter(dirs, func(d directive.Directive, _ int) bool {
		return d.Kind == directive.KindManifest && d.AppliesTo(string(target))
	})
}

// validateIncludeRefs rejects page and background directives whose include
// filters name surfaces that were never declared. Silently ignoring such a
// filter would hide a typo'd surface name from the author.
func validateIncludeRefs(dirs []directive.Directive, surfaces []Surface) error {
	ids := lo.SliceToMap(surfaces, func(s Surface) (string, struct{}) {
		return s.ID, struct{}{}
	})
	for _, d := range dirs {
		if d.Kind == directive.KindManifest {
			continue
		}
		for _, name := range d.Include {
			if _, ok := ids[name]; !ok {
				return &UnknownSurfaceReferenceError{Name: name, Where: "directive " + d.TargetRef}
			}
		}
	}
	return nil
}
