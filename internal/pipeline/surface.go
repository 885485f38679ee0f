package pipeline

import (
	"fmt"
	"path"
	"strings"

	"github.com/samber/lo"
	"github.com/wextkit/cli/internal/directive"
)

// Surface is one output execution context: a named HTML page, or the
// background script context (which has no HTML).
type Surface struct {
	ID string
	// HTMLPath is the output page filename; empty for the background
	// surface.
	HTMLPath string
	// ShimPath is the externalized script file the surface loads.
	ShimPath string
	// Entry is the wasm entry function bound to this surface.
	Entry      string
	Background bool
	NoReload   bool
}

// DeriveSurfaces maps every page and background-script directive to exactly
// one surface, preserving directive order. Duplicate surface ids are
// rejected; the ids must be unique for include filters to mean anything.
func DeriveSurfaces(dirs []directive.Directive) ([]Surface, error) {
	declaring := lo.Filter(dirs, func(d directive.Directive, _ int) bool {
		return d.Kind == directive.KindPage || d.Kind == directive.KindBackgroundScript
	})

	surfaces := make([]Surface, 0, len(declaring))
	seen := make(map[string]struct{}, len(declaring))
	for _, d := range declaring {
		s := surfaceFor(d)
		if _, dup := seen[s.ID]; dup {
			return nil, &directive.MalformedDirectiveError{
				Tag:    d.TargetRef,
				Reason: fmt.Sprintf("duplicate surface id %q", s.ID),
			}
		}
		seen[s.ID] = struct{}{}
		surfaces = append(surfaces, s)
	}
	return surfaces, nil
}

func surfaceFor(d directive.Directive) Surface {
	id := targetStem(d.TargetRef)
	if name, ok := d.Attr("name"); ok && name != "" {
		id = name
	}

	entry := id
	if e, ok := d.Attr(directive.EntryAttr); ok && e != "" {
		entry = e
	}

	s := Surface{
		ID:       id,
		Entry:    entry,
		NoReload: d.NoReload(),
	}
	if d.Kind == directive.KindBackgroundScript {
		s.Background = true
		s.ShimPath = d.TargetRef
	} else {
		s.HTMLPath = d.TargetRef
		s.ShimPath = ShimPathFor(d.TargetRef)
	}
	return s
}

// ShimPathFor derives a page's shim filename from its output HTML filename:
// dots become underscores and a _shim.js suffix is appended, so
// options.html loads options_html_shim.js.
func ShimPathFor(htmlPath string) string {
	return strings.ReplaceAll(htmlPath, ".", "_") + "_shim.js"
}

func targetStem(ref string) string {
	base := path.Base(ref)
	return strings.TrimSuffix(base, path.Ext(base))
}
