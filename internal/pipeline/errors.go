package pipeline

import (
	"fmt"
	"strings"

	"github.com/wextkit/cli/internal/directive"
)

// UnknownSurfaceReferenceError reports an include filter naming a surface
// that was never declared.
type UnknownSurfaceReferenceError struct {
	Name string
	// Where describes the declaration carrying the bad reference, either a
	// directive target or a rendered element tag.
	Where string
}

func (e *UnknownSurfaceReferenceError) Error() string {
	return fmt.Sprintf("include filter on %s references undeclared surface %q", e.Where, e.Name)
}

// NoManifestMatchError reports that no manifest directive resolved for the
// active build target.
type NoManifestMatchError struct {
	Target directive.BuildTarget
}

func (e *NoManifestMatchError) Error() string {
	return fmt.Sprintf("no manifest directive matches build target %q", e.Target)
}

// AmbiguousManifestError reports that more than one manifest directive
// resolved for the active build target.
type AmbiguousManifestError struct {
	Target  directive.BuildTarget
	Matches []string
}

func (e *AmbiguousManifestError) Error() string {
	return fmt.Sprintf("multiple manifest directives match build target %q: %s",
		e.Target, strings.Join(e.Matches, ", "))
}
