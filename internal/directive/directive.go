// Package directive models the build declarations a project embeds in its
// bundler-emitted HTML and extracts them with a single streaming scan.
package directive

import (
	"fmt"
	"strings"
)

// Kind identifies what a directive declares.
type Kind string

const (
	// KindPage declares an output HTML page bound to one wasm entry point.
	KindPage Kind = "page"

	// KindBackgroundScript declares the background script context. It has no
	// HTML output; its target is the shim filename itself.
	KindBackgroundScript Kind = "background-script"

	// KindManifest declares a candidate manifest file for one or more build
	// targets.
	KindManifest Kind = "manifest"
)

// MarkerAttr is the attribute that marks a tag as a directive. Its value is
// the directive kind.
const MarkerAttr = "data-wext"

// IncludeAttr restricts a directive (or any plain element) to a set of
// surfaces, or a manifest directive to a set of build targets.
const IncludeAttr = "data-wext-include"

// EntryAttr names the wasm entry function a page or background surface calls.
const EntryAttr = "data-wext-entry"

// NoReloadAttr opts a surface out of dev-server auto-reload code.
const NoReloadAttr = "no-reload"

// Directive is one declared build intent, immutable once parsed.
type Directive struct {
	Kind      Kind
	TargetRef string
	// Include is the parsed include filter. Empty means the directive
	// applies to every surface (or, for manifests, every build target).
	Include []string
	// RawAttributes preserves the source tag's full attribute map, in
	// document order, for pass-through.
	RawAttributes []Attribute
}

// Attribute is one source-tag attribute, order preserved.
type Attribute struct {
	Key string
	Val string
}

// Attr returns the value of the named raw attribute and whether it was
// present on the source tag.
func (d Directive) Attr(key string) (string, bool) {
	for _, a := range d.RawAttributes {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// NoReload reports whether the directive opted out of auto-reload code.
func (d Directive) NoReload() bool {
	_, ok := d.Attr(NoReloadAttr)
	return ok
}

// AppliesTo reports whether the directive's include filter admits the given
// identifier. An empty filter admits everything.
func (d Directive) AppliesTo(id string) bool {
	if len(d.Include) == 0 {
		return true
	}
	for _, name := range d.Include {
		if name == id {
			return true
		}
	}
	return false
}

// ParseIncludeList splits a space- or comma-separated include attribute
// value into its identifiers.
func ParseIncludeList(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	return fields
}

// MalformedDirectiveError reports a directive tag that could not be parsed.
// The Tag field holds the rendered source tag so the author can locate it.
type MalformedDirectiveError struct {
	Tag    string
	Reason string
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("malformed directive %s: %s", e.Tag, e.Reason)
}
