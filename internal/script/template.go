// Package script renders externalized shim files from the inline code the
// bundler emitted: entry-point injection, background wrapping, and
// dev-server auto-reload handling.
package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Dev-server placeholders the bundler leaves in its auto-reload code when it
// expects to serve the output itself. Extension contexts never load through
// that server, so the values are baked in at build time instead.
const (
	addressPlaceholder = "{{__TRUNK_ADDRESS__}}"
	wsBasePlaceholder  = "{{__TRUNK_WS_BASE__}}"
)

// ServeConfig holds the dev-server connection values substituted into
// auto-reload code.
type ServeConfig struct {
	Address string
	Port    string
	WSBase  string
}

// HostPort renders the address:port pair substituted for the bundler's
// address placeholder.
func (c ServeConfig) HostPort() string {
	return c.Address + ":" + c.Port
}

// Template is the parsed form of a surface's concatenated inline script
// bodies. Imports are held separately so the background wrapper never
// encloses them (import statements must stay top-level), and the auto-reload
// tail is held separately so no-reload surfaces can drop it.
type Template struct {
	imports    string
	body       string
	autoReload string
}

// The bundler deprecated passing a bare path to its wasm init function;
// calls are rewritten to the object form it expects, which silences its
// console warning.
var initCallRE = regexp.MustCompile(`\binit\((['"][^'"]*['"])\)`)

// Parse splits concatenated inline script bodies into imports, main body,
// and an optional auto-reload tail. The tail is everything after the
// bundler's dispatchEvent line, and only counts as auto-reload code when it
// actually declares a function; otherwise it stays part of the body.
func Parse(contents string) Template {
	contents = fixInitCalls(contents)

	imports, rest := splitImports(contents)

	body, tail := splitAfterDispatchEvent(rest)
	if !strings.Contains(tail, "function") {
		body += tail
		tail = ""
	}

	return Template{imports: imports, body: body, autoReload: tail}
}

// RenderOptions selects how one surface's shim is rendered.
type RenderOptions struct {
	// Entry is the wasm entry function invoked once the module's own
	// initialization has run.
	Entry string
	// NoReload drops the auto-reload tail entirely.
	NoReload bool
	// Background wraps the body in a self-invoking async block, as
	// service-worker contexts reject top-level await.
	Background bool
	// Serve provides the dev-server values substituted into auto-reload
	// code.
	Serve ServeConfig
}

// Render produces the final shim contents. Exactly one entry invocation is
// appended after all externalized code, so module-global setup performed by
// the bundler's initialization still executes first.
func (t Template) Render(opts RenderOptions) string {
	body := t.body
	if !opts.NoReload && t.autoReload != "" {
		body += t.substitutedReload(opts.Serve)
	}
	entry := fmt.Sprintf("await wasm.%s();\n", opts.Entry)

	if opts.Background {
		return t.imports + "(async () => {\n\n" + body + entry + "\n})();\n"
	}
	return t.imports + body + entry
}

func (t Template) substitutedReload(serve ServeConfig) string {
	s := strings.ReplaceAll(t.autoReload, addressPlaceholder, serve.HostPort())
	return strings.ReplaceAll(s, wsBasePlaceholder, serve.WSBase)
}

func fixInitCalls(s string) string {
	return initCallRE.ReplaceAllString(s, "init({module_or_path: $1})")
}

// splitImports peels off the leading import statements, keeping their
// trailing newlines with them so reassembly is byte-exact.
func splitImports(s string) (imports, rest string) {
	i := 0
	for i < len(s) {
		lineEnd := strings.IndexByte(s[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(s) - i - 1
		}
		line := s[i : i+lineEnd+1]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import{") {
			i += len(line)
			continue
		}
		break
	}
	return s[:i], s[i:]
}

// splitAfterDispatchEvent splits s just past the end of the bundler's
// dispatchEvent statement. When no dispatchEvent is present the whole input
// is the body.
func splitAfterDispatchEvent(s string) (body, tail string) {
	start := strings.Index(s, "\ndispatchEvent")
	if start < 0 {
		return s, ""
	}
	end := strings.Index(s[start:], ";\n")
	if end < 0 {
		return s, ""
	}
	cut := start + end + len(";\n")
	return s[:cut], s[cut:]
}
