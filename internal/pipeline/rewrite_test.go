package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<!DOCTYPE html>
<html>
<head>
<link data-wext="page" href="popup.html">
<link data-wext="manifest" href="manifest.json">
<link rel="modulepreload" href="/app-1234.js" integrity="sha384-abc">
<link rel="preload" href="/app-1234_bg.wasm" as="fetch" type="application/wasm">
<link rel="stylesheet" href="/style.css" integrity="sha384-def">
<script type="module" nonce="n0nce">import init, * as wasm from '/app-1234.js';
await init({module_or_path: '/app-1234_bg.wasm'});
</script>
<script></script>
</head>
<body>
<h1 data-wext-include="popup">Popup</h1>
<h1 data-wext-include="options settings">Options</h1>
<div data-wext-include="options"><p>nested</p></div>
</body>
</html>`

func TestExtractInlineScripts(t *testing.T) {
	body, err := ExtractInlineScripts([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Contains(t, body, "import init, * as wasm from '/app-1234.js';")
	assert.Contains(t, body, "await init(")
}

func TestExtractInlineScriptsSkipsExternal(t *testing.T) {
	doc := `<html><head><script src="/vendor.js"></script><script>inline();</script></head></html>`
	body, err := ExtractInlineScripts([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "inline();", body)
}

func TestRenderPage(t *testing.T) {
	s := Surface{ID: "popup", HTMLPath: "popup.html", ShimPath: "popup_html_shim.js", Entry: "popup"}
	out, err := renderPage([]byte(sampleDoc), s)
	require.NoError(t, err)
	page := string(out)

	// Directive tags are gone.
	assert.NotContains(t, page, "data-wext=")
	// Preloads are gone.
	assert.NotContains(t, page, "modulepreload")
	assert.NotContains(t, page, `rel="preload"`)
	// Integrity attributes are stripped but their tags survive.
	assert.Contains(t, page, `href="/style.css"`)
	assert.NotContains(t, page, "integrity")
	// The inline script became a shim reference without the nonce, keeping
	// the rest of its attributes.
	assert.Contains(t, page, `<script type="module" src="/popup_html_shim.js"></script>`)
	assert.NotContains(t, page, "nonce")
	assert.NotContains(t, page, "import init")
	// Include filtering is evaluated against this surface only.
	assert.Contains(t, page, "<h1>Popup</h1>")
	assert.NotContains(t, page, "Options")
	assert.NotContains(t, page, "nested")
	// The stray empty script tag is dropped entirely.
	assert.NotContains(t, page, "<script></script>")
}

func TestRenderPageIsSurfaceLocal(t *testing.T) {
	popup := Surface{ID: "popup", HTMLPath: "popup.html", ShimPath: "popup_html_shim.js"}
	options := Surface{ID: "options", HTMLPath: "options.html", ShimPath: "options_html_shim.js"}

	popupOut, err := renderPage([]byte(sampleDoc), popup)
	require.NoError(t, err)
	optionsOut, err := renderPage([]byte(sampleDoc), options)
	require.NoError(t, err)

	assert.Contains(t, string(popupOut), "Popup")
	assert.NotContains(t, string(popupOut), "Options")
	assert.Contains(t, string(optionsOut), "Options")
	assert.NotContains(t, string(optionsOut), "Popup</h1>")
	// Multi-valued include lists admit every named surface.
	assert.Contains(t, string(optionsOut), "<h1>Options</h1>")
}

func TestRenderPageKeepsExternalScripts(t *testing.T) {
	doc := `<html><head><script src="/vendor.js"></script></head></html>`
	s := Surface{ID: "popup", ShimPath: "popup_html_shim.js"}
	out, err := renderPage([]byte(doc), s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<script src="/vendor.js"></script>`)
}

func TestRenderPageInlineScriptWithInclude(t *testing.T) {
	doc := `<html><head><script type="module" data-wext-include="popup">boot();</script></head></html>`
	popup := Surface{ID: "popup", ShimPath: "popup_html_shim.js"}
	options := Surface{ID: "options", ShimPath: "options_html_shim.js"}

	popupOut, err := renderPage([]byte(doc), popup)
	require.NoError(t, err)
	assert.Contains(t, string(popupOut), `<script type="module" src="/popup_html_shim.js"></script>`)
	assert.NotContains(t, string(popupOut), "data-wext-include")
	assert.NotContains(t, string(popupOut), "boot();")

	// A surface the include list omits gets neither the body nor the tag.
	optionsOut, err := renderPage([]byte(doc), options)
	require.NoError(t, err)
	assert.NotContains(t, string(optionsOut), "script")
}

func TestRenderPageIsDeterministic(t *testing.T) {
	s := Surface{ID: "popup", HTMLPath: "popup.html", ShimPath: "popup_html_shim.js"}
	first, err := renderPage([]byte(sampleDoc), s)
	require.NoError(t, err)
	second, err := renderPage([]byte(sampleDoc), s)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateElementIncludes(t *testing.T) {
	surfaces := []Surface{{ID: "popup"}, {ID: "options"}, {ID: "settings"}}
	assert.NoError(t, validateElementIncludes([]byte(sampleDoc), surfaces))

	err := validateElementIncludes([]byte(sampleDoc), []Surface{{ID: "popup"}})
	var unknown *UnknownSurfaceReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "options", unknown.Name)
}
