package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanExtractsDirectivesInOrder(t *testing.T) {
	doc := `<!DOCTYPE html>
<html><head>
<link data-wext="page" href="popup.html">
<link data-wext="page" href="options.html" data-wext-entry="options_page">
<link data-wext="background-script" href="background.js">
<link data-wext="manifest" href="manifest.chrome.json" data-wext-include="chrome">
<script type="module">console.log("hi");</script>
</head><body></body></html>`

	dirs, err := ScanString(doc)
	require.NoError(t, err)
	require.Len(t, dirs, 4)

	assert.Equal(t, KindPage, dirs[0].Kind)
	assert.Equal(t, "popup.html", dirs[0].TargetRef)
	assert.Empty(t, dirs[0].Include)

	assert.Equal(t, KindPage, dirs[1].Kind)
	entry, ok := dirs[1].Attr(EntryAttr)
	assert.True(t, ok)
	assert.Equal(t, "options_page", entry)

	assert.Equal(t, KindBackgroundScript, dirs[2].Kind)
	assert.Equal(t, "background.js", dirs[2].TargetRef)

	assert.Equal(t, KindManifest, dirs[3].Kind)
	assert.Equal(t, []string{"chrome"}, dirs[3].Include)
}

func TestScanRejectsUnknownKind(t *testing.T) {
	doc := `<html><head><link data-wext="content-script" href="x.js"></head></html>`

	_, err := ScanString(doc)
	var malformed *MalformedDirectiveError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "content-script")
	assert.Contains(t, malformed.Tag, "x.js")
}

func TestScanRejectsMissingHref(t *testing.T) {
	doc := `<html><head><link data-wext="page" name="popup"></head></html>`

	_, err := ScanString(doc)
	var malformed *MalformedDirectiveError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "href")
}

func TestScanPreservesRawAttributes(t *testing.T) {
	doc := `<html><head><link data-wext="page" href="popup.html" name="pop" no-reload></head></html>`

	dirs, err := ScanString(doc)
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	name, ok := dirs[0].Attr("name")
	assert.True(t, ok)
	assert.Equal(t, "pop", name)
	assert.True(t, dirs[0].NoReload())
}

func TestScanIgnoresPlainTags(t *testing.T) {
	doc := `<html><head>
<link rel="stylesheet" href="style.css">
<div data-wext-include="popup">popup only</div>
</head></html>`

	dirs, err := ScanString(doc)
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestParseIncludeList(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"chrome", []string{"chrome"}},
		{"popup options", []string{"popup", "options"}},
		{"popup,options", []string{"popup", "options"}},
		{"popup, options", []string{"popup", "options"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIncludeList(tt.in))
		})
	}

	assert.Empty(t, ParseIncludeList(""))
}

func TestResolveTarget(t *testing.T) {
	target, err := ResolveTarget("")
	assert.NoError(t, err)
	assert.Equal(t, TargetChrome, target)

	target, err = ResolveTarget("firefox")
	assert.NoError(t, err)
	assert.Equal(t, TargetFirefox, target)

	_, err = ResolveTarget("safari")
	assert.Error(t, err)
}
