package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	}
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestZipDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"manifest.json":          `{"name": "test", "version": "1.0"}`,
		"background.js":          "console.log('background');",
		"popup.html":             "<html></html>",
		"icons/icon.png":         "fake-png-data",
		"app_bg.wasm":            "\x00asm",
		"app_bg.wasm.orig":       "debug original",
		"app_bg.wasm.debug":      "dwarf",
		"popup_html_shim.js":     "await wasm.popup();",
		"popup_html_shim.js.map": "{}",
	})

	dest := filepath.Join(t.TempDir(), "extension.zip")
	stats, err := ZipDirectory(tmpDir, dest, &ZipOptions{
		ExcludeFilenamePatterns: DefaultPackExclusions,
	})
	require.NoError(t, err)

	names := zipNames(t, dest)
	assert.Contains(t, names, "manifest.json")
	assert.Contains(t, names, "background.js")
	assert.Contains(t, names, "icons/icon.png")
	assert.Contains(t, names, "app_bg.wasm")
	assert.NotContains(t, names, "app_bg.wasm.orig")
	assert.NotContains(t, names, "app_bg.wasm.debug")
	assert.NotContains(t, names, "popup_html_shim.js.map")

	assert.Equal(t, 6, stats.FilesIncluded)
	assert.Equal(t, 3, stats.FilesExcluded)
	assert.Greater(t, stats.BytesIncluded, int64(0))
}

func TestZipDirectoryNoExclusions(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"manifest.json":     `{}`,
		"app_bg.wasm.debug": "dwarf",
	})

	dest := filepath.Join(t.TempDir(), "extension.zip")
	stats, err := ZipDirectory(tmpDir, dest, nil)
	require.NoError(t, err)

	names := zipNames(t, dest)
	assert.Contains(t, names, "app_bg.wasm.debug")
	assert.Equal(t, 2, stats.FilesIncluded)
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny([]string{"*.wasm.debug"}, "app.wasm.debug"))
	assert.True(t, matchesAny([]string{"*.map"}, "shim.js.map"))
	assert.False(t, matchesAny([]string{"*.map"}, "shim.js"))
	assert.False(t, matchesAny(nil, "anything"))
}
