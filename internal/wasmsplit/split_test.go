package wasmsplit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindWasmFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app-1234_bg.wasm"), []byte{0x00, 0x61, 0x73, 0x6d}, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets.wasm"), 0755))

	path, err := findWasmFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app-1234_bg.wasm"), path)
}

func TestFindWasmFileMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0644))

	_, err := findWasmFile(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no wasm binary")
}
