// Package wasmsplit strips DWARF debug info out of the staged wasm binary
// into a sidecar file served by the dev server. Debugger extensions cannot
// fetch debug files over the extension protocol, so the binary is pointed at
// an http URL instead.
package wasmsplit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Options configures one split run.
type Options struct {
	// StagingDir is the bundler output directory holding the wasm binary.
	StagingDir string
	// ServeAddress and ServePort locate the dev server the debug sidecar is
	// fetched from.
	ServeAddress string
	ServePort    string
}

// Result reports what a split produced.
type Result struct {
	WasmPath  string
	DebugPath string
	DebugURL  string
}

// Split finds the staged wasm binary, preserves the original alongside it,
// and runs wasm-split to strip debug info into a sidecar referenced by URL.
func Split(ctx context.Context, opts Options) (*Result, error) {
	if _, err := exec.LookPath("wasm-split"); err != nil {
		return nil, fmt.Errorf("wasm-split not found in PATH: %w", err)
	}

	wasmPath, err := findWasmFile(opts.StagingDir)
	if err != nil {
		return nil, err
	}

	origPath := wasmPath + ".orig"
	debugPath := wasmPath + ".debug"
	if err := os.Rename(wasmPath, origPath); err != nil {
		return nil, fmt.Errorf("failed to set aside wasm binary: %w", err)
	}

	debugURL := fmt.Sprintf("http://%s:%s/%s", opts.ServeAddress, opts.ServePort, filepath.Base(debugPath))

	cmd := exec.CommandContext(ctx, "wasm-split",
		origPath,
		"-o", wasmPath,
		"--strip",
		"--debug-out", debugPath,
		"--external-dwarf-url", debugURL,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("wasm-split failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return &Result{WasmPath: wasmPath, DebugPath: debugPath, DebugURL: debugURL}, nil
}

// findWasmFile returns the single wasm binary in the staging directory.
func findWasmFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read staging dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".wasm") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no wasm binary found in %s", dir)
}
