// Package pipeline turns a bundler's single-page output into the multi-file
// layout browser extensions require: one HTML file per declared page, one
// shim script per surface, and the manifest selected for the build target.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/wextkit/cli/internal/directive"
	"github.com/wextkit/cli/internal/script"
	"github.com/wextkit/cli/pkg/util"
)

// IndexFileName is the bundler's emitted entry document.
const IndexFileName = "index.html"

// Config carries everything one build run needs. All fields are fixed
// before Run and never mutated.
type Config struct {
	// SourceDir is the project directory manifests are copied from.
	SourceDir string
	// StagingDir is the bundler's output directory, mutated in place.
	StagingDir string
	Target     directive.BuildTarget
	Serve      script.ServeConfig
}

// Artifact is the final bytes for one output file.
type Artifact struct {
	Path string
	Data []byte
}

// Result is a fully rendered build, staged in memory and not yet on disk.
type Result struct {
	Surfaces  []Surface
	Artifacts []Artifact
	// ManifestSource is the selected manifest path, relative to SourceDir.
	ManifestSource string
}

// Run executes the whole transform against the staged index document:
// scan, surface derivation, per-surface rewriting, and manifest selection.
// Nothing is written; a Result either holds every output or Run fails with
// the originating reason.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	indexPath := filepath.Join(cfg.StagingDir, IndexFileName)
	doc, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundler output: %w", err)
	}

	dirs, err := directive.Scan(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	surfaces, err := DeriveSurfaces(dirs)
	if err != nil {
		return nil, err
	}
	if err := validateIncludeRefs(dirs, surfaces); err != nil {
		return nil, err
	}
	if err := validateElementIncludes(doc, surfaces); err != nil {
		return nil, err
	}

	manifest, err := SelectManifest(dirs, cfg.Target)
	if err != nil {
		return nil, err
	}

	inline, err := ExtractInlineScripts(doc)
	if err != nil {
		return nil, err
	}
	tmpl := script.Parse(inline)

	// Each surface reads only the shared immutable inputs and writes its
	// own slot, so the fan-out needs no locking.
	rendered := make([][]Artifact, len(surfaces))
	g, _ := errgroup.WithContext(ctx)
	for i, s := range surfaces {
		g.Go(func() error {
			arts, err := renderSurface(doc, s, tmpl, cfg.Serve)
			if err != nil {
				return fmt.Errorf("failed to render surface %q: %w", s.ID, err)
			}
			rendered[i] = arts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Surfaces:       surfaces,
		ManifestSource: manifest.TargetRef,
	}
	for _, arts := range rendered {
		res.Artifacts = append(res.Artifacts, arts...)
	}
	return res, nil
}

// renderSurface produces a surface's shim and, for pages, its rewritten
// HTML.
func renderSurface(doc []byte, s Surface, tmpl script.Template, serve script.ServeConfig) ([]Artifact, error) {
	shim := tmpl.Render(script.RenderOptions{
		Entry:      s.Entry,
		NoReload:   s.NoReload,
		Background: s.Background,
		Serve:      serve,
	})
	arts := []Artifact{{Path: s.ShimPath, Data: []byte(shim)}}

	if s.Background {
		return arts, nil
	}

	page, err := renderPage(doc, s)
	if err != nil {
		return nil, err
	}
	return append(arts, Artifact{Path: s.HTMLPath, Data: page}), nil
}

// Commit writes a staged Result into the staging directory: every artifact,
// the manifest copy, and finally removal of the bundler's index document,
// which has no standalone meaning once split.
func Commit(cfg Config, res *Result) error {
	for _, a := range res.Artifacts {
		path := filepath.Join(cfg.StagingDir, a.Path)
		if err := os.WriteFile(path, a.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
	}

	src := filepath.Join(cfg.SourceDir, res.ManifestSource)
	dst := filepath.Join(cfg.StagingDir, ManifestFileName)
	if err := util.CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy manifest %s: %w", res.ManifestSource, err)
	}

	if err := os.Remove(filepath.Join(cfg.StagingDir, IndexFileName)); err != nil {
		return fmt.Errorf("failed to remove bundler index: %w", err)
	}
	return nil
}
