package util

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/boyter/gocodewalker"
)

// DefaultPackExclusions lists build byproducts that must not ship in a store
// upload: debug sidecars left by wasm splitting and source maps.
var DefaultPackExclusions = []string{
	"*.wasm.orig",
	"*.wasm.debug",
	"*.map",
}

// ZipOptions configures ZipDirectory.
type ZipOptions struct {
	// ExcludeDirectories are exact directory names skipped entirely.
	ExcludeDirectories []string
	// ExcludeFilenamePatterns are filepath.Match patterns for files to skip.
	ExcludeFilenamePatterns []string
}

// ZipStats reports what a zip run included and skipped.
type ZipStats struct {
	FilesIncluded int
	FilesExcluded int
	BytesIncluded int64
}

// ZipDirectory zips srcDir into destZip with forward-slash archive paths,
// walking the tree gitignore-aware so accidental checkouts inside a staging
// directory never leak into a package.
func ZipDirectory(srcDir, destZip string, opts *ZipOptions) (*ZipStats, error) {
	if opts == nil {
		opts = &ZipOptions{}
	}
	stats := &ZipStats{}

	zipFile, err := os.Create(destZip)
	if err != nil {
		return nil, err
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	fileQueue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(srcDir, fileQueue)
	walker.IncludeHidden = true
	walker.ExcludeDirectory = append(walker.ExcludeDirectory, opts.ExcludeDirectories...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	for f := range fileQueue {
		relPath, err := filepath.Rel(srcDir, f.Location)
		if err != nil {
			return stats, err
		}
		relPath = filepath.ToSlash(relPath)

		if matchesAny(opts.ExcludeFilenamePatterns, filepath.Base(f.Location)) {
			stats.FilesExcluded++
			continue
		}

		n, err := addFileToZip(zipWriter, f.Location, relPath)
		if err != nil {
			return stats, fmt.Errorf("failed to add %s: %w", relPath, err)
		}
		stats.FilesIncluded++
		stats.BytesIncluded += n
	}

	if err := <-errChan; err != nil {
		return stats, err
	}
	return stats, nil
}

func addFileToZip(zw *zip.Writer, location, relPath string) (int64, error) {
	src, err := os.Open(location)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := zw.Create(relPath)
	if err != nil {
		return 0, err
	}
	return io.Copy(dst, src)
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		// Double-extension patterns like *.wasm.debug are outside
		// filepath.Match semantics, so suffixes are checked directly.
		if strings.HasPrefix(pattern, "*") && strings.HasSuffix(name, pattern[1:]) {
			return true
		}
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
