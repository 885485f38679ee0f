package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is stamped at release time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "wext",
	Short: "Split bundler output into a browser extension layout",
	Long: `wext post-processes a web bundler's single-page output into the multi-file
layout browser extensions require: one HTML file per declared page, an
externalized shim script per surface, a wrapped background script, and the
manifest selected for the target browser.

Declare pages, background scripts, and manifests with data-wext link tags in
the project's index.html, then run wext as the bundler's post-build hook.`,
	SilenceUsage: true,
}

// Execute runs the CLI. A .env file in the working directory is loaded
// first so bundler hook environments and local development behave alike.
func Execute() {
	_ = godotenv.Load()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(Version)); err != nil {
		os.Exit(1)
	}
}

// envOr returns the first set environment variable from keys, or fallback.
func envOr(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return fallback
}
