package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/wextkit/cli/internal/pipeline"
	"github.com/wextkit/cli/pkg/util"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Zip a built extension for store upload",
	Long: `Zip a built staging directory into a store-uploadable archive.

Debug byproducts (wasm debug sidecars, source maps) are excluded unless
--include-debug is set. The archive name defaults to the extension name
from manifest.json.`,
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().String("staging", "", "Built staging directory (default $WEXT_STAGING_DIR or $TRUNK_STAGING_DIR)")
	packCmd.Flags().StringP("output", "o", "", "Output zip path (default <extension-name>.zip)")
	packCmd.Flags().Bool("include-debug", false, "Keep debug sidecars and source maps in the archive")
}

func runPack(cmd *cobra.Command, args []string) error {
	staging := flagOrEnv(cmd, "staging", "", "WEXT_STAGING_DIR", "TRUNK_STAGING_DIR")
	if staging == "" {
		return fmt.Errorf("no staging directory: pass --staging or set WEXT_STAGING_DIR")
	}
	if _, err := os.Stat(filepath.Join(staging, pipeline.ManifestFileName)); err != nil {
		return fmt.Errorf("%s does not look like a built extension (no manifest.json): %w", staging, err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultArchiveName(staging)
	}

	opts := &util.ZipOptions{}
	if includeDebug, _ := cmd.Flags().GetBool("include-debug"); !includeDebug {
		opts.ExcludeFilenamePatterns = util.DefaultPackExclusions
	}

	stats, err := util.ZipDirectory(staging, output, opts)
	if err != nil {
		return fmt.Errorf("failed to pack extension: %w", err)
	}

	pterm.Success.Printf("Packed %d files (%s) into %s\n",
		stats.FilesIncluded, util.FormatBytes(stats.BytesIncluded), output)
	if stats.FilesExcluded > 0 {
		pterm.Info.Printf("Excluded %d debug files\n", stats.FilesExcluded)
	}
	return nil
}

// defaultArchiveName derives the zip name from the manifest's extension
// name, falling back to a generic name when the manifest is unreadable.
func defaultArchiveName(staging string) string {
	data, err := os.ReadFile(filepath.Join(staging, pipeline.ManifestFileName))
	if err != nil {
		return "extension.zip"
	}
	name := gjson.GetBytes(data, "name").String()
	if name == "" {
		return "extension.zip"
	}
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return name + ".zip"
}
