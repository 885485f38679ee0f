package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wextkit/cli/internal/directive"
	"github.com/wextkit/cli/internal/pipeline"
	"github.com/wextkit/cli/internal/script"
	"github.com/wextkit/cli/pkg/table"
	"github.com/wextkit/cli/pkg/util"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Transform staged bundler output into extension surfaces",
	Long: `Transform the bundler's staged index.html into extension surfaces.

Reads the staging directory the bundler wrote, extracts the data-wext
directives, rewrites one HTML file and shim per declared page plus the
background shim, and copies the manifest matching the build target.

Directories and the serve address default from the environment
(WEXT_SOURCE_DIR/TRUNK_SOURCE_DIR, WEXT_STAGING_DIR/TRUNK_STAGING_DIR,
TRUNK_SERVE_*), so no flags are needed when running as a post-build hook.`,
	RunE: runBuild,
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("source", "", "Project source directory (default $WEXT_SOURCE_DIR or $TRUNK_SOURCE_DIR)")
	buildCmd.Flags().String("staging", "", "Bundler staging directory (default $WEXT_STAGING_DIR or $TRUNK_STAGING_DIR)")
	buildCmd.Flags().String("target", "", "Build target: chrome or firefox (default $WEXT_TARGET, chrome)")
	buildCmd.Flags().String("serve-address", "", "Dev server address for auto-reload (default $TRUNK_SERVE_ADDRESS, 127.0.0.1)")
	buildCmd.Flags().String("serve-port", "", "Dev server port for auto-reload (default $TRUNK_SERVE_PORT, 8080)")
	buildCmd.Flags().String("ws-base", "", "Dev server websocket base path (default $TRUNK_SERVE_WS_BASE, /)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if err := pipeline.Commit(cfg, res); err != nil {
		return err
	}

	printBuildSummary(cfg, res)
	return nil
}

func buildConfig(cmd *cobra.Command) (pipeline.Config, error) {
	source := flagOrEnv(cmd, "source", "", "WEXT_SOURCE_DIR", "TRUNK_SOURCE_DIR")
	staging := flagOrEnv(cmd, "staging", "", "WEXT_STAGING_DIR", "TRUNK_STAGING_DIR")
	if staging == "" {
		return pipeline.Config{}, fmt.Errorf("no staging directory: pass --staging or set WEXT_STAGING_DIR")
	}
	if source == "" {
		source = staging
	}

	target, err := directive.ResolveTarget(flagOrEnv(cmd, "target", "", "WEXT_TARGET"))
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		SourceDir:  source,
		StagingDir: staging,
		Target:     target,
		Serve: script.ServeConfig{
			Address: flagOrEnv(cmd, "serve-address", "127.0.0.1", "WEXT_SERVE_ADDRESS", "TRUNK_SERVE_ADDRESS"),
			Port:    flagOrEnv(cmd, "serve-port", "8080", "WEXT_SERVE_PORT", "TRUNK_SERVE_PORT"),
			WSBase:  flagOrEnv(cmd, "ws-base", "/", "WEXT_SERVE_WS_BASE", "TRUNK_SERVE_WS_BASE"),
		},
	}, nil
}

func flagOrEnv(cmd *cobra.Command, flag, fallback string, envKeys ...string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return envOr(fallback, envKeys...)
}

func printBuildSummary(cfg pipeline.Config, res *pipeline.Result) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("wext build (%s)", cfg.Target)))

	tableData := pterm.TableData{{"Surface", "HTML", "Shim", "Entry"}}
	for _, s := range res.Surfaces {
		tableData = append(tableData, []string{
			s.ID,
			util.OrDash(s.HTMLPath),
			s.ShimPath,
			s.Entry,
		})
	}
	table.PrintTableNoPad(tableData, true)

	summary, err := pipeline.SummarizeManifest(cfg.StagingDir)
	switch {
	case err != nil:
		pterm.Warning.Printf("Could not read committed manifest: %v\n", err)
	case !summary.Valid:
		pterm.Warning.Printf("Manifest %s is not valid JSON\n", res.ManifestSource)
	default:
		pterm.Success.Printf("Wrote %d surfaces, manifest %s (%s, manifest_version %s)\n",
			len(res.Surfaces), res.ManifestSource, summary.Name, summary.Version)
		return
	}
	pterm.Success.Printf("Wrote %d surfaces, manifest %s\n", len(res.Surfaces), res.ManifestSource)
}
