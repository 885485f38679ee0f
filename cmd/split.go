package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wextkit/cli/internal/wasmsplit"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Strip wasm debug info into a dev-server-backed sidecar",
	Long: `Strip DWARF debug info out of the staged wasm binary.

Debugger extensions cannot fetch debug files through the extension protocol,
so the stripped binary references the sidecar over the dev server instead.
Meant for debug builds only; release builds should not carry debug info.`,
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().String("staging", "", "Bundler staging directory (default $WEXT_STAGING_DIR or $TRUNK_STAGING_DIR)")
	splitCmd.Flags().String("serve-address", "", "Dev server address (default $TRUNK_SERVE_ADDRESS, 127.0.0.1)")
	splitCmd.Flags().String("serve-port", "", "Dev server port (default $TRUNK_SERVE_PORT, 8080)")
}

func runSplit(cmd *cobra.Command, args []string) error {
	staging := flagOrEnv(cmd, "staging", "", "WEXT_STAGING_DIR", "TRUNK_STAGING_DIR")
	if staging == "" {
		return fmt.Errorf("no staging directory: pass --staging or set WEXT_STAGING_DIR")
	}

	res, err := wasmsplit.Split(cmd.Context(), wasmsplit.Options{
		StagingDir:   staging,
		ServeAddress: flagOrEnv(cmd, "serve-address", "127.0.0.1", "WEXT_SERVE_ADDRESS", "TRUNK_SERVE_ADDRESS"),
		ServePort:    flagOrEnv(cmd, "serve-port", "8080", "WEXT_SERVE_PORT", "TRUNK_SERVE_PORT"),
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("Split %s; debug info at %s\n", res.WasmPath, res.DebugURL)
	return nil
}
