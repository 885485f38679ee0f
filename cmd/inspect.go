package cmd

import (
	"fmt"
	"os"

	"github.com/boyter/gocodewalker"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wextkit/cli/internal/directive"
	"github.com/wextkit/cli/pkg/table"
	"github.com/wextkit/cli/pkg/util"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "List the directives declared in a project's HTML files",
	Long: `Walk a project tree (gitignore-aware) and list every data-wext directive
declared in its HTML files, before any build runs. Useful for checking what
surfaces and manifests a build would produce.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("output", "o", "", "Output format: json")
}

type inspectedDirective struct {
	File    string   `json:"file"`
	Kind    string   `json:"kind"`
	Target  string   `json:"target"`
	Include []string `json:"include,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	output, _ := cmd.Flags().GetString("output")

	fileQueue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(dir, fileQueue)
	walker.AllowListExtensions = append(walker.AllowListExtensions, "html")

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	var found []inspectedDirective
	for f := range fileQueue {
		data, err := os.ReadFile(f.Location)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Location, err)
		}
		dirs, err := directive.ScanString(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", f.Location, err)
		}
		for _, d := range dirs {
			found = append(found, inspectedDirective{
				File:    f.Location,
				Kind:    string(d.Kind),
				Target:  d.TargetRef,
				Include: d.Include,
			})
		}
	}
	if err := <-errChan; err != nil {
		return err
	}

	if output == "json" {
		return util.PrintPrettyJSON(found)
	}

	if len(found) == 0 {
		pterm.Info.Printf("No directives found under %s\n", dir)
		return nil
	}

	tableData := pterm.TableData{{"File", "Kind", "Target", "Include"}}
	for _, d := range found {
		tableData = append(tableData, []string{d.File, d.Kind, d.Target, util.JoinOrDash(d.Include...)})
	}
	table.PrintTableNoPad(tableData, true)
	return nil
}
