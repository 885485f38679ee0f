// Package table provides small helpers around pterm's table renderer.
package table

import "github.com/pterm/pterm"

// PrintTableNoPad renders tabular data without pterm's default left padding,
// which keeps output aligned with surrounding log lines.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	t := pterm.DefaultTable.WithData(data).WithLeftAlignment()
	if hasHeader {
		t = t.WithHasHeader()
	}
	if err := t.Render(); err != nil {
		// Rendering failures only affect display; fall back to plain rows.
		for _, row := range data {
			pterm.Println(row)
		}
	}
}
