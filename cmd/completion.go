package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for wext.

To load completions:

Bash:
  $ source <(wext completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wext completion bash > /etc/bash_completion.d/wext
  # macOS:
  $ wext completion bash > $(brew --prefix)/etc/bash_completion.d/wext

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wext completion zsh > "${fpath[1]}/_wext"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wext completion fish | source

  # To load completions for each session, execute once:
  $ wext completion fish > ~/.config/fish/completions/wext.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
