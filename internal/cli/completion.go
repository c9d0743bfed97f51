package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionGenerators write the completion script for each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

// completionCommand prints a shell completion script. It skips config
// loading so it works on a fresh install.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell.

  source <(meldgrid completion bash)
  meldgrid completion zsh > "${fpath[1]}/_meldgrid"
  meldgrid completion fish | source
  meldgrid completion powershell | Out-String | Invoke-Expression

Write the script to your shell's completion directory to load it in every
session.`,
		DisableFlagsInUseLine: true,
		PersistentPreRunE:     c.setupDefaults,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
