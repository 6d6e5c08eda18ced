package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts.
func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate completion scripts for your shell.

  # Bash (add to ~/.bashrc)
  eval "$(nodemap completion bash)"

  # Zsh (add to ~/.zshrc)
  eval "$(nodemap completion zsh)"

  # Fish
  nodemap completion fish | source

  # PowerShell
  nodemap completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				_ = rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				_ = rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				_ = rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				_ = rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
