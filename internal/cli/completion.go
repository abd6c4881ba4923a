package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/translate"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for translator.

Bash:
  # Add to ~/.bashrc:
  source <(translator completion bash)

Zsh:
  # Add to ~/.zshrc:
  source <(translator completion zsh)

Fish:
  translator completion fish > ~/.config/fish/completions/translator.fish

PowerShell:
  translator completion powershell >> $PROFILE
`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return cmd.Help()
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func completeProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, p := range translate.Providers {
		if strings.HasPrefix(p.Name, toComplete) {
			out = append(out, p.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeModels suggests models of the provider given on the command line,
// or of every provider when none is given.
func completeModels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	name, _ := cmd.Flags().GetString("provider")
	var out []string
	for _, p := range translate.Providers {
		if name != "" && !strings.EqualFold(p.Name, name) {
			continue
		}
		for _, m := range p.Models {
			if strings.HasPrefix(m.ID, toComplete) {
				out = append(out, m.ID+"\t"+m.Description)
			}
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
