package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/translate"
)

var modelsProvider string

var (
	providerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	modelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	defaultMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("(default)")
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List providers and suggested models",
	Long: `List the supported providers, the environment variable each reads its
API key from, and a few suggested models. Any model ID the provider accepts
can be passed with --model.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		providers := translate.Providers
		if modelsProvider != "" {
			info, ok := translate.LookupProvider(modelsProvider)
			if !ok {
				return usageErrorf("unknown provider %q (choose from %s)", modelsProvider, strings.Join(translate.ProviderNames(), ", "))
			}
			providers = []translate.ProviderInfo{*info}
		}
		fmt.Print(renderModels(providers))
		return nil
	},
}

func renderModels(providers []translate.ProviderInfo) string {
	var b strings.Builder
	for _, p := range providers {
		key := p.EnvVar
		if !p.NeedsKey {
			key += ", optional"
		}
		fmt.Fprintf(&b, "\n%s %s\n", providerStyle.Render(p.Name), helpStyle.Render("("+key+")"))
		if p.DefaultBaseURL != "" {
			fmt.Fprintf(&b, "  %s\n", helpStyle.Render(p.DefaultBaseURL))
		}
		for _, m := range p.Models {
			line := fmt.Sprintf("  %-28s %s", modelStyle.Render(m.ID), m.Description)
			if m.ID == p.DefaultModel {
				line += " " + defaultMark
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsProvider, "provider", "p", "", "only list this provider")
	modelsCmd.RegisterFlagCompletionFunc("provider", completeProviders)
	rootCmd.AddCommand(modelsCmd)
}
