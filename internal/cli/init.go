package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the translator config file interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Run interactive wizard (existing config values are the defaults)
		cfg, err = runInitWizard(cfg)
		if errors.Is(err, errWizardCancelled) {
			fmt.Println(i18n.T(uiLanguage()).Wizard.Cancelled)
			return nil
		}
		if err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return usageErrorf("failed to save config: %v", err)
		}
		fmt.Printf(i18n.T(cfg.Language).Wizard.Saved+"\n", config.SavePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

var errWizardCancelled = errors.New("configuration cancelled")

const (
	stepLanguage = iota
	stepProvider
	stepTarget
	stepModel
	stepConfirm
	stepCount
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	stepStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	unselectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	inputStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	inputCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(18)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	containerStyle   = lipgloss.NewStyle().Padding(1, 2)
)

// wizardTargets are the target languages offered by the wizard.
var wizardTargets = []string{"zh", "en", "ja", "ko", "es", "fr", "de", "pt", "ru", "it"}

type option struct{ label, value string }

type wizardModel struct {
	step        int
	cursor      int
	config      *config.Config
	confirmed   bool
	cancelled   bool
	inputBuffer string
}

func newWizardModel(cfg *config.Config) wizardModel {
	m := wizardModel{config: cfg}
	m.setCursorFromConfig()
	return m
}

func (m *wizardModel) t() *i18n.Translations {
	return i18n.T(m.config.Language)
}

func (m *wizardModel) title() (string, string) {
	w := m.t().Wizard
	switch m.step {
	case stepLanguage:
		return w.Language, w.LanguageDesc
	case stepProvider:
		return w.Provider, w.ProviderDesc
	case stepTarget:
		return w.Target, w.TargetDesc
	case stepModel:
		return w.Model, w.ModelDesc
	default:
		return w.Confirm, w.ConfirmDesc
	}
}

func (m *wizardModel) options() []option {
	switch m.step {
	case stepLanguage:
		opts := make([]option, len(i18n.SupportedLanguages))
		for i, lang := range i18n.SupportedLanguages {
			opts[i] = option{lang.Name, lang.Code}
		}
		return opts
	case stepProvider:
		opts := make([]option, len(translate.Providers))
		for i, p := range translate.Providers {
			opts[i] = option{fmt.Sprintf("%-11s %s", p.Name, p.EnvVar), p.Name}
		}
		return opts
	case stepTarget:
		opts := make([]option, len(wizardTargets))
		for i, code := range wizardTargets {
			opts[i] = option{fmt.Sprintf("%-4s %s", code, translate.LanguageName(code)), code}
		}
		return opts
	case stepConfirm:
		w := m.t().Wizard
		return []option{{w.YesSave, "yes"}, {w.NoCancel, "no"}}
	}
	return nil
}

func (m *wizardModel) isInputStep() bool {
	return m.step == stepModel
}

func (m *wizardModel) setCursorFromConfig() {
	m.cursor = 0
	if m.isInputStep() {
		m.inputBuffer = m.config.Model
		return
	}

	var current string
	switch m.step {
	case stepLanguage:
		current = m.config.Language
	case stepProvider:
		current = m.config.Provider
	case stepTarget:
		current = m.config.TargetLanguage
	}
	for i, opt := range m.options() {
		if opt.value == current {
			m.cursor = i
			break
		}
	}
}

func (m *wizardModel) saveCurrentValue() {
	if m.isInputStep() {
		m.config.Model = strings.TrimSpace(m.inputBuffer)
		return
	}

	options := m.options()
	if m.cursor >= len(options) {
		return
	}
	value := options[m.cursor].value
	switch m.step {
	case stepLanguage:
		m.config.Language = value
	case stepProvider:
		if value != m.config.Provider {
			// A model or endpoint from the previous provider would not apply.
			m.config.Model = ""
			m.config.BaseURL = ""
		}
		m.config.Provider = value
	case stepTarget:
		m.config.TargetLanguage = value
	}
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit

	case "left":
		if m.step > 0 {
			m.saveCurrentValue()
			m.step--
			m.setCursorFromConfig()
		}

	case "right", "enter":
		m.saveCurrentValue()
		if m.step == stepConfirm {
			m.confirmed = m.cursor == 0
			m.cancelled = !m.confirmed
			return m, tea.Quit
		}
		m.step++
		m.setCursorFromConfig()

	case "up", "k":
		if !m.isInputStep() {
			if m.cursor > 0 {
				m.cursor--
			} else {
				m.cursor = len(m.options()) - 1
			}
		} else if key.String() == "k" {
			m.inputBuffer += "k"
		}

	case "down", "j":
		if !m.isInputStep() {
			if m.cursor < len(m.options())-1 {
				m.cursor++
			} else {
				m.cursor = 0
			}
		} else if key.String() == "j" {
			m.inputBuffer += "j"
		}

	case "backspace":
		if m.isInputStep() && m.inputBuffer != "" {
			r := []rune(m.inputBuffer)
			m.inputBuffer = string(r[:len(r)-1])
		}

	default:
		if m.isInputStep() && key.Type == tea.KeyRunes {
			m.inputBuffer += string(key.Runes)
		}
	}
	return m, nil
}

func (m wizardModel) View() string {
	var b strings.Builder
	w := m.t().Wizard

	b.WriteString(stepStyle.Render(fmt.Sprintf(w.StepOf, m.step+1, stepCount)))
	b.WriteString("\n\n")

	title, desc := m.title()
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(stepStyle.Render(desc))
	b.WriteString("\n\n")

	if m.step == stepConfirm {
		b.WriteString(m.renderReview())
		b.WriteString("\n")
	}

	if m.isInputStep() {
		b.WriteString(inputCursorStyle.Render("> "))
		b.WriteString(inputStyle.Render(m.inputBuffer))
		b.WriteString(inputCursorStyle.Render("█"))
		if m.inputBuffer == "" {
			if info, ok := translate.LookupProvider(m.config.Provider); ok && info.DefaultModel != "" {
				b.WriteString(" " + helpStyle.Render(info.DefaultModel))
			}
		}
		b.WriteString("\n")
	} else {
		for i, opt := range m.options() {
			cursor := "  "
			style := unselectedStyle
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
				style = selectedStyle
			}
			b.WriteString(cursor)
			b.WriteString(style.Render(opt.label))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(w.Help))

	return containerStyle.Render(b.String())
}

func (m wizardModel) renderReview() string {
	var b strings.Builder
	w := m.t().Wizard

	modelID := m.config.Model
	if modelID == "" {
		modelID = w.DefaultModel
	}
	lines := []struct{ label, value string }{
		{w.Language, m.config.Language},
		{w.Provider, m.config.Provider},
		{w.Target, translate.LanguageName(m.config.TargetLanguage)},
		{w.Model, modelID},
	}
	for _, line := range lines {
		b.WriteString(labelStyle.Render(line.label + ":"))
		b.WriteString(valueStyle.Render(line.value))
		b.WriteString("\n")
	}
	return b.String()
}

// runInitWizard walks through the main settings and returns the edited config.
func runInitWizard(cfg *config.Config) (*config.Config, error) {
	p := tea.NewProgram(newWizardModel(cfg))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(wizardModel)
	if result.cancelled || !result.confirmed {
		return nil, errWizardCancelled
	}
	result.config.ApplyDefaults()
	return result.config, nil
}
