package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/pipeline"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// jobFunc runs one translation, reporting progress through the callback.
type jobFunc func(ctx context.Context, progress translate.ProgressFunc) (*pipeline.Result, error)

// translateState is shared between the job goroutine and the TUI.
type translateState struct {
	mu       sync.RWMutex
	done     int
	total    int
	finished bool
	result   *pipeline.Result
	err      error
}

func (s *translateState) update(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = done
	s.total = total
}

func (s *translateState) finish(res *pipeline.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.err = err
	s.finished = true
}

func (s *translateState) get() (done, total int, finished bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.total, s.finished, s.err
}

func (s *translateState) outcome() (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.err
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type translateModel struct {
	progress progress.Model
	spinner  spinner.Model
	t        *i18n.Translations

	name      string
	state     *translateState
	cancel    context.CancelFunc
	canceling bool
}

func newTranslateModel(name, lang string, state *translateState, cancel context.CancelFunc) translateModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return translateModel{
		progress: p,
		spinner:  s,
		t:        i18n.T(lang),
		name:     name,
		state:    state,
		cancel:   cancel,
	}
}

func (m translateModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
	)
}

func (m translateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Keep rendering until the job has unwound so nothing is left half-written.
			m.canceling = true
			m.cancel()
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		done, total, finished, _ := m.state.get()
		if finished {
			return m, tea.Quit
		}

		cmds := []tea.Cmd{tickCmd()}
		if total > 0 {
			cmds = append(cmds, m.progress.SetPercent(float64(done)/float64(total)))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m translateModel) View() string {
	done, total, finished, err := m.state.get()

	if finished {
		if err != nil {
			return fmt.Sprintf("\n  %s %s\n\n", errStyle.Render("✗"), m.t.Translate.Failed)
		}
		return fmt.Sprintf("\n  %s %s\n\n", doneStyle.Render("✓"), infoStyle.Render(m.name))
	}

	s := "\n"
	s += fmt.Sprintf("  %s %s\n\n", m.spinner.View(), infoStyle.Render(m.name))
	s += fmt.Sprintf("  %s\n\n", m.progress.View())
	if total > 0 {
		s += fmt.Sprintf("  %s: %d/%d (%.0f%%)\n", m.t.Translate.Progress, done, total, float64(done)/float64(total)*100)
	}
	s += "\n"
	if m.canceling {
		s += helpStyle.Render("  Canceling...")
	} else {
		s += helpStyle.Render("  Press q to cancel")
	}
	s += "\n"
	return s
}

// useTUI reports whether progress can be drawn interactively on stderr.
func useTUI() bool {
	return !noProgress && !verbose && term.IsTerminal(int(os.Stderr.Fd()))
}

// runWithTUI runs job in the background while a progress bar is shown.
func runWithTUI(ctx context.Context, name, lang string, job jobFunc) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &translateState{}
	go func() {
		res, err := job(ctx, state.update)
		state.finish(res, err)
	}()

	p := tea.NewProgram(newTranslateModel(name, lang, state, cancel), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		cancel()
		return nil, err
	}
	return state.outcome()
}

// runPlain runs job and prints one progress line per finished chunk.
func runPlain(ctx context.Context, w io.Writer, lang string, job jobFunc) (*pipeline.Result, error) {
	t := i18n.T(lang)
	var mu sync.Mutex
	last := -1
	return job(ctx, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if done == last {
			return
		}
		last = done
		fmt.Fprintf(w, "%s: %d/%d\n", t.Translate.Progress, done, total)
	})
}

func formatDuration(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}
