// Package ui renders the progress of profile building in a terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"trilang/internal/corpus"
)

type progressModel struct {
	title   string
	events  <-chan corpus.Event
	spinner spinner.Model
	prog    progress.Model
	items   []languageItem
	index   map[string]int
	width   int
	done    bool
	failed  int
}

type languageItem struct {
	language string
	status   corpus.Status
	trigrams int
}

type eventMsg corpus.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one line per
// corpus language. It quits when events is closed.
func NewProgressModel(title string, languages []string, events <-chan corpus.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]languageItem, 0, len(languages))
	index := make(map[string]int, len(languages))
	for i, lang := range languages {
		items = append(items, languageItem{language: lang, status: corpus.StatusQueued})
		index[lang] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(corpus.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.done {
		header = "done: " + m.title
		if m.failed > 0 {
			header = fmt.Sprintf("failed: %s (%d errors)", m.title, m.failed)
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 9
	nameWidth := max(m.width-statusWidth-18, 12)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("  %s %-*s", status, nameWidth, truncate(item.language, nameWidth))
		if item.trigrams > 0 {
			line += fmt.Sprintf(" %4d trigrams", item.trigrams)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev corpus.Event) tea.Cmd {
	idx, ok := m.index[ev.Language]
	if !ok {
		return nil
	}
	m.items[idx].status = ev.Status
	m.items[idx].trigrams = ev.Trigrams
	if ev.Status == corpus.StatusError {
		m.failed++
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case corpus.StatusDone, corpus.StatusSkipped, corpus.StatusError:
			total += 1
		case corpus.StatusWorking:
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status corpus.Status) lipgloss.Style {
	switch status {
	case corpus.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case corpus.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case corpus.StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case corpus.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
