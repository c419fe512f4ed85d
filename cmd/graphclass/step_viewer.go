package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
)

const playInterval = 600 * time.Millisecond

type viewerKeys struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Play  key.Binding
	Quit  key.Binding
}

var stepKeys = viewerKeys{
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→/l", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "b"),
		key.WithHelp("←/h", "back"),
	),
	First: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last"),
	),
	Play: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("space", "play/pause"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k viewerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Play, k.Quit}
}

func (k viewerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last},
		{k.Play, k.Quit},
	}
}

// playTickMsg advances autoplay; gen drops ticks from an earlier play run
type playTickMsg struct{ gen int }

// stepViewer walks a traced traversal one step at a time
type stepViewer struct {
	title   string
	order   []graph.NodeID
	steps   []algorithms.TraversalStep
	pos     int
	playing bool
	gen     int
	keys    viewerKeys
	help    help.Model
}

func newStepViewer(title string, t algorithms.Traversal) stepViewer {
	return stepViewer{
		title: title,
		order: t.Order,
		steps: t.Steps,
		keys:  stepKeys,
		help:  help.New(),
	}
}

func (m stepViewer) Init() tea.Cmd {
	return nil
}

func (m stepViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case playTickMsg:
		if !m.playing || msg.gen != m.gen {
			return m, nil
		}
		m.seek(m.pos + 1)
		if m.atEnd() {
			m.playing = false
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.playing = false
			m.seek(m.pos + 1)
		case key.Matches(msg, m.keys.Prev):
			m.playing = false
			m.seek(m.pos - 1)
		case key.Matches(msg, m.keys.First):
			m.playing = false
			m.seek(0)
		case key.Matches(msg, m.keys.Last):
			m.playing = false
			m.seek(len(m.steps) - 1)
		case key.Matches(msg, m.keys.Play):
			if m.playing {
				m.playing = false
				return m, nil
			}
			if m.atEnd() {
				m.seek(0)
			}
			m.playing = true
			m.gen++
			return m, m.tick()
		}
	}
	return m, nil
}

func (m *stepViewer) seek(i int) {
	m.pos = max(0, min(i, len(m.steps)-1))
}

func (m stepViewer) atEnd() bool {
	return m.pos >= len(m.steps)-1
}

func (m stepViewer) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(playInterval, func(time.Time) tea.Msg {
		return playTickMsg{gen: gen}
	})
}

func (m stepViewer) View() string {
	var s strings.Builder
	s.WriteString(styles.Title.Render(m.title))
	s.WriteString("\n\n")

	if len(m.steps) == 0 {
		s.WriteString(styles.Muted.Render("no steps recorded"))
		s.WriteString("\n")
		return s.String()
	}

	step := m.steps[m.pos]
	status := fmt.Sprintf("step %d/%d", m.pos+1, len(m.steps))
	if m.playing {
		status += "  ▶"
	}
	rows := []kv{
		{"status", status},
		{"event", string(step.Type)},
		{"node", string(step.Node)},
		{"frontier", "[" + joinIDs(step.Frontier, " ") + "]"},
		{"visited", "[" + joinIDs(step.Visited, " ") + "]"},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, styles.Key.Render(r.key), styles.Value.Render(r.value)))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, styles.Key.Render("order"), m.renderOrder(step)))
	s.WriteString(styles.Box.Render(strings.Join(lines, "\n")))

	s.WriteString("\n\n")
	s.WriteString(m.help.View(m.keys))
	s.WriteString("\n")
	return s.String()
}

// renderOrder shows the final visit order with the nodes on the path so
// far highlighted and the current node marked
func (m stepViewer) renderOrder(step algorithms.TraversalStep) string {
	done := len(step.Path)
	parts := make([]string, len(m.order))
	for i, id := range m.order {
		label := string(id)
		switch {
		case id == step.Node && step.Type != algorithms.StepComplete:
			parts[i] = styles.Title.Render("[" + label + "]")
		case i < done:
			parts[i] = styles.Good.Render(label)
		default:
			parts[i] = styles.Muted.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
