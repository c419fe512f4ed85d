package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dd0wney/cluso-graphclass/pkg/algorithms"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracedViewer(t *testing.T) stepViewer {
	t.Helper()
	adj := graph.Adjacency{"A": {"B", "C"}, "B": {"D"}, "C": {}, "D": {}}
	tr := algorithms.BFS(adj, "A", algorithms.WithTrace())
	require.NotEmpty(t, tr.Steps)
	return newStepViewer("Breadth-first traversal", tr)
}

func press(t *testing.T, m stepViewer, msg tea.Msg) (stepViewer, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	v, ok := next.(stepViewer)
	require.True(t, ok)
	return v, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStepViewerNavigation(t *testing.T) {
	m := tracedViewer(t)
	last := len(m.steps) - 1

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.pos, "back at the first step stays put")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, runes("l"))
	assert.Equal(t, 2, m.pos)

	m, _ = press(t, m, runes("h"))
	assert.Equal(t, 1, m.pos)

	m, _ = press(t, m, runes("G"))
	assert.Equal(t, last, m.pos)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, last, m.pos, "next at the last step stays put")

	m, _ = press(t, m, runes("g"))
	assert.Equal(t, 0, m.pos)
}

func TestStepViewerView(t *testing.T) {
	m := tracedViewer(t)

	view := m.View()
	assert.Contains(t, view, "Breadth-first traversal")
	assert.Contains(t, view, "step 1/")
	assert.Contains(t, view, "visit")
	assert.Contains(t, view, "[A]")

	m, _ = press(t, m, runes("G"))
	view = m.View()
	assert.Contains(t, view, "complete")
	assert.Contains(t, view, "[A B C D]")
}

func TestStepViewerAutoplay(t *testing.T) {
	m := tracedViewer(t)

	m, cmd := press(t, m, runes("p"))
	require.NotNil(t, cmd)
	assert.True(t, m.playing)
	gen := m.gen

	m, cmd = press(t, m, playTickMsg{gen: gen})
	assert.Equal(t, 1, m.pos)
	assert.NotNil(t, cmd)

	// a tick from an earlier run is ignored
	m, cmd = press(t, m, playTickMsg{gen: gen - 1})
	assert.Equal(t, 1, m.pos)
	assert.Nil(t, cmd)

	for m.playing {
		m, _ = press(t, m, playTickMsg{gen: gen})
	}
	assert.True(t, m.atEnd())

	// pressing play at the end restarts from the first step
	m, _ = press(t, m, runes("p"))
	assert.Equal(t, 0, m.pos)
	assert.True(t, m.playing)

	m, cmd = press(t, m, runes("p"))
	assert.False(t, m.playing)
	assert.Nil(t, cmd)
}

func TestStepViewerQuit(t *testing.T) {
	m := tracedViewer(t)
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStepViewerEmpty(t *testing.T) {
	m := newStepViewer("empty", algorithms.Traversal{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.pos)
	assert.Contains(t, m.View(), "no steps recorded")
}
