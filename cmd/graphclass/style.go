package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorMuted   = lipgloss.Color("#5C6B73")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorError   = lipgloss.Color("#E74C3C")
)

var styles = struct {
	Title lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
	Muted lipgloss.Style
	Good  lipgloss.Style
	Error lipgloss.Style
	Box   lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Key:   lipgloss.NewStyle().Foreground(colorMuted).Width(18),
	Value: lipgloss.NewStyle().Bold(true),
	Muted: lipgloss.NewStyle().Foreground(colorMuted),
	Good:  lipgloss.NewStyle().Foreground(colorSuccess),
	Error: lipgloss.NewStyle().Foreground(colorError),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

// kv is one row of a rendered panel
type kv struct {
	key, value string
}

// renderPanel draws a titled box of key/value rows
func renderPanel(w io.Writer, title string, rows []kv) {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, styles.Title.Render(title))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, styles.Key.Render(r.key), styles.Value.Render(r.value)))
	}
	fmt.Fprintln(w, styles.Box.Render(strings.Join(lines, "\n")))
}

// bar renders p in [0,1] as a fixed-width bar
func bar(p float64, width int) string {
	filled := int(p*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return styles.Good.Render(strings.Repeat("█", filled)) + styles.Muted.Render(strings.Repeat("░", width-filled))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
