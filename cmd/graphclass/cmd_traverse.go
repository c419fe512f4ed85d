package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/dd0wney/cluso-graphclass/pkg/service"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
	"github.com/spf13/cobra"
)

func newTraverseCmd(root *rootOptions, algo service.Algorithm) *cobra.Command {
	var (
		graphFile   string
		start       string
		trace       bool
		interactive bool
	)
	title := "Breadth-first"
	if algo == service.DFS {
		title = "Depth-first"
	}

	cmd := &cobra.Command{
		Use:   string(algo),
		Short: title + " traversal of an adjacency mapping",
		Long: `Walk a graph given as a JSON adjacency mapping:

  {"A": ["B", "C"], "B": ["D"], "C": [], "D": []}

--interactive steps through the trace in the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive && root.jsonOutput {
				return errors.New("--interactive cannot be combined with --json")
			}

			data, err := os.ReadFile(graphFile)
			if err != nil {
				return err
			}
			req := &validation.TraversalRequest{Start: graph.NodeID(start), Trace: trace || interactive}
			if err := json.Unmarshal(data, &req.Graph); err != nil {
				return fmt.Errorf("parse %s: %w", graphFile, err)
			}

			svc := service.NewTraversalService(root.limits)
			t, err := svc.Traverse(cmd.Context(), algo, req)
			if err != nil {
				return errors.New(service.PublicMessage(err))
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return writeJSON(out, map[string]any{"order": t.Order, "steps": t.Steps})
			}
			if interactive {
				p := tea.NewProgram(newStepViewer(title+" traversal", t),
					tea.WithContext(cmd.Context()),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(out),
					tea.WithAltScreen(),
				)
				_, err := p.Run()
				return err
			}

			rows := []kv{
				{"start", start},
				{"visited", fmt.Sprint(len(t.Order))},
				{"order", joinIDs(t.Order, " → ")},
			}
			renderPanel(out, title+" traversal", rows)
			for i, s := range t.Steps {
				fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%3d %-8s %-6s frontier=%v", i, s.Type, s.Node, s.Frontier)))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&graphFile, "graph", "", "adjacency JSON file")
	f.StringVar(&start, "start", "", "start node")
	f.BoolVar(&trace, "trace", false, "print every traversal step")
	f.BoolVarP(&interactive, "interactive", "i", false, "step through the trace interactively")
	_ = cmd.MarkFlagRequired("graph")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func joinIDs(ids []graph.NodeID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}
