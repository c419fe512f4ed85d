// Command graphclass classifies and traverses graphs from the terminal and
// manages GCN weight files.
package main

import (
	"fmt"
	"os"

	"github.com/dd0wney/cluso-graphclass/pkg/service"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// rootOptions are shared by every subcommand
type rootOptions struct {
	jsonOutput bool
	limits     validation.Limits
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "graphclass",
		Short: "Classify graphs as Cyclic, DAG or Tree with a GCN",
		Long: `graphclass runs the same GCN classifier and traversals as the
graphclass-server HTTP API, without a server.

Examples:
  graphclass classify --model gnn_model.json --edges 0-1,1-2 --nodes 3
  graphclass bfs --graph graph.json --start A
  graphclass dfs --graph graph.json --start A --interactive
  graphclass model init gnn_model.json --seed 7
  graphclass model convert gnn_model.json gnn_model.json.snappy`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&opts.jsonOutput, "json", false, "print machine-readable JSON")
	pf.IntVar(&opts.limits.MaxNodes, "max-nodes", validation.DefaultMaxNodes, "largest accepted node count")
	pf.IntVar(&opts.limits.MaxEdges, "max-edges", validation.DefaultMaxEdges, "largest accepted edge count")

	root.AddCommand(
		newClassifyCmd(opts),
		newTraverseCmd(opts, service.BFS),
		newTraverseCmd(opts, service.DFS),
		newModelCmd(opts),
	)
	return root
}
