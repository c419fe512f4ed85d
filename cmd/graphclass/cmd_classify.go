package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/dd0wney/cluso-graphclass/pkg/service"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
	"github.com/spf13/cobra"
)

type classifyOptions struct {
	model      string
	edges      string
	nodes      int
	file       string
	undirected bool
	s3         gnn.S3Options
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	opts := &classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Predict whether a graph is Cyclic, a DAG or a Tree",
		Long: `Run the GCN on one graph. Edges come from --edges ("0-1,1-2") with
--nodes, or from --file holding a request body:

  {"edges": [[0,1],[1,2]], "node_count": 3}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}

			model, err := gnn.Load(cmd.Context(), opts.model, gnn.WithS3Options(opts.s3))
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			clf, err := classifier.New(model, classifier.Options{MaxNodes: root.limits.MaxNodes, MaxEdges: root.limits.MaxEdges})
			if err != nil {
				return err
			}
			svc, err := service.New(clf, root.limits)
			if err != nil {
				return err
			}

			pred, err := svc.Predict(cmd.Context(), req)
			if err != nil {
				return errors.New(service.PublicMessage(err))
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return writeJSON(out, pred)
			}
			rows := []kv{
				{"label", pred.Label.String()},
				{"confidence", strconv.FormatFloat(pred.Confidence, 'f', 4, 64)},
				{"structural label", pred.StructuralLabel.String()},
			}
			for _, l := range classifier.Labels() {
				rows = append(rows, kv{"p(" + l.String() + ")", bar(pred.Probabilities[l], 20) + " " + strconv.FormatFloat(pred.Probabilities[l], 'f', 3, 64)})
			}
			renderPanel(out, "Prediction", rows)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.model, "model", "gnn_model.json", "weights file or s3://bucket/key")
	f.StringVar(&opts.edges, "edges", "", "comma-separated edges such as 0-1,1-2")
	f.IntVar(&opts.nodes, "nodes", 0, "node count (defaults to max endpoint + 1)")
	f.StringVar(&opts.file, "file", "", "JSON request body file")
	f.BoolVar(&opts.undirected, "undirected", false, "mirror edges before the forward pass")
	f.StringVar(&opts.s3.Region, "s3-region", "", "S3 region for s3:// models")
	f.StringVar(&opts.s3.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	f.BoolVar(&opts.s3.UsePathStyle, "s3-path-style", false, "use path-style S3 addressing")
	cmd.MarkFlagsMutuallyExclusive("edges", "file")
	return cmd
}

func (o *classifyOptions) request() (*validation.PredictRequest, error) {
	req := &validation.PredictRequest{}
	switch {
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("parse %s: %w", o.file, err)
		}
	case o.edges != "":
		edges, err := parseEdges(o.edges)
		if err != nil {
			return nil, err
		}
		req.Edges = edges
		req.NodeCount = o.nodes
		if req.NodeCount == 0 {
			req.NodeCount = maxEndpoint(edges) + 1
		}
	default:
		return nil, errors.New("one of --edges or --file is required")
	}
	if o.undirected {
		u := true
		req.Undirected = &u
	}
	return req, nil
}

// parseEdges reads "0-1,1-2" style edge lists
func parseEdges(s string) ([]graph.Edge, error) {
	var edges []graph.Edge
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("edge %q: want FROM-TO", part)
		}
		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", part, err)
		}
		b, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", part, err)
		}
		edges = append(edges, graph.Edge{a, b})
	}
	return edges, nil
}

func maxEndpoint(edges []graph.Edge) int {
	m := -1
	for _, e := range edges {
		m = max(m, e[0], e[1])
	}
	return m
}
