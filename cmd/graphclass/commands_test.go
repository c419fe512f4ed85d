package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gnn_model.json")
	require.NoError(t, gnn.NewDefaultModel(3).Save(path))
	return path
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "graphclass", root.Use)
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"classify", "bfs", "dfs", "model"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestClassify(t *testing.T) {
	model := writeModel(t)

	out, err := run(t, "classify", "--model", model, "--edges", "0-1,1-2", "--json")
	require.NoError(t, err)

	var pred classifier.Prediction
	require.NoError(t, json.Unmarshal([]byte(out), &pred))
	assert.True(t, pred.Label.Valid())
	assert.Equal(t, classifier.LabelTree, pred.StructuralLabel)

	out, err = run(t, "classify", "--model", model, "--edges", "0-1,1-2,2-0")
	require.NoError(t, err)
	assert.Contains(t, out, "Prediction")
	assert.Contains(t, out, "Cyclic")
}

func TestClassifyFromFile(t *testing.T) {
	model := writeModel(t)
	req := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(req, []byte(`{"edges":[[0,1],[0,2]],"node_count":3}`), 0o644))

	out, err := run(t, "classify", "--model", model, "--file", req, "--json", "--undirected")
	require.NoError(t, err)
	assert.Contains(t, out, `"structural_label": "Tree"`)
}

func TestClassifyErrors(t *testing.T) {
	model := writeModel(t)

	_, err := run(t, "classify", "--model", model)
	assert.ErrorContains(t, err, "--edges or --file")

	_, err = run(t, "classify", "--model", model, "--edges", "0-5", "--nodes", "2")
	assert.ErrorContains(t, err, "node 5")

	_, err = run(t, "classify", "--model", model, "--edges", "0:1")
	assert.ErrorContains(t, err, "FROM-TO")

	_, err = run(t, "classify", "--model", filepath.Join(t.TempDir(), "none.json"), "--edges", "0-1")
	assert.ErrorContains(t, err, "load model")
}

func TestParseEdges(t *testing.T) {
	edges, err := parseEdges(" 0-1, 1 - 2 ,,")
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{{0, 1}, {1, 2}}, edges)
	assert.Equal(t, 2, maxEndpoint(edges))

	_, err = parseEdges("a-b")
	assert.Error(t, err)
}

func TestTraverse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"A":["B","C"],"B":["D"],"C":[],"D":[]}`), 0o644))

	tests := []struct {
		cmd  string
		want []string
	}{
		{"bfs", []string{"A", "B", "C", "D"}},
		{"dfs", []string{"A", "B", "D", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			out, err := run(t, tt.cmd, "--graph", path, "--start", "A", "--json")
			require.NoError(t, err)
			var resp struct {
				Order []string `json:"order"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, tt.want, resp.Order)
		})
	}

	out, err := run(t, "dfs", "--graph", path, "--start", "A", "--trace")
	require.NoError(t, err)
	assert.Contains(t, out, "Depth-first traversal")
	assert.Contains(t, out, "complete")

	_, err = run(t, "bfs", "--graph", path)
	assert.Error(t, err, "--start is required")

	_, err = run(t, "dfs", "--graph", path, "--start", "A", "--interactive", "--json")
	assert.ErrorContains(t, err, "--interactive")
}

func TestLimitsApplyToEveryCommand(t *testing.T) {
	model := writeModel(t)
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"A":["B"],"B":["C"],"C":[]}`), 0o644))

	_, err := run(t, "classify", "--model", model, "--edges", "0-1,1-2", "--max-nodes", "2")
	assert.ErrorContains(t, err, "must not exceed 2")

	_, err = run(t, "bfs", "--graph", path, "--start", "A", "--max-nodes", "2")
	assert.ErrorContains(t, err, "must not exceed 2")

	_, err = run(t, "dfs", "--graph", path, "--start", "A", "--max-edges", "1")
	assert.ErrorContains(t, err, "must not exceed 1")

	_, err = run(t, "bfs", "--graph", path, "--start", "A", "--max-nodes", "3", "--json")
	assert.NoError(t, err)
}

func TestModelCommands(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "model.json")
	packed := filepath.Join(dir, "model.json.snappy")

	out, err := run(t, "model", "init", plain, "--seed", "9", "--hidden", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	_, err = run(t, "model", "init", plain)
	assert.ErrorContains(t, err, "--force")

	_, err = run(t, "model", "convert", plain, packed)
	require.NoError(t, err)

	original, err := gnn.Load(t.Context(), plain)
	require.NoError(t, err)
	converted, err := gnn.Load(t.Context(), packed)
	require.NoError(t, err)
	assert.Equal(t, original, converted)

	out, err = run(t, "model", "inspect", packed, "--json")
	require.NoError(t, err)
	var info struct {
		Format         string           `json:"format"`
		HiddenChannels int              `json:"hidden_channels"`
		Parameters     int              `json:"parameters"`
		Tensors        map[string][]int `json:"tensors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, gnn.WeightsFormat, info.Format)
	assert.Equal(t, 8, info.HiddenChannels)
	assert.Equal(t, converted.NumParameters(), info.Parameters)
	assert.Equal(t, []int{8, 1}, info.Tensors[gnn.TensorConv1Weight])

	out, err = run(t, "model", "inspect", plain)
	require.NoError(t, err)
	assert.Contains(t, out, gnn.TensorHeadBias)
}
