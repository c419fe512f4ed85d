package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/spf13/cobra"
)

func newModelCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect, convert and create GCN weight files",
		Long: `Weight files use the graphclass-gcn/v1 JSON format. A path ending in
.snappy is snappy block-compressed; s3://bucket/key locations can be read
by inspect and convert.`,
	}
	cmd.AddCommand(
		newModelInspectCmd(root),
		newModelConvertCmd(),
		newModelInitCmd(),
	)
	return cmd
}

func newModelInspectCmd(root *rootOptions) *cobra.Command {
	var s3 gnn.S3Options
	cmd := &cobra.Command{
		Use:   "inspect LOCATION",
		Short: "Show the shape and tensors of a weights file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := gnn.Load(cmd.Context(), args[0], gnn.WithS3Options(s3))
			if err != nil {
				return err
			}
			w := gnn.WeightsOf(model)

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				shapes := make(map[string][]int, len(w.Tensors))
				for name, t := range w.Tensors {
					shapes[name] = t.Shape
				}
				return writeJSON(out, map[string]any{
					"format":          w.Format,
					"in_channels":     w.InChannels,
					"hidden_channels": w.HiddenChannels,
					"out_channels":    w.OutChannels,
					"parameters":      model.NumParameters(),
					"tensors":         shapes,
				})
			}

			rows := []kv{
				{"location", args[0]},
				{"format", w.Format},
				{"channels", fmt.Sprintf("%d → %d → %d", w.InChannels, w.HiddenChannels, w.OutChannels)},
				{"parameters", fmt.Sprint(model.NumParameters())},
			}
			for _, name := range w.TensorNames() {
				rows = append(rows, kv{name, shapeString(w.Tensors[name].Shape)})
			}
			renderPanel(out, "Model", rows)
			return nil
		},
	}
	addS3Flags(cmd, &s3)
	return cmd
}

func newModelConvertCmd() *cobra.Command {
	var s3 gnn.S3Options
	cmd := &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Re-encode a weights file, compressing when DST ends in .snappy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := gnn.Load(cmd.Context(), args[0], gnn.WithS3Options(s3))
			if err != nil {
				return err
			}
			if err := model.Save(args[1]); err != nil {
				return err
			}
			return reportWritten(cmd, args[1])
		},
	}
	addS3Flags(cmd, &s3)
	return cmd
}

func newModelInitCmd() *cobra.Command {
	var (
		seed   uint64
		hidden int
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init DST",
		Short: "Write an untrained model with Glorot-initialised weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(args[0]); err == nil {
					return fmt.Errorf("%s exists, use --force to overwrite", args[0])
				}
			}
			if hidden <= 0 {
				return fmt.Errorf("--hidden must be positive, got %d", hidden)
			}
			model := gnn.NewModel(gnn.DefaultInChannels, hidden, gnn.DefaultOutChannels, seed)
			if err := model.Save(args[0]); err != nil {
				return err
			}
			return reportWritten(cmd, args[0])
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&seed, "seed", 1, "random seed")
	f.IntVar(&hidden, "hidden", gnn.DefaultHiddenChannels, "hidden channels")
	f.BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func addS3Flags(cmd *cobra.Command, s3 *gnn.S3Options) {
	f := cmd.Flags()
	f.StringVar(&s3.Region, "s3-region", "", "S3 region for s3:// locations")
	f.StringVar(&s3.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	f.BoolVar(&s3.UsePathStyle, "s3-path-style", false, "use path-style S3 addressing")
}

func reportWritten(cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.Good.Render("wrote ")+path+styles.Muted.Render(fmt.Sprintf(" (%d bytes)", info.Size())))
	return nil
}

func shapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, " × ") + "]"
}
