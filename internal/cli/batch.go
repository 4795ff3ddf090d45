package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"github.com/ctessum/hexmap"
)

// batchOptions holds options for the batch command.
type batchOptions struct {
	styleOptions
	sizeOptions
	mapPath string
	outDir  string
}

// newBatchCmd creates the batch command.
func (a *App) newBatchCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <data-dir>",
		Short: "Draw a map for every petition export in a directory",
		Long: `Walk data-dir and draw the signature percentage map of every CSV
petition export found, saving <name>.png in --out-dir at 300 DPI. Maps
that already exist are skipped, so an interrupted run can be resumed.

Examples:
  hexmap batch data/map -m uk_hex.csv --out-dir plots --vmin 0 --vmax 35`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.batch(cmd, args[0], opts)
		},
	}

	opts.styleOptions.register(cmd)
	opts.sizeOptions.register(cmd)
	cmd.Flags().StringVarP(&opts.mapPath, "map", "m", "", "Map table CSV")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Directory to save maps in")
	_ = cmd.MarkFlagRequired("map")
	_ = cmd.MarkFlagRequired("out-dir")

	return cmd
}

func (a *App) batch(cmd *cobra.Command, dataDir string, opts *batchOptions) error {
	enc, err := a.cfg.Input.Decoder()
	if err != nil {
		return err
	}
	if enc == nil {
		// Batch reads default to latin-1; utf-8 input is passed through.
		enc = encoding.Nop
	}
	res, err := hexmap.PlotBatchContext(cmd.Context(), dataDir, opts.mapPath, opts.outDir, hexmap.BatchOptions{
		Draw:     opts.drawOptions(cmd, a.cfg),
		Save:     opts.saveOptions(cmd, a.cfg),
		Encoding: enc,
	})
	fmt.Fprintf(a.stdout, "Rendered %d, skipped %d\n", len(res.Rendered), len(res.Skipped))
	return err
}
