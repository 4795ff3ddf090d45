package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ctessum/hexmap"
	"github.com/ctessum/hexmap/internal/logging"
)

// chartOptions holds options for the chart command.
type chartOptions struct {
	sourceOptions
	category string
	title    string
	out      string
	width    int
	height   int
}

// newChartCmd creates the chart command.
func (a *App) newChartCmd() *cobra.Command {
	opts := &chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Draw an interactive hex chart",
		Long: `Draw a map table as an interactive chart coloured by party, with the
constituency name shown on hover. An .html --out holds the map and its
legend side by side; an .svg --out holds the map alone.

Examples:
  hexmap chart -m uk_hex.csv -d results.csv --data-key Constituency -o uk.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.chart(opts)
		},
	}

	opts.sourceOptions.register(cmd)
	f := cmd.Flags()
	f.StringVar(&opts.category, "category", hexmap.PartyColumn, "Column of party names")
	f.StringVarP(&opts.title, "title", "t", "", "Chart title")
	f.StringVarP(&opts.out, "out", "o", "", "HTML or SVG file to write")
	f.IntVar(&opts.width, "width", 800, "Map view width in pixels")
	f.IntVar(&opts.height, "height", 800, "Map view height in pixels")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (a *App) chart(opts *chartOptions) error {
	c := hexmap.NewChart()
	c.CategoryColumn = opts.category
	if err := opts.load(c, a.cfg); err != nil {
		return err
	}
	fig, err := c.Draw(opts.title)
	if err != nil {
		return err
	}
	if u := fig.Unmapped(); len(u) > 0 {
		logging.Warn().
			Add(logging.Component("chart")).
			Add(logging.Str("unmapped", strings.Join(u, ", "))).
			Msg("categories drawn in the fallback colour")
	}
	if err := fig.Save(opts.out, opts.width, opts.height); err != nil {
		return err
	}
	logging.Info().Add(logging.Component("chart")).Add(logging.Output(opts.out)).Msg("saved chart")
	fmt.Fprintf(a.stdout, "Wrote %s\n", opts.out)
	return nil
}
