package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/ctessum/hexmap"
	"github.com/ctessum/hexmap/internal/config"
	"github.com/ctessum/hexmap/internal/logging"
)

// sourceOptions name the map table and the data joined onto it.
type sourceOptions struct {
	mapPath     string
	dataPath    string
	mapKey      string
	dataKey     string
	signatures  bool
	value       string
	orientation string
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.mapPath, "map", "m", "", "Map table: CSV with q, r and Constituency columns, or HexJSON")
	f.StringVarP(&o.dataPath, "data", "d", "", "CSV file to join onto the map table")
	f.StringVar(&o.mapKey, "map-key", hexmap.IDColumn, "Map table column to join on")
	f.StringVar(&o.dataKey, "data-key", hexmap.PetitionNameColumn, "Data column to join on")
	f.BoolVar(&o.signatures, "signatures", false, "Treat --data as a petition export and colour by signature_pc")
	f.StringVarP(&o.value, "value", "v", "", "Column that determines hexagon colours")
	f.StringVar(&o.orientation, "orientation", string(hexmap.OddR), "Hex grid layout")
	_ = cmd.MarkFlagRequired("map")
}

// loader is satisfied by hexmap.Map and hexmap.Chart.
type loader interface {
	Load(t *hexmap.Table, valueColumn string) error
	AddData(aux *hexmap.Table, mapKey, dataKey string) error
	SetValueColumn(col string) error
	SetOrientation(name string) error
}

// readMap reads a map table from CSV or, by extension, HexJSON.
func readMap(path string, cfg *config.Config) (*hexmap.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hexjson", ".json":
		return hexmap.ReadHexJSONFile(path)
	}
	enc, err := cfg.Input.Decoder()
	if err != nil {
		return nil, err
	}
	return hexmap.ReadCSVFile(path, hexmap.WithEncoding(enc))
}

// load reads the sources into l.
func (o *sourceOptions) load(l loader, cfg *config.Config) error {
	if err := l.SetOrientation(o.orientation); err != nil {
		return err
	}
	mapTable, err := readMap(o.mapPath, cfg)
	if err != nil {
		return err
	}
	if o.dataPath == "" {
		return l.Load(mapTable, o.value)
	}

	enc, err := cfg.Input.Decoder()
	if err != nil {
		return err
	}
	data, err := hexmap.ReadCSVFile(o.dataPath, hexmap.WithEncoding(enc))
	if err != nil {
		return err
	}
	if o.signatures {
		t, err := hexmap.SignaturePercent(mapTable, data)
		if err != nil {
			return err
		}
		value := o.value
		if value == "" {
			value = hexmap.SignaturePCColumn
		}
		return l.Load(t, value)
	}
	if err := l.Load(mapTable, ""); err != nil {
		return err
	}
	if err := l.AddData(data, o.mapKey, o.dataKey); err != nil {
		return err
	}
	if o.value != "" {
		return l.SetValueColumn(o.value)
	}
	return nil
}

// styleOptions override the draw settings of the configuration.
type styleOptions struct {
	colormap  string
	vmin      float64
	vmax      float64
	title     string
	titleSize float64
	outline   string
	category  string
}

func (s *styleOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.colormap, "colormap", "", fmt.Sprintf("Colormap, one of %s", strings.Join(hexmap.Colormaps(), ", ")))
	f.Float64Var(&s.vmin, "vmin", 0, "Lower end of the colour scale")
	f.Float64Var(&s.vmax, "vmax", 0, "Upper end of the colour scale")
	f.StringVarP(&s.title, "title", "t", "", "Title drawn above the map")
	f.Float64Var(&s.titleSize, "title-size", 0, "Title font size in points")
	f.StringVar(&s.outline, "outline", "", "Column whose groups are outlined")
	f.StringVar(&s.category, "category", "", "Column of party names colouring the map when no value column is set")
}

// drawOptions merges the flags over cfg.
func (s *styleOptions) drawOptions(cmd *cobra.Command, cfg *config.Config) hexmap.DrawOptions {
	d := cfg.Draw
	f := cmd.Flags()
	if f.Changed("colormap") {
		d.Colormap = s.colormap
	}
	if f.Changed("vmin") {
		d.VMin = hexmap.Bound(s.vmin)
	}
	if f.Changed("vmax") {
		d.VMax = hexmap.Bound(s.vmax)
	}
	if f.Changed("title") {
		d.Title = s.title
	}
	if f.Changed("title-size") {
		d.TitleSize = s.titleSize
	}
	if f.Changed("outline") {
		d.OutlineColumn = s.outline
	}
	return hexmap.DrawOptions{
		VMin:           d.VMin,
		VMax:           d.VMax,
		Title:          d.Title,
		TitleStyle:     hexmap.TitleStyle{Size: vg.Points(d.TitleSize)},
		Colormap:       d.Colormap,
		CategoryColumn: s.category,
		OutlineColumn:  d.OutlineColumn,
	}
}

// sizeOptions override the save settings of the configuration.
type sizeOptions struct {
	width, height float64
	dpi           int
}

func (s *sizeOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&s.width, "width", 0, "Image width in inches")
	f.Float64Var(&s.height, "height", 0, "Image height in inches")
	f.IntVar(&s.dpi, "dpi", 0, "Resolution of raster images")
}

func (s *sizeOptions) saveOptions(cmd *cobra.Command, cfg *config.Config) hexmap.SaveOptions {
	c := cfg.Save
	f := cmd.Flags()
	if f.Changed("width") {
		c.Width = s.width
	}
	if f.Changed("height") {
		c.Height = s.height
	}
	if f.Changed("dpi") {
		c.DPI = s.dpi
	}
	return hexmap.SaveOptions{
		Width:  vg.Length(c.Width) * vg.Inch,
		Height: vg.Length(c.Height) * vg.Inch,
		DPI:    c.DPI,
	}
}

// drawCmdOptions holds options for the draw command.
type drawCmdOptions struct {
	sourceOptions
	styleOptions
	sizeOptions
	out       string
	annotate  []string
	annotSize float64
}

// newDrawCmd creates the draw command.
func (a *App) newDrawCmd() *cobra.Command {
	opts := &drawCmdOptions{}

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a hex map image",
		Long: `Draw a map table as hexagons and save it as an image. The format follows
the extension of --out: png, jpg, tif, svg, pdf or eps.

Examples:
  # Colour by a column of the map table
  hexmap draw -m uk_hex.csv -v Electorate -o electorate.png

  # Colour by petition signatures as a share of the electorate
  hexmap draw -m uk_hex.csv -d 241584.csv --signatures --vmin 0 --vmax 35 \
    -t "Signature as % of Electorate" -o 241584.png

  # Label a constituency
  hexmap draw -m uk_hex.csv -o uk.svg --annotate "Islington North=Here"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.draw(cmd, opts)
		},
	}

	opts.sourceOptions.register(cmd)
	opts.styleOptions.register(cmd)
	opts.sizeOptions.register(cmd)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Image file to write")
	cmd.Flags().StringArrayVar(&opts.annotate, "annotate", nil, "Constituency=Text label, repeatable")
	cmd.Flags().Float64Var(&opts.annotSize, "annotate-size", 0, "Label font size in points")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (a *App) draw(cmd *cobra.Command, opts *drawCmdOptions) error {
	m := hexmap.New()
	if err := opts.load(m, a.cfg); err != nil {
		return err
	}
	fig, err := m.Draw(opts.drawOptions(cmd, a.cfg))
	if err != nil {
		return err
	}
	for _, s := range opts.annotate {
		name, text, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("annotation %q is not Constituency=Text", s)
		}
		if _, err := m.Annotate(text, hexmap.AnnotateOptions{
			Constituency: name,
			Size:         vg.Points(opts.annotSize),
		}); err != nil {
			return err
		}
	}
	if u := fig.Unmapped(); len(u) > 0 {
		logging.Warn().
			Add(logging.Component("draw")).
			Add(logging.Str("unmapped", strings.Join(u, ", "))).
			Msg("categories drawn in the fallback colour")
	}

	save := opts.saveOptions(cmd, a.cfg)
	save.Dir = filepath.Dir(opts.out)
	path, err := m.Save(filepath.Base(opts.out), save)
	if err != nil {
		return err
	}
	logging.Info().Add(logging.Component("draw")).Add(logging.Output(path)).Msg("saved map")
	fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	return nil
}
