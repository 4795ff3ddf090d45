package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ctessum/hexmap"
)

// newConvertCmd creates the convert command.
func (a *App) newConvertCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a HexJSON file to a map table CSV",
		Long: `Convert a HexJSON boundary file to a CSV map table with the columns
Constituency, q, r, Electorate and Population, sorted by hex id. The CSV
is written to standard output unless --out is given.

Examples:
  hexmap convert -i uk_hex.hexjson -o uk_hex.csv`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			t, err := hexmap.ReadHexJSONFile(in)
			if err != nil {
				return err
			}
			if out == "" {
				return t.WriteCSV(a.stdout)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer func() {
				if e := f.Close(); err == nil {
					err = e
				}
			}()
			if err := t.WriteCSV(f); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Wrote %d hexes to %s\n", t.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "HexJSON file to read")
	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV file to write")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
