package hexmap

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func twoHexTable(t *testing.T) *Table {
	return mustTable(t, []string{"q", "r", IDColumn},
		[]string{"0", "0", "A"},
		[]string{"0", "1", "B"},
	)
}

func TestDrawTwoHexes(t *testing.T) {
	m := New()
	if err := m.Load(twoHexTable(t), ""); err != nil {
		t.Fatal(err)
	}
	fig, err := m.Draw(DrawOptions{})
	if err != nil {
		t.Fatal(err)
	}
	hexes := fig.Hexes()
	if len(hexes) != 2 {
		t.Fatalf("want 2 hexagons, have %d", len(hexes))
	}
	if hexes[0].X != 0 || hexes[0].Y != 0 {
		t.Errorf("A: want (0, 0), have %v", hexes[0].Point)
	}
	if hexes[1].X != 0.5 || math.Abs(hexes[1].Y-math.Sqrt(0.75)) > 1e-12 {
		t.Errorf("B: want (0.5, %g), have %v", math.Sqrt(0.75), hexes[1].Point)
	}
	if _, ok := fig.ColourBar(); ok {
		t.Error("no value column, so there should be no colour bar")
	}
	for i, c := range fig.Fills() {
		if !sameColour(c, PlainColour) {
			t.Errorf("hex %d: want plain colour, have %v", i, c)
		}
	}
	b := fig.Bounds()
	if b.Min.X != -1 || b.Max.X != 1 {
		t.Errorf("x bounds: want [-1, 1], have [%g, %g]", b.Min.X, b.Max.X)
	}
	if b.Min.Y != -1 || math.Abs(b.Max.Y-(math.Sqrt(0.75)+1)) > 1e-12 {
		t.Errorf("y bounds: want [-1, %g], have [%g, %g]", math.Sqrt(0.75)+1, b.Min.Y, b.Max.Y)
	}
	if m.Figure() != fig {
		t.Error("Figure should return the drawn figure")
	}
}

func TestDrawValueColumn(t *testing.T) {
	tab := mustTable(t, []string{"q", "r", IDColumn, "v"},
		[]string{"0", "0", "A", "1"},
		[]string{"1", "0", "B", "3"},
		[]string{"2", "0", "C", ""},
	)
	m := New()
	if err := m.Load(tab, "v"); err != nil {
		t.Fatal(err)
	}
	fig, err := m.Draw(DrawOptions{Colormap: "magma"})
	if err != nil {
		t.Fatal(err)
	}
	cs, ok := fig.ColourBar()
	if !ok {
		t.Fatal("want a colour bar")
	}
	if cs.Min() != 1 || cs.Max() != 3 || cs.Name() != "magma" {
		t.Errorf("scale: want magma [1, 3], have %s [%g, %g]", cs.Name(), cs.Min(), cs.Max())
	}
	if !sameColour(fig.Fills()[2], MissingColour) {
		t.Errorf("missing value: want %v, have %v", MissingColour, fig.Fills()[2])
	}
	if !math.IsNaN(fig.Hexes()[2].Value) {
		t.Errorf("missing value should be NaN, have %g", fig.Hexes()[2].Value)
	}

	fig, err = m.Draw(DrawOptions{VMin: Bound(0), VMax: Bound(35)})
	if err != nil {
		t.Fatal(err)
	}
	cs, _ = fig.ColourBar()
	if cs.Min() != 0 || cs.Max() != 35 {
		t.Errorf("explicit bounds: have [%g, %g]", cs.Min(), cs.Max())
	}
	if _, err := m.Draw(DrawOptions{Colormap: "jet"}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, have %v", err)
	}
}

func TestDrawCategories(t *testing.T) {
	tab := mustTable(t, []string{"q", "r", IDColumn, "Party"},
		[]string{"0", "0", "A", "Labour"},
		[]string{"1", "0", "B", "Independent"},
	)
	m := New()
	if err := m.Load(tab, ""); err != nil {
		t.Fatal(err)
	}
	cats := PartyColours()
	fig, err := m.Draw(DrawOptions{CategoryColumn: "Party", Categories: cats})
	if err != nil {
		t.Fatal(err)
	}
	if u := fig.Unmapped(); len(u) != 1 || u[0] != "Independent" {
		t.Errorf("unmapped: want [Independent], have %v", u)
	}
	if _, ok := cats.Colour("Independent"); ok {
		t.Error("caller's scale was modified")
	}
	if !sameColour(fig.Fills()[1], cats.Fallback()) {
		t.Errorf("want fallback colour, have %v", fig.Fills()[1])
	}
	if _, err := m.Draw(DrawOptions{CategoryColumn: "Colour"}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, have %v", err)
	}
}

func TestDrawOutlines(t *testing.T) {
	tab := mustTable(t, []string{"q", "r", IDColumn, "Region"},
		[]string{"0", "0", "A", "North"},
		[]string{"1", "0", "B", "North"},
		[]string{"5", "5", "C", "South"},
	)
	m := New()
	if err := m.Load(tab, ""); err != nil {
		t.Fatal(err)
	}
	fig, err := m.Draw(DrawOptions{OutlineColumn: "Region"})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(fig.Outlines()); n != 2 {
		t.Errorf("want 2 outlines, have %d", n)
	}
}

func TestLoadSchemaError(t *testing.T) {
	for _, missing := range []string{"q", "r", IDColumn} {
		var cols []string
		for _, c := range requiredColumns {
			if c != missing {
				cols = append(cols, c)
			}
		}
		m := New()
		err := m.Load(mustTable(t, cols), "")
		var se *SchemaError
		if !errors.As(err, &se) || se.Column != missing {
			t.Errorf("missing %s: want SchemaError naming it, have %v", missing, err)
			continue
		}
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("error should name %s: %v", missing, err)
		}
		if m.Table() != nil {
			t.Error("failed load replaced the table")
		}
	}
}

func TestPreconditions(t *testing.T) {
	m := New()
	aux := mustTable(t, []string{"name"})
	if err := m.AddData(aux, IDColumn, "name"); !errors.Is(err, ErrPrecondition) {
		t.Errorf("AddData: want ErrPrecondition, have %v", err)
	}
	if err := m.SetValueColumn("v"); !errors.Is(err, ErrPrecondition) {
		t.Errorf("SetValueColumn: want ErrPrecondition, have %v", err)
	}
	if _, err := m.Draw(DrawOptions{}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("Draw: want ErrPrecondition, have %v", err)
	}
	if _, err := m.Annotate("x", AnnotateOptions{}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("Annotate: want ErrPrecondition, have %v", err)
	}
	if _, err := m.Save("x.png", SaveOptions{}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("Save: want ErrPrecondition, have %v", err)
	}
}

func TestAddDataKeepsUnmatched(t *testing.T) {
	m := New()
	if err := m.Load(twoHexTable(t), ""); err != nil {
		t.Fatal(err)
	}
	aux := mustTable(t, []string{"name", "v"}, []string{"B", "7"})
	if err := m.AddData(aux, IDColumn, "name"); err != nil {
		t.Fatal(err)
	}
	tab := m.Table()
	if tab.Len() != 2 {
		t.Fatalf("want 2 records, have %d", tab.Len())
	}
	if v := tab.Value(0, "v"); v != "" {
		t.Errorf("A: want missing v, have %q", v)
	}
	if v := tab.Value(1, "v"); v != "7" {
		t.Errorf("B: want 7, have %q", v)
	}
	if err := m.SetValueColumn("v"); err != nil {
		t.Fatal(err)
	}
}

func TestSetValueColumnUnchangedOnFailure(t *testing.T) {
	tab := mustTable(t, []string{"q", "r", IDColumn, "v"}, []string{"0", "0", "A", "1"})
	m := New()
	if err := m.Load(tab, "v"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetValueColumn("missing"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, have %v", err)
	}
	if m.ValueColumn() != "v" {
		t.Errorf("value column changed to %q", m.ValueColumn())
	}
	if err := m.Load(tab, "missing"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, have %v", err)
	}
	if m.ValueColumn() != "v" {
		t.Errorf("value column changed to %q", m.ValueColumn())
	}
	m.ClearValueColumn()
	if m.ValueColumn() != "" {
		t.Error("ClearValueColumn did not clear")
	}
}

func TestSetOrientation(t *testing.T) {
	m := New()
	for i := 0; i < 2; i++ {
		if err := m.SetOrientation("odd-r"); err != nil {
			t.Fatal(err)
		}
	}
	if m.Orientation() != OddR {
		t.Errorf("want %s, have %s", OddR, m.Orientation())
	}
	if err := m.SetOrientation("even-l"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("want ErrNotImplemented, have %v", err)
	}
	if err := m.SetOrientation("sideways"); !errors.Is(err, ErrUnknownOrientation) {
		t.Errorf("want ErrUnknownOrientation, have %v", err)
	}
	if m.Orientation() != OddR {
		t.Error("failed SetOrientation changed the orientation")
	}
}

func TestAnnotate(t *testing.T) {
	m := New()
	if err := m.Load(twoHexTable(t), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Draw(DrawOptions{Title: "Two"}); err != nil {
		t.Fatal(err)
	}
	fig, err := m.Annotate("here", AnnotateOptions{Constituency: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Annotate("corner", AnnotateOptions{X: -0.5, Y: -0.5}); err != nil {
		t.Fatal(err)
	}
	a := fig.Annotations()
	if len(a) != 2 {
		t.Fatalf("want 2 annotations, have %d", len(a))
	}
	if a[0].At != fig.Hexes()[1].Point {
		t.Errorf("want annotation at B, have %v", a[0].At)
	}
	if _, err := m.Annotate("x", AnnotateOptions{Constituency: "Z"}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, have %v", err)
	}
	if b := fig.Bounds(); b.Min.X != -1 {
		t.Errorf("annotations should not change the bounds, have %v", b)
	}
}

func TestSave(t *testing.T) {
	tab := mustTable(t, []string{"q", "r", IDColumn, "v"},
		[]string{"0", "0", "A", "1"},
		[]string{"0", "1", "B", "2"},
	)
	m := New()
	if err := m.Load(tab, "v"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Draw(DrawOptions{Title: "Values"}); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "plots", "examples")
	for _, name := range []string{"map.png", "map.jpg", "map.tif", "map.svg", "map.pdf", "map.eps"} {
		path, err := m.Save(name, SaveOptions{Dir: dir, DPI: 50})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if want := filepath.Join(dir, name); path != want {
			t.Errorf("want %s, have %s", want, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
	if m.SaveDir() != dir {
		t.Errorf("save dir: want %s, have %s", dir, m.SaveDir())
	}
	if _, err := m.Save("map.bmp", SaveOptions{}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("want ErrUnknownKey, have %v", err)
	}
}

func TestDrawEmpty(t *testing.T) {
	m := New()
	if err := m.Load(mustTable(t, requiredColumns), ""); err != nil {
		t.Fatal(err)
	}
	fig, err := m.Draw(DrawOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.Hexes()) != 0 {
		t.Errorf("want no hexagons, have %d", len(fig.Hexes()))
	}
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := fig.Save(path, SaveOptions{DPI: 20}); err != nil {
		t.Fatal(err)
	}
}

func TestDrawInvalidBounds(t *testing.T) {
	tab := mustTable(t, []string{"q", "r", IDColumn, "v"},
		[]string{"0", "0", "A", "1"},
		[]string{"1", "0", "B", "3"},
	)
	m := New()
	if err := m.Load(tab, "v"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name       string
		vmin, vmax *float64
	}{
		{"inverted", Bound(10), Bound(0)},
		{"max below data", nil, Bound(0)},
		{"min above data", Bound(5), nil},
	}
	for _, test := range tests {
		if _, err := m.Draw(DrawOptions{VMin: test.vmin, VMax: test.vmax}); !errors.Is(err, ErrInvalidBounds) {
			t.Errorf("%s: want ErrInvalidBounds, have %v", test.name, err)
		}
	}
	if m.Figure() != nil {
		t.Error("a failed draw should not leave a figure")
	}

	// Equal bounds are widened for the colour bar.
	fig, err := m.Draw(DrawOptions{VMax: Bound(1)})
	if err != nil {
		t.Fatal(err)
	}
	if cs, _ := fig.ColourBar(); cs.Min() != 1 || cs.Max() != 1 {
		t.Errorf("want [1, 1], have [%g, %g]", cs.Min(), cs.Max())
	}
	dir := t.TempDir()
	for _, name := range []string{"flat.png", "flat.eps"} {
		if _, err := m.Save(name, SaveOptions{Dir: dir, DPI: 20}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
