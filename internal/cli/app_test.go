package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/hexmap"
	"github.com/ctessum/hexmap/internal/config"
)

const testMap = `Constituency,q,r,Electorate,Party
Aldershot,0,0,200,Conservative
Bath,1,0,400,Lib Dem
Islington North,0,1,100,Labour
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestApp_Version(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "hexmap version") {
		t.Errorf("version output missing 'hexmap version', got: %s", out)
	}
}

func TestApp_Help(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"hexagons", "draw", "chart", "batch", "convert"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q, got: %s", want, out)
		}
	}
}

func TestApp_Draw(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, filepath.Join(dir, "map.csv"), testMap)
	dataPath := writeFile(t, filepath.Join(dir, "petition.csv"), "name,mp,signature_count\nAldershot,X,10\nBath,Y,40\n")
	out := filepath.Join(dir, "plots", "map.png")

	stdout, err := run(t, "draw", "-m", mapPath, "-d", dataPath, "--signatures",
		"--vmin", "0", "--vmax", "35", "-t", "Signatures", "--dpi", "40",
		"--annotate", "Bath=B", "-o", out)
	if err != nil {
		t.Fatalf("draw command failed: %v", err)
	}
	if !strings.Contains(stdout, out) {
		t.Errorf("draw output should name %s, got: %s", out, stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
}

func TestApp_DrawJoin(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, filepath.Join(dir, "map.csv"), testMap)
	dataPath := writeFile(t, filepath.Join(dir, "extra.csv"), "seat,turnout\nBath,0.7\n")
	out := filepath.Join(dir, "map.svg")

	if _, err := run(t, "draw", "-m", mapPath, "-d", dataPath, "--data-key", "seat", "-v", "turnout", "-o", out); err != nil {
		t.Fatalf("draw command failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
}

func TestApp_DrawErrors(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, filepath.Join(dir, "map.csv"), testMap)
	out := filepath.Join(dir, "map.png")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown value column", []string{"-v", "Turnout"}, hexmap.ErrUnknownKey},
		{"unbuilt orientation", []string{"--orientation", "even-r"}, hexmap.ErrNotImplemented},
		{"unknown colormap", []string{"-v", "Electorate", "--colormap", "jet"}, hexmap.ErrUnknownKey},
		{"unknown constituency", []string{"--annotate", "Nowhere=x"}, hexmap.ErrUnknownKey},
		{"vmax below data", []string{"-v", "Electorate", "--vmax", "0"}, hexmap.ErrInvalidBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"draw", "-m", mapPath, "-o", out}, tt.args...)
			if _, err := run(t, args...); !errors.Is(err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := run(t, "draw", "-o", out); err == nil {
		t.Error("draw without --map should fail")
	}
}

func TestApp_Config(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, filepath.Join(dir, "map.csv"), testMap)
	cfgPath := writeFile(t, filepath.Join(dir, "hexmap.yaml"), "draw:\n  colormap: plasma\nsave:\n  dpi: 30\nlog:\n  format: json\n")
	out := filepath.Join(dir, "map.png")

	if _, err := run(t, "-c", cfgPath, "draw", "-m", mapPath, "-v", "Electorate", "-o", out); err != nil {
		t.Fatalf("draw with config failed: %v", err)
	}

	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "save:\n  dpi: -1\n")
	if _, err := run(t, "-c", bad, "draw", "-m", mapPath, "-o", out); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("want ErrValidationFailed, got %v", err)
	}
}

func TestApp_Chart(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, filepath.Join(dir, "map.csv"), testMap)
	out := filepath.Join(dir, "chart.html")

	if _, err := run(t, "chart", "-m", mapPath, "-t", "Parties", "--width", "300", "--height", "300", "-o", out); err != nil {
		t.Fatalf("chart command failed: %v", err)
	}
	page, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "<svg") {
		t.Errorf("chart page has no SVG")
	}
}

func TestApp_Batch(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, filepath.Join(dir, "map.csv"), testMap)
	dataDir := filepath.Join(dir, "data")
	writeFile(t, filepath.Join(dataDir, "a.csv"), "name,mp,signature_count\nBath,Y,40\n")
	writeFile(t, filepath.Join(dir, "plots", "b.png"), "old")
	writeFile(t, filepath.Join(dataDir, "b.csv"), "name,mp,signature_count\nBath,Y,40\n")

	out, err := run(t, "batch", dataDir, "-m", mapPath, "--out-dir", filepath.Join(dir, "plots"), "--width", "2", "--height", "2")
	if err != nil {
		t.Fatalf("batch command failed: %v", err)
	}
	if !strings.Contains(out, "Rendered 1, skipped 1") {
		t.Errorf("unexpected batch output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "plots", "a.png")); err != nil {
		t.Error(err)
	}
}

func TestApp_Convert(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "uk.hexjson"), `{"layout":"odd-r","hexes":{
		"b":{"n":"Bath","q":1,"r":0,"e":400,"p":900},
		"a":{"n":"Aldershot","q":0,"r":0,"e":200,"p":500}}}`)

	out, err := run(t, "convert", "-i", in)
	if err != nil {
		t.Fatalf("convert command failed: %v", err)
	}
	want := "Constituency,q,r,Electorate,Population\nAldershot,0,0,200,500\nBath,1,0,400,900\n"
	if out != want {
		t.Errorf("convert output:\nwant %q\ngot  %q", want, out)
	}

	csvPath := filepath.Join(dir, "uk.csv")
	if _, err := run(t, "convert", "-i", in, "-o", csvPath); err != nil {
		t.Fatalf("convert to file failed: %v", err)
	}
	tab, err := hexmap.ReadCSVFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 2 {
		t.Errorf("want 2 records, got %d", tab.Len())
	}

	// A converted map can be drawn straight from the HexJSON file.
	if _, err := run(t, "draw", "-m", in, "-v", "Population", "--dpi", "30", "-o", filepath.Join(dir, "uk.png")); err != nil {
		t.Errorf("draw from hexjson failed: %v", err)
	}
}
