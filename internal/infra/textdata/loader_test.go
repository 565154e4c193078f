package textdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func TestLoadDataset_NOAAWeekly(t *testing.T) {
	path := filepath.Join("testdata", "weekly.txt")
	ds, err := NewLoader().LoadDataset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ds.Name != "weekly" {
		t.Fatalf("expected name weekly, got %q", ds.Name)
	}
	if ds.Rows != 5 || ds.Dropped != 1 {
		t.Fatalf("expected rows=5 dropped=1, got rows=%d dropped=%d", ds.Rows, ds.Dropped)
	}

	want := []domain.Observation{
		{X: 1974.3795, Y: 333.37},
		{X: 1974.3986, Y: 332.95},
		{X: 1974.4178, Y: 332.35},
		{X: 1974.4562, Y: 332.20},
	}
	if diff := cmp.Diff(want, ds.Observations); diff != "" {
		t.Fatalf("observations mismatch (-want +got):\n%s", diff)
	}

	for _, o := range ds.Observations {
		if o.Y < 0 {
			t.Fatalf("filtered dataset contains negative ppm: %+v", o)
		}
	}
}

func TestLoadDataset_CustomColumnsDropsNaN(t *testing.T) {
	path := filepath.Join("testdata", "two_col.dat")
	ds, err := NewLoader(WithColumns(0, 1)).LoadDataset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 || ds.Dropped != 1 {
		t.Fatalf("expected 2 kept and 1 dropped, got %d/%d", ds.Len(), ds.Dropped)
	}
}

func TestLoadDataset_Errors(t *testing.T) {
	cases := []struct {
		file     string
		kind     domain.ErrorKind
		contains string
	}{
		{"short_row.txt", domain.KindInvalidData, "line 2"},
		{"bad_number.txt", domain.KindInvalidData, `"abc" is not a number`},
		{"all_missing.txt", domain.KindInvalidData, "no valid rows"},
		{"does_not_exist.txt", domain.KindNotFound, "does_not_exist.txt"},
	}
	for _, c := range cases {
		path := filepath.Join("testdata", c.file)
		_, err := NewLoader().LoadDataset(path)
		if err == nil {
			t.Errorf("%s: expected error", c.file)
			continue
		}
		if !domain.IsKind(err, c.kind) {
			t.Errorf("%s: expected kind %s, got %v", c.file, c.kind, err)
		}
		if !strings.Contains(err.Error(), c.contains) {
			t.Errorf("%s: expected %q in %v", c.file, c.contains, err)
		}
	}
}

func TestLoadDataset_NegativeColumn(t *testing.T) {
	_, err := NewLoader(WithColumns(-1, 4)).LoadDataset(filepath.Join("testdata", "weekly.txt"))
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestListDatasets(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "data")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.txt", "a.dat", "notes.md", "c.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("1 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	refs, err := NewLoader().ListDatasets(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestListDatasets_MissingDir(t *testing.T) {
	_, err := NewLoader(WithDataDir("nope")).ListDatasets(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
