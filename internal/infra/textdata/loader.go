package textdata

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// Loader reads whitespace-delimited measurement tables such as the NOAA
// Mauna Loa weekly file. Lines starting with '#' are comments.
type Loader struct {
	dataDir string
	xCol    int
	yCol    int
}

type Option func(*Loader)

func WithDataDir(dir string) Option {
	return func(l *Loader) { l.dataDir = dir }
}

// WithColumns selects the zero-based x and y columns.
func WithColumns(x, y int) Option {
	return func(l *Loader) {
		l.xCol = x
		l.yCol = y
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{dataDir: "data", xCol: 3, yCol: 4}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.DatasetLoader = (*Loader)(nil)

func (l *Loader) LoadDataset(path string) (domain.Dataset, error) {
	if l.xCol < 0 || l.yCol < 0 {
		return domain.Dataset{}, &domain.OpError{
			Op:   "textdata.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("columns must be >= 0 (x=%d, y=%d): %w", l.xCol, l.yCol, domain.ErrInvalidConfig),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, &domain.OpError{
			Op:   "textdata.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	ds := domain.Dataset{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path: path,
	}

	need := max(l.xCol, l.yCol) + 1
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < need {
			return domain.Dataset{}, invalidRow(path, lineNo, fmt.Sprintf("expected at least %d columns, got %d", need, len(fields)))
		}
		x, err := strconv.ParseFloat(fields[l.xCol], 64)
		if err != nil {
			return domain.Dataset{}, invalidRow(path, lineNo, fmt.Sprintf("column %d: %q is not a number", l.xCol, fields[l.xCol]))
		}
		y, err := strconv.ParseFloat(fields[l.yCol], 64)
		if err != nil {
			return domain.Dataset{}, invalidRow(path, lineNo, fmt.Sprintf("column %d: %q is not a number", l.yCol, fields[l.yCol]))
		}

		ds.Rows++
		if !keep(x, y) {
			ds.Dropped++
			continue
		}
		ds.Observations = append(ds.Observations, domain.Observation{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return domain.Dataset{}, &domain.OpError{
			Op:   "textdata.load",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if len(ds.Observations) == 0 {
		return domain.Dataset{}, &domain.OpError{
			Op:   "textdata.load",
			Kind: domain.KindInvalidData,
			Path: path,
			Err:  fmt.Errorf("no valid rows (%d read, %d dropped): %w", ds.Rows, ds.Dropped, domain.ErrInvalidData),
		}
	}

	return ds, nil
}

// keep drops missing measurements: NOAA writes -999.99 for absent ppm.
func keep(x, y float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return false
	}
	return y >= 0
}

func (l *Loader) ListDatasets(root string) ([]domain.DatasetRef, error) {
	dir := filepath.Join(root, l.dataDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "textdata.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.DatasetRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !HasDataExt(name) {
			continue
		}
		refs = append(refs, domain.DatasetRef{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// HasDataExt reports whether name looks like a dataset file.
func HasDataExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".dat", ".csv":
		return true
	default:
		return false
	}
}

func invalidRow(path string, line int, msg string) error {
	return &domain.OpError{
		Op:   "textdata.parse",
		Kind: domain.KindInvalidData,
		Path: path,
		Err:  fmt.Errorf("line %d: %s: %w", line, msg, domain.ErrInvalidData),
	}
}
