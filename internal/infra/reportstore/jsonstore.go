// Package reportstore keeps fit reports as JSON files with a JSONL index.
package reportstore

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

const (
	defaultReportsDir = "reports"
	indexFile         = "index.jsonl"

	// Latest selects the newest report in LoadReport.
	Latest = "latest"
)

type JSONStore struct {
	rootDir        string
	reportsDirName string
	writeIndex     bool
	now            func() time.Time
	log            *slog.Logger
}

type Option func(*JSONStore)

// WithIndex toggles the JSONL index reports/index.jsonl. On by default.
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *JSONStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.ReportsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultReportsDir
	}

	s := &JSONStore{
		rootDir:        root,
		reportsDirName: dir,
		writeIndex:     true,
		now:            time.Now,
		log:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	return filepath.Join(s.rootDir, s.reportsDirName)
}

// Dir returns reports/<id>, where plots and draws of a report live.
func (s *JSONStore) Dir(id string) string {
	return filepath.Join(s.dir(), id)
}

// IDFor builds "<UTC start>_<slug>" from the report start time and title,
// falling back to the dataset name.
func (s *JSONStore) IDFor(r domain.Report) string {
	if r.ID != "" {
		return r.ID
	}
	ts := r.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	part := r.Title
	if strings.TrimSpace(part) == "" {
		part = strings.TrimSuffix(r.Dataset.Name, filepath.Ext(r.Dataset.Name))
	}
	slug := slugify(part)
	if slug == "" {
		slug = "fit"
	}
	return fmt.Sprintf("%s_%s", ts.UTC().Format("20060102T150405Z"), slug)
}

func (s *JSONStore) SaveReport(r domain.Report) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	if r.StartedAt.IsZero() {
		r.StartedAt = s.now()
	}
	r.StartedAt = r.StartedAt.UTC()
	r.ID = s.IDFor(r)

	filename := r.ID + ".json"
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if err := writeAtomic(path, b); err != nil {
		return "", err
	}

	// The report file is the source of truth; a stale index only hides it
	// from List and "latest".
	if s.writeIndex {
		if err := s.appendIndex(dir, filename, r); err != nil {
			s.log.Warn("reportstore.index.failed", "id", r.ID, "path", filepath.Join(dir, indexFile), "err", err)
		}
	}

	return r.ID, nil
}

func writeAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &domain.OpError{
			Op:   "reportstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "reportstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

func (s *JSONStore) appendIndex(dir, filename string, r domain.Report) error {
	line, err := json.Marshal(domain.ReportRef{
		ID:        r.ID,
		UUID:      r.UUID,
		File:      filename,
		Title:     r.Title,
		Dataset:   r.Dataset.Name,
		Priors:    r.Model.Priors.Name,
		StartedAt: r.StartedAt,
		Failed:    r.FailedChecks(),
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// ListReports reads the index, newest first. A later line for the same id
// replaces an earlier one; malformed lines are skipped.
func (s *JSONStore) ListReports() ([]domain.ReportRef, error) {
	path := filepath.Join(s.dir(), indexFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ReportRef{}, nil
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "reportstore.index",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	byID := map[string]domain.ReportRef{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ref domain.ReportRef
		if err := json.Unmarshal(line, &ref); err != nil || ref.ID == "" {
			continue
		}
		byID[ref.ID] = ref
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "reportstore.index",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	out := make([]domain.ReportRef, 0, len(byID))
	for _, ref := range byID {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *JSONStore) LoadReport(id string) (domain.Report, []byte, error) {
	id = strings.TrimSuffix(strings.TrimSpace(id), ".json")
	if id == Latest {
		refs, err := s.ListReports()
		if err != nil {
			return domain.Report{}, nil, err
		}
		if len(refs) == 0 {
			return domain.Report{}, nil, &domain.OpError{
				Op:   "reportstore.load",
				Kind: domain.KindNotFound,
				Path: s.dir(),
				Err:  fmt.Errorf("no reports yet: %w", domain.ErrNotFound),
			}
		}
		id = refs[0].ID
	}
	if id == "" || strings.ContainsAny(id, `/\`) {
		return domain.Report{}, nil, &domain.OpError{
			Op:   "reportstore.load",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("invalid report id %q: %w", id, domain.ErrInvalidConfig),
		}
	}

	path := filepath.Join(s.dir(), id+".json")
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Report{}, nil, &domain.OpError{
			Op:   "reportstore.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  domain.ErrNotFound,
		}
	}
	if err != nil {
		return domain.Report{}, nil, &domain.OpError{
			Op:   "reportstore.load",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	var r domain.Report
	if err := json.Unmarshal(b, &r); err != nil {
		return domain.Report{}, nil, &domain.OpError{
			Op:   "reportstore.decode",
			Kind: domain.KindInvalidData,
			Path: path,
			Err:  fmt.Errorf("%v: %w", err, domain.ErrInvalidData),
		}
	}
	return r, b, nil
}

// SaveDraws writes reports/<id>/draws_<phase>.csv with one row per draw
// and returns the file name relative to the report directory.
func (s *JSONStore) SaveDraws(id string, set domain.SampleSet) (string, error) {
	dir := s.Dir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"chain", "draw"}
	for _, p := range domain.Params {
		header = append(header, string(p))
	}
	_ = w.Write(header)
	for ci, c := range set.Chains {
		for di, d := range c.Draws {
			_ = w.Write([]string{
				strconv.Itoa(ci),
				strconv.Itoa(di),
				formatFloat(d.A),
				formatFloat(d.B),
				formatFloat(d.C),
			})
		}
	}
	w.Flush()

	name := fmt.Sprintf("draws_%s.csv", set.Phase)
	path := filepath.Join(dir, name)
	if err := w.Error(); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.draws",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return name, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
