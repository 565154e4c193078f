package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// --- fakes shared by the usecase tests ---

type fakeDatasetLoader struct {
	ds  domain.Dataset
	err error
}

func (f fakeDatasetLoader) LoadDataset(path string) (domain.Dataset, error) {
	if f.err != nil {
		return domain.Dataset{}, f.err
	}
	ds := f.ds
	ds.Path = path
	return ds, nil
}

func (f fakeDatasetLoader) ListDatasets(string) ([]domain.DatasetRef, error) { return nil, nil }

type fakePriorLoader struct {
	ps  domain.PriorSet
	err error
}

func (f fakePriorLoader) LoadPriors(string) (domain.PriorSet, error) {
	return f.ps, f.err
}

type memStore struct {
	mu      sync.Mutex
	reports map[string]domain.Report
	raw     map[string][]byte
	draws   map[string][]domain.Phase
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{
		reports: map[string]domain.Report{},
		raw:     map[string][]byte{},
		draws:   map[string][]domain.Phase{},
	}
}

func (s *memStore) IDFor(r domain.Report) string {
	if r.ID != "" {
		return r.ID
	}
	return "fit-" + r.UUID
}

func (s *memStore) SaveReport(r domain.Report) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.IDFor(r)
	s.reports[r.ID] = r
	return r.ID, nil
}

func (s *memStore) SaveDraws(id string, set domain.SampleSet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws[id] = append(s.draws[id], set.Phase)
	return "draws_" + string(set.Phase) + ".csv", nil
}

func (s *memStore) ListReports() ([]domain.ReportRef, error) {
	var out []domain.ReportRef
	for id := range s.reports {
		out = append(out, domain.ReportRef{ID: id})
	}
	for id := range s.raw {
		out = append(out, domain.ReportRef{ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) LoadReport(id string) (domain.Report, []byte, error) {
	if b, ok := s.raw[id]; ok {
		return domain.Report{ID: id}, b, nil
	}
	return domain.Report{}, nil, &domain.OpError{Op: "mem.load", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
}

func (s *memStore) Dir(id string) string { return "/reports/" + id }

type fakeRenderer struct {
	calls int
	last  ports.PlotInput
	err   error
}

func (f *fakeRenderer) Render(in ports.PlotInput) ([]string, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return []string{"fit_prior.png", "fit_posterior.png"}, nil
}

type fakeExpectations struct {
	set domain.ExpectationSet
	err error
}

func (f fakeExpectations) LoadExpectations(string) (domain.ExpectationSet, error) {
	return f.set, f.err
}

type fakeFetcher struct {
	n     int64
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context, string, string) (int64, error) {
	f.calls++
	return f.n, f.err
}

// failingSampler fails every request with err.
type failingSampler struct{ err error }

func (f failingSampler) Sample(context.Context, ports.SampleRequest) (domain.SampleSet, error) {
	return domain.SampleSet{}, f.err
}

var errBoom = errors.New("boom")

// mauna returns a smooth weekly series resembling the Mauna Loa record.
func mauna() domain.Dataset {
	truth := domain.ParamVector{A: 1.2, B: 329.5, C: 0.012}
	ds := domain.Dataset{Name: "synthetic.txt", Rows: 0}
	for i := 0; i < 600; i++ {
		x := 1960 + float64(i)/10
		t := x - 1974
		// Deterministic seasonal wiggle in place of noise.
		y := truth.A*t + truth.B + truth.C*t*t + 1.5*math.Sin(2*math.Pi*x)
		ds.Observations = append(ds.Observations, domain.Observation{X: x, Y: y})
		ds.Rows++
	}
	return ds
}

var (
	_ ports.DatasetLoader     = fakeDatasetLoader{}
	_ ports.PriorLoader       = fakePriorLoader{}
	_ ports.ReportStore       = (*memStore)(nil)
	_ ports.PlotRenderer      = (*fakeRenderer)(nil)
	_ ports.ExpectationLoader = fakeExpectations{}
	_ ports.DatasetFetcher    = (*fakeFetcher)(nil)
)
