package yamlpriors

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
	"gopkg.in/yaml.v3"
)

// Loader reads prior profiles from <root>/<priorsDir>/<name>.yaml.
type Loader struct {
	rootDir   string
	priorsDir string
}

type Option func(*Loader)

func WithPriorsDir(dir string) Option {
	return func(l *Loader) { l.priorsDir = dir }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:   root,
		priorsDir: "priors",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	_ ports.PriorLoader  = (*Loader)(nil)
	_ ports.PriorCatalog = (*Loader)(nil)
)

// LoadPriors accepts either a profile name (e.g., "default") or a path to a YAML file.
// The "default" profile falls back to domain.DefaultPriors when no file exists.
func (l *Loader) LoadPriors(nameOrPath string) (domain.PriorSet, error) {
	var path, name string

	if isPathLike(nameOrPath) {
		path = filepath.Clean(nameOrPath)
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	} else {
		name = strings.TrimSpace(nameOrPath)
		if name == "" {
			name = "default"
		}
		path = filepath.Join(l.rootDir, l.priorsDir, name+".yaml")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && name == "default" && !isPathLike(nameOrPath) {
			return domain.DefaultPriors(), nil
		}
		return domain.PriorSet{}, &domain.OpError{
			Op:   "yamlpriors.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlPriors
	if err := yaml.Unmarshal(b, &y); err != nil {
		return domain.PriorSet{}, &domain.OpError{
			Op:   "yamlpriors.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, name, y)
}

func (l *Loader) ListPriors(root string) ([]domain.PriorRef, error) {
	dir := filepath.Join(root, l.priorsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlpriors.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.PriorRef
	for _, e := range entries {
		if e.IsDir() || !hasYAMLExt(e.Name()) {
			continue
		}
		refs = append(refs, domain.PriorRef{
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

type yamlPriors struct {
	Name string      `yaml:"name"`
	A    *yamlNormal `yaml:"a"`
	B    *yamlNormal `yaml:"b"`
	C    *yamlNormal `yaml:"c"`
}

type yamlNormal struct {
	Mu    *float64 `yaml:"mu"`
	Sigma *float64 `yaml:"sigma"`
}

func mapAndValidate(path, fallbackName string, y yamlPriors) (domain.PriorSet, error) {
	ps := domain.PriorSet{Name: strings.TrimSpace(y.Name)}
	if ps.Name == "" {
		ps.Name = fallbackName
	}

	fields := []struct {
		name string
		in   *yamlNormal
		out  *domain.NormalPrior
	}{
		{"a", y.A, &ps.A},
		{"b", y.B, &ps.B},
		{"c", y.C, &ps.C},
	}
	for _, f := range fields {
		if f.in == nil {
			return domain.PriorSet{}, invalidField(path, f.name, "prior is required")
		}
		if f.in.Mu == nil {
			return domain.PriorSet{}, invalidField(path, f.name+".mu", "mu is required")
		}
		if f.in.Sigma == nil {
			return domain.PriorSet{}, invalidField(path, f.name+".sigma", "sigma is required")
		}
		*f.out = domain.NormalPrior{Mu: *f.in.Mu, Sigma: *f.in.Sigma}
	}

	if err := ps.Validate(); err != nil {
		return domain.PriorSet{}, &domain.OpError{
			Op:   "yamlpriors.validate",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return ps, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlpriors.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

func isPathLike(s string) bool {
	return hasYAMLExt(s) || strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}
