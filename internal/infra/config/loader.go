package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

// LoadExpectations reads an expectation file used by `co2fit check`.
func LoadExpectations(path string) (domain.ExpectationSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ExpectationSet{}, &domain.OpError{
			Op:   "config.load_expectations",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLExpectations
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.ExpectationSet{}, &domain.OpError{
			Op:   "config.load_expectations",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapExpectations(path, dto)
}

// Loader resolves expectation names under Dir and loads them.
type Loader struct {
	Dir string
}

var _ ports.ExpectationLoader = Loader{}

// LoadExpectations accepts a path or a bare name such as "mauna-loa",
// which is looked up as <Dir>/<name>.yaml.
func (l Loader) LoadExpectations(nameOrPath string) (domain.ExpectationSet, error) {
	path := nameOrPath
	if !strings.ContainsAny(nameOrPath, `/\`) && filepath.Ext(nameOrPath) == "" {
		path = filepath.Join(l.Dir, nameOrPath+".yaml")
	}
	return LoadExpectations(path)
}
