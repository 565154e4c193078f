package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func MapExpectations(path string, y YAMLExpectations) (domain.ExpectationSet, error) {
	name := strings.TrimSpace(y.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(y.Checks) == 0 {
		return domain.ExpectationSet{}, invalidField(path, "checks", "at least one check is required")
	}

	set := domain.ExpectationSet{
		Name:   name,
		Checks: make(map[string]domain.Expectation, len(y.Checks)),
	}

	exprs := make([]string, 0, len(y.Checks))
	for expr := range y.Checks {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	for _, expr := range exprs {
		field := fmt.Sprintf("checks[%s]", expr)
		if !strings.HasPrefix(strings.TrimSpace(expr), "$") {
			return domain.ExpectationSet{}, invalidField(path, field, "jsonpath must start with $")
		}

		in := y.Checks[expr]
		e := domain.Expectation{
			Exists:   in.Exists,
			Eq:       in.Eq,
			Contains: in.Contains,
			Matches:  in.Matches,
			Gt:       in.Gt,
			Lt:       in.Lt,
		}
		if in.Approx != nil {
			if in.Approx.Value == nil {
				return domain.ExpectationSet{}, invalidField(path, field+".approx.value", "value is required")
			}
			rel := 0.01
			if in.Approx.Rel != nil {
				rel = *in.Approx.Rel
			}
			if rel < 0 {
				return domain.ExpectationSet{}, invalidField(path, field+".approx.rel", "rel must be >= 0")
			}
			e.Approx = &domain.Approx{Value: *in.Approx.Value, Rel: rel}
		}

		if !hasAnyCheck(e) {
			return domain.ExpectationSet{}, invalidField(path, field, "no checks defined")
		}
		set.Checks[strings.TrimSpace(expr)] = e
	}

	return set, nil
}

func hasAnyCheck(e domain.Expectation) bool {
	return e.Exists || e.Eq != nil || e.Contains != nil || e.Matches != nil ||
		e.Gt != nil || e.Lt != nil || e.Approx != nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
