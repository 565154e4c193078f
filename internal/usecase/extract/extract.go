// Package extract runs named JSONPath queries against a report document.
package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// Query evaluates every query in spec against body. A failing query is
// reported in its result; the others still run. Results are sorted by name.
func Query(body []byte, spec domain.QuerySpec) []domain.QueryResult {
	if len(spec) == 0 {
		return []domain.QueryResult{}
	}

	names := make([]string, 0, len(spec))
	for k := range spec {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]domain.QueryResult, 0, len(names))

	doc, err := parseJSON(body)
	if err != nil {
		for _, name := range names {
			out = append(out, domain.QueryResult{
				Name:    name,
				Message: fmt.Sprintf("query %q: report is not valid JSON", name),
			})
		}
		return out
	}

	for _, name := range names {
		out = append(out, one(doc, name, strings.TrimSpace(spec[name])))
	}
	return out
}

// Parse turns "name=$.path" or a bare "$.path" argument into a query
// spec entry. A bare expression is its own name.
func Parse(args []string) (domain.QuerySpec, error) {
	spec := domain.QuerySpec{}
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		name, expr, ok := strings.Cut(arg, "=")
		if !ok || strings.HasPrefix(arg, "$") {
			name, expr = arg, arg
		}
		name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)
		if !strings.HasPrefix(expr, "$") {
			return nil, fmt.Errorf("query %q: expression must start with $: %w", arg, domain.ErrInvalidConfig)
		}
		spec[name] = expr
	}
	return spec, nil
}

func one(doc any, name, expr string) domain.QueryResult {
	if expr == "" {
		return domain.QueryResult{
			Name:    name,
			Message: fmt.Sprintf("query %q: empty jsonpath expression", name),
		}
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return domain.QueryResult{
			Name:    name,
			Message: fmt.Sprintf("query %q (%s): jsonpath error: %v", name, expr, err),
		}
	}
	if isEmptyValue(val) {
		return domain.QueryResult{
			Name:    name,
			Message: fmt.Sprintf("query %q (%s): no value found", name, expr),
		}
	}

	s, err := toString(val)
	if err != nil {
		return domain.QueryResult{
			Name:    name,
			Message: fmt.Sprintf("query %q (%s): cannot convert value to string: %v", name, expr, err),
		}
	}
	return domain.QueryResult{Name: name, Value: s, Success: true}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// Filters and wildcards return arrays; unwrap single matches.
	if arr, ok := v.([]any); ok {
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
