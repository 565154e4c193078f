// Package assert evaluates JSONPath expectations against a report document.
package assert

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// Evaluate applies every expectation in set to doc, a JSON report. Results
// are ordered by expression, then by check kind.
func Evaluate(set domain.ExpectationSet, body []byte) []domain.CheckResult {
	exprs := make([]string, 0, len(set.Checks))
	for expr := range set.Checks {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	doc, err := parseJSON(body)
	if err != nil {
		var out []domain.CheckResult
		for _, expr := range exprs {
			out = append(out, checks(expr, set.Checks[expr], nil,
				fmt.Errorf("report is not valid JSON"))...)
		}
		return out
	}

	var out []domain.CheckResult
	for _, expr := range exprs {
		val, getErr := jsonpath.Get(expr, doc)
		out = append(out, checks(expr, set.Checks[expr], val, getErr)...)
	}
	return out
}

// Failed counts results that did not pass.
func Failed(results []domain.CheckResult) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

func checks(expr string, e domain.Expectation, val any, getErr error) []domain.CheckResult {
	var out []domain.CheckResult
	if e.Exists {
		out = append(out, checkExists(expr, val, getErr))
	}
	if e.Eq != nil {
		out = append(out, checkEq(expr, val, getErr, *e.Eq))
	}
	if e.Contains != nil {
		out = append(out, checkContains(expr, val, getErr, *e.Contains))
	}
	if e.Matches != nil {
		out = append(out, checkMatches(expr, val, getErr, *e.Matches))
	}
	if e.Gt != nil {
		out = append(out, checkGt(expr, val, getErr, *e.Gt))
	}
	if e.Lt != nil {
		out = append(out, checkLt(expr, val, getErr, *e.Lt))
	}
	if e.Approx != nil {
		out = append(out, checkApprox(expr, val, getErr, *e.Approx))
	}
	return out
}

func fail(name, format string, args ...any) domain.CheckResult {
	return domain.CheckResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

func pass(name, format string, args ...any) domain.CheckResult {
	return domain.CheckResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func checkExists(expr string, val any, getErr error) domain.CheckResult {
	const name = "jsonpath.exists"
	if getErr != nil {
		return fail(name, "invalid jsonpath %q: %v", expr, getErr)
	}
	if isEmptyJSONPathValue(val) {
		return fail(name, "jsonpath %q: expected value to exist, got empty", expr)
	}
	return pass(name, "jsonpath %q exists", expr)
}

func checkEq(expr string, val any, getErr error, expected string) domain.CheckResult {
	const name = "jsonpath.eq"
	s, err := stringValue(val, getErr)
	if err != nil {
		return fail(name, "jsonpath %q: %v", expr, err)
	}
	if s == expected {
		return pass(name, "jsonpath %q eq %q", expr, expected)
	}
	return fail(name, "jsonpath %q: expected %q, got %q", expr, expected, s)
}

func checkContains(expr string, val any, getErr error, sub string) domain.CheckResult {
	const name = "jsonpath.contains"
	s, err := stringValue(val, getErr)
	if err != nil {
		return fail(name, "jsonpath %q: %v", expr, err)
	}
	if strings.Contains(s, sub) {
		return pass(name, "jsonpath %q contains %q", expr, sub)
	}
	return fail(name, "jsonpath %q: %q does not contain %q", expr, s, sub)
}

func checkMatches(expr string, val any, getErr error, pattern string) domain.CheckResult {
	const name = "jsonpath.matches"
	s, err := stringValue(val, getErr)
	if err != nil {
		return fail(name, "jsonpath %q: %v", expr, err)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fail(name, "jsonpath %q: invalid regex %q: %v", expr, pattern, err)
	}
	if re.MatchString(s) {
		return pass(name, "jsonpath %q matches %q", expr, pattern)
	}
	return fail(name, "jsonpath %q: %q does not match %q", expr, s, pattern)
}

func checkGt(expr string, val any, getErr error, threshold float64) domain.CheckResult {
	const name = "jsonpath.gt"
	f, err := floatValue(val, getErr)
	if err != nil {
		return fail(name, "jsonpath %q: %v", expr, err)
	}
	if f > threshold {
		return pass(name, "jsonpath %q: %v > %v", expr, f, threshold)
	}
	return fail(name, "jsonpath %q: expected > %v, got %v", expr, threshold, f)
}

func checkLt(expr string, val any, getErr error, threshold float64) domain.CheckResult {
	const name = "jsonpath.lt"
	f, err := floatValue(val, getErr)
	if err != nil {
		return fail(name, "jsonpath %q: %v", expr, err)
	}
	if f < threshold {
		return pass(name, "jsonpath %q: %v < %v", expr, f, threshold)
	}
	return fail(name, "jsonpath %q: expected < %v, got %v", expr, threshold, f)
}

func checkApprox(expr string, val any, getErr error, a domain.Approx) domain.CheckResult {
	const name = "jsonpath.approx"
	f, err := floatValue(val, getErr)
	if err != nil {
		return fail(name, "jsonpath %q: %v", expr, err)
	}
	tol := a.Rel * math.Abs(a.Value)
	if math.Abs(f-a.Value) <= tol {
		return pass(name, "jsonpath %q: %v within %g%% of %v", expr, f, a.Rel*100, a.Value)
	}
	return fail(name, "jsonpath %q: expected %v ± %g%%, got %v", expr, a.Value, a.Rel*100, f)
}

func stringValue(val any, getErr error) (string, error) {
	if getErr != nil {
		return "", getErr
	}
	return jsonPathToString(val)
}

func floatValue(val any, getErr error) (float64, error) {
	if getErr != nil {
		return 0, getErr
	}
	return jsonPathToFloat64(val)
}

func jsonPathToString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

func jsonPathToFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case []any:
		if len(v) == 1 {
			return jsonPathToFloat64(v[0])
		}
		return 0, fmt.Errorf("expected a single value, got %d", len(v))
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyJSONPathValue(v any) bool {
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
