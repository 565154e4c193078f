// Package template fills {{name}} placeholders in short strings such as
// plot file name patterns.
package template

import (
	"fmt"
	"strings"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	err := walk(input, func(lit, key string) error {
		out.WriteString(lit)
		if key == "" {
			return nil
		}
		value, ok := vars[key]
		if !ok {
			return invalid(fmt.Errorf("missing variable %q", key))
		}
		out.WriteString(value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Placeholders lists the variable names referenced by input, in order.
func Placeholders(input string) ([]string, error) {
	var keys []string
	err := walk(input, func(_, key string) error {
		if key != "" {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

// walk calls fn with each literal run and the placeholder that follows it;
// the last call has an empty key.
func walk(input string, fn func(lit, key string) error) error {
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			return fn(rest, "")
		}
		lit := rest[:start]
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return invalid(fmt.Errorf("unclosed template expression"))
		}
		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return invalid(fmt.Errorf("empty template expression"))
		}
		if err := fn(lit, key); err != nil {
			return err
		}
		rest = rest[end+2:]
	}
}

func invalid(err error) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%v: %w", err, domain.ErrInvalidConfig),
	}
}
