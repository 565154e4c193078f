package domain

// Approx passes when |got - Value| <= Rel * |Value|.
type Approx struct {
	Value float64
	Rel   float64
}

// Expectation defines JSONPath-based checks on one report value.
// Every non-nil field adds one check.
type Expectation struct {
	Exists   bool
	Eq       *string
	Contains *string
	Matches  *string
	Gt       *float64
	Lt       *float64
	Approx   *Approx
}

// ExpectationSet is a named set of checks keyed by JSONPath expression.
type ExpectationSet struct {
	Name   string
	Checks map[string]Expectation
}

// QuerySpec maps a display name to a JSONPath expression.
type QuerySpec map[string]string

// QueryResult is the outcome of one named query.
type QueryResult struct {
	Name    string
	Value   string
	Success bool
	Message string
}
