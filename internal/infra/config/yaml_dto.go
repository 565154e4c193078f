package config

type YAMLExpectations struct {
	Name   string                     `yaml:"name"`
	Checks map[string]YAMLExpectation `yaml:"checks"`
}

type YAMLExpectation struct {
	Exists   bool        `yaml:"exists"`
	Eq       *string     `yaml:"eq"`
	Contains *string     `yaml:"contains"`
	Matches  *string     `yaml:"matches"`
	Gt       *float64    `yaml:"gt"`
	Lt       *float64    `yaml:"lt"`
	Approx   *YAMLApprox `yaml:"approx"`
}

type YAMLApprox struct {
	Value *float64 `yaml:"value"`
	Rel   *float64 `yaml:"rel"`
}
