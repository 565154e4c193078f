package domain

// Config represents the co2fit configuration loaded from co2fit.yaml.
type Config struct {
	Data    DataConfig
	Model   ModelConfig
	Sampler SamplerSettings
	Plots   PlotsConfig
	Paths   PathsConfig
}

type DataConfig struct {
	// Default is the dataset file name (under Paths.DataDir) used when --data is omitted.
	Default string
	URL     string
	XColumn int
	YColumn int
}

type ModelConfig struct {
	Priors     string // prior profile name under Paths.PriorsDir
	CenterYear float64
	NoiseSD    float64
}

type PlotsConfig struct {
	Enabled bool
	Width   float64 // inches
	Height  float64 // inches
	Pattern string  // file name template, e.g. "{{kind}}_{{param}}.png"
	Curves  int     // number of sampled prior curves drawn on the prior fit plot
}

type PathsConfig struct {
	DataDir         string
	PriorsDir       string
	ReportsDir      string
	ExpectationsDir string
}

// NOAA weekly Mauna Loa file.
const DefaultDatasetURL = "https://gml.noaa.gov/webdata/ccgg/trends/co2/co2_weekly_mlo.txt"

// DefaultConfig provides sane defaults if co2fit.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Default: "co2_weekly_mlo.txt",
			URL:     DefaultDatasetURL,
			XColumn: 3,
			YColumn: 4,
		},
		Model: ModelConfig{
			Priors:     "default",
			CenterYear: 1974,
			NoiseSD:    2.0,
		},
		Sampler: SamplerSettings{
			Draws:  1000,
			Warmup: 1000,
			Chains: 4,
			Thin:   1,
			Seed:   42,
		},
		Plots: PlotsConfig{
			Enabled: true,
			Width:   6,
			Height:  4,
			Pattern: "{{kind}}_{{param}}.png",
			Curves:  50,
		},
		Paths: PathsConfig{
			DataDir:         "data",
			PriorsDir:       "priors",
			ReportsDir:      "reports",
			ExpectationsDir: "expectations",
		},
	}
}
