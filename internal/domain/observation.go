package domain

import "math"

// Observation is a single (decimal year, ppm) measurement.
type Observation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dataset is the filtered, projected content of a measurement table.
type Dataset struct {
	Name         string
	Path         string
	Observations []Observation

	// Rows counts data rows read (comments and blank lines excluded);
	// Dropped counts rows removed by filtering.
	Rows    int
	Dropped int
}

// DatasetRef points at a dataset file inside a workspace.
type DatasetRef struct {
	Name string
	Path string
}

func (d Dataset) Len() int { return len(d.Observations) }

func (d Dataset) Xs() []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.X
	}
	return out
}

func (d Dataset) Ys() []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Y
	}
	return out
}

// Bounds returns the x and y ranges. Zero values for an empty dataset.
func (d Dataset) Bounds() (xmin, xmax, ymin, ymax float64) {
	if len(d.Observations) == 0 {
		return 0, 0, 0, 0
	}
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, o := range d.Observations {
		xmin = math.Min(xmin, o.X)
		xmax = math.Max(xmax, o.X)
		ymin = math.Min(ymin, o.Y)
		ymax = math.Max(ymax, o.Y)
	}
	return xmin, xmax, ymin, ymax
}

// Summary returns the persisted description of the dataset.
func (d Dataset) Summary() DatasetSummary {
	xmin, xmax, ymin, ymax := d.Bounds()
	return DatasetSummary{
		Name:    d.Name,
		Path:    d.Path,
		Rows:    d.Rows,
		Kept:    len(d.Observations),
		Dropped: d.Dropped,
		XMin:    xmin,
		XMax:    xmax,
		YMin:    ymin,
		YMax:    ymax,
	}
}

// DatasetSummary is the dataset section of a report.
type DatasetSummary struct {
	Name    string  `json:"name"`
	Path    string  `json:"path"`
	Rows    int     `json:"rows"`
	Kept    int     `json:"kept"`
	Dropped int     `json:"dropped"`
	XMin    float64 `json:"x_min"`
	XMax    float64 `json:"x_max"`
	YMin    float64 `json:"y_min"`
	YMax    float64 `json:"y_max"`
}
