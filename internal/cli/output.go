package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printReport(w io.Writer, r domain.Report, format string) error {
	switch format {
	case "json":
		return writeJSON(w, r)
	case "pretty", "":
		printPrettyReport(w, r)
		return nil
	default:
		return checkFormat(format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPrettyReport(w io.Writer, r domain.Report) {
	total := r.EndedAt.Sub(r.StartedAt)
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		total = 0
	}

	if r.Title != "" {
		fmt.Fprintf(w, "Title:      %s\n", r.Title)
	}
	fmt.Fprintf(w, "Dataset:    %s (%d kept, %d dropped, %.2f-%.2f)\n",
		r.Dataset.Name, r.Dataset.Kept, r.Dataset.Dropped, r.Dataset.XMin, r.Dataset.XMax)
	fmt.Fprintf(w, "Priors:     %s\n", r.Model.Priors.Name)
	fmt.Fprintf(w, "Model:      y ~ N(a*(x-%g) + b + c*(x-%g)^2, %g)\n",
		r.Model.CenterYear, r.Model.CenterYear, r.Model.NoiseSD)
	fmt.Fprintf(w, "Sampler:    %d chains x %d draws (warmup %d, thin %d, seed %d)\n",
		r.Sampler.Chains, r.Sampler.Draws, r.Sampler.Warmup, r.Sampler.Thin, r.Sampler.Seed)
	if !r.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started:    %s\n", r.StartedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Duration:   %s\n", total.Round(time.Millisecond))
	if r.ID != "" {
		fmt.Fprintf(w, "Report ID:  %s\n", r.ID)
	}
	fmt.Fprintln(w)

	printPhase(w, "Prior", r.Prior.Params)
	printPhase(w, "Posterior", r.Posterior.Params)
	if len(r.Conjugate) > 0 {
		printPhase(w, "Exact posterior", r.Conjugate)
	}

	fmt.Fprintf(w, "Mean curve MSE: prior %.4g, posterior %.4g\n", r.Prior.MeanMSE, r.Posterior.MeanMSE)

	d := r.Posterior.Diagnostics
	fmt.Fprintf(w, "Acceptance:     %s\n", formatRates(d.Acceptance))
	for _, p := range domain.Params {
		fmt.Fprintf(w, "  %s  rhat %.3f  ess %.0f\n", p, d.RHat[p], d.ESS[p])
	}
	fmt.Fprintln(w)

	printChecks(w, "checks", r.Checks)

	if len(r.Plots) > 0 {
		fmt.Fprintf(w, "plots:\n")
		for _, p := range r.Plots {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if len(r.Draws) > 0 {
		fmt.Fprintf(w, "draws:\n")
		for _, p := range r.Draws {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
}

func printPhase(w io.Writer, title string, params map[domain.Param]domain.ParamSummary) {
	fmt.Fprintf(w, "%s (90%% interval)\n", title)
	fmt.Fprintf(w, "  %-3s %12s %12s %12s %12s %9s\n", "", "mean", "median", "lo", "hi", "rel.width")
	for _, p := range domain.Params {
		s, ok := params[p]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-3s %12.5g %12.5g %12.5g %12.5g %8.2f%%\n",
			p, s.Mean, s.Median, s.Lo, s.Hi, 100*s.RelWidth)
	}
	fmt.Fprintln(w)
}

func printChecks(w io.Writer, label string, checks []domain.CheckResult) {
	pass, fail := countPassFail(checks)
	fmt.Fprintf(w, "%s: %d pass / %d fail\n", label, pass, fail)
	for _, c := range checks {
		mark := "✓"
		if !c.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %s: %s\n", mark, c.Name, c.Message)
	}
	fmt.Fprintln(w)
}

func countPassFail(in []domain.CheckResult) (pass int, fail int) {
	for _, c := range in {
		if c.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

func formatRates(rates []float64) string {
	if len(rates) == 0 {
		return "-"
	}
	s := ""
	for i, r := range rates {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%.2f", r)
	}
	return s
}
