package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderReportCard(t Theme, r domain.Report) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = r.ID
	}
	b.WriteString(t.Title.Render(clampString(title, 60)))
	b.WriteString("\n")
	b.WriteString(t.Subtitle.Render(fmt.Sprintf("%s • %s", r.ID, r.StartedAt.Local().Format(time.DateTime))))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Dataset: %s (%d kept, %d dropped)\n", r.Dataset.Name, r.Dataset.Kept, r.Dataset.Dropped))
	b.WriteString(fmt.Sprintf("Priors:  %s   noise %g ppm   center %g\n", r.Model.Priors.Name, r.Model.NoiseSD, r.Model.CenterYear))
	b.WriteString(fmt.Sprintf("Sampler: %d chains x %d draws (warmup %d, seed %d)\n\n",
		r.Sampler.Chains, r.Sampler.Draws, r.Sampler.Warmup, r.Sampler.Seed))

	b.WriteString(renderParams(r))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Mean curve MSE: prior %.4g → posterior %.4g\n\n", r.Prior.MeanMSE, r.Posterior.MeanMSE))

	pass, fail := 0, 0
	for _, c := range r.Checks {
		if c.Passed {
			pass++
		} else {
			fail++
		}
	}
	b.WriteString(fmt.Sprintf("Checks: %d pass / %d fail\n", pass, fail))
	for _, c := range r.Checks {
		mark := t.Pass.Render("PASS")
		if !c.Passed {
			mark = t.Fail.Render("FAIL")
		}
		b.WriteString("  ")
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(c.Name)
		if !c.Passed {
			b.WriteString(": ")
			b.WriteString(clampString(c.Message, 80))
		}
		b.WriteString("\n")
	}

	if len(r.Plots) > 0 {
		b.WriteString(fmt.Sprintf("\nPlots: %s\n", strings.Join(r.Plots, ", ")))
	}
	return b.String()
}

// renderParams lays out prior and posterior summaries side by side.
func renderParams(r domain.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-3s %-30s %-30s %6s\n", "", "prior [lo, hi]", "posterior [lo, hi]", "rhat"))
	for _, p := range domain.Params {
		pr, po := r.Prior.Params[p], r.Posterior.Params[p]
		b.WriteString(fmt.Sprintf("%-3s %-30s %-30s %6.3f\n",
			p,
			fmt.Sprintf("%.4g [%.4g, %.4g]", pr.Mean, pr.Lo, pr.Hi),
			fmt.Sprintf("%.4g [%.4g, %.4g]", po.Mean, po.Lo, po.Hi),
			r.Posterior.Diagnostics.RHat[p],
		))
	}
	return b.String()
}
