package tui

import "github.com/squisty/bayesian-CO2/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type reportsLoadedMsg struct {
	root string
	refs []domain.ReportRef
	err  error
}

type reportLoadedMsg struct {
	id     string
	report domain.Report
	err    error
}
