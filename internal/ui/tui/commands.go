package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdLoadReports(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.Reports == nil {
			return reportsLoadedMsg{root: root, err: errors.New("Reports is nil")}
		}
		store, err := deps.Reports(root)
		if err != nil {
			return reportsLoadedMsg{root: root, err: err}
		}
		refs, err := store.ListReports()
		return reportsLoadedMsg{root: root, refs: refs, err: err}
	}
}

func cmdLoadReport(deps Deps, root, id string) tea.Cmd {
	return func() tea.Msg {
		if deps.Reports == nil {
			return reportLoadedMsg{id: id, err: errors.New("Reports is nil")}
		}
		store, err := deps.Reports(root)
		if err != nil {
			return reportLoadedMsg{id: id, err: err}
		}
		r, _, err := store.LoadReport(id)
		return reportLoadedMsg{id: id, report: r, err: err}
	}
}
