package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/squisty/bayesian-CO2/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenReport
)

type reportItem struct {
	ref domain.ReportRef
}

func (r reportItem) Title() string {
	t := r.ref.Title
	if t == "" {
		t = r.ref.ID
	}
	if r.ref.Failed > 0 {
		return fmt.Sprintf("%s  (%d failed)", t, r.ref.Failed)
	}
	return t
}

func (r reportItem) Description() string {
	return fmt.Sprintf("%s • %s • priors %s",
		r.ref.StartedAt.Local().Format(time.DateTime), r.ref.Dataset, r.ref.Priors)
}

func (r reportItem) FilterValue() string { return r.ref.ID + " " + r.ref.Title }

type model struct {
	theme Theme
	deps  Deps

	scr  screen
	list list.Model

	workspaceFound bool
	workspaceRoot  string

	loading bool
	report  domain.Report
	toast   string

	width int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Reports"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := model{
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenHome,
		list:  l,
	}
	if deps.Root != "" {
		m.workspaceFound = true
		m.workspaceRoot = deps.Root
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.workspaceFound {
		return cmdLoadReports(m.deps, m.workspaceRoot)
	}
	return cmdRefreshWorkspace(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if !msg.found {
			return m, nil
		}
		m.loading = true
		return m, cmdLoadReports(m.deps, msg.root)

	case reportsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, ref := range msg.refs {
			items = append(items, reportItem{ref: ref})
		}
		return m, m.list.SetItems(items)

	case reportLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.report = msg.report
		m.scr = screenReport
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m.scr = screenHome
			return m, nil

		case "esc", "b":
			if m.scr != screenHome {
				m.scr = screenHome
				return m, nil
			}

		case "r":
			if m.scr == screenHome && m.workspaceFound {
				m.toast = ""
				m.loading = true
				return m, cmdLoadReports(m.deps, m.workspaceRoot)
			}

		case "enter":
			if m.scr == screenHome {
				it, ok := m.list.SelectedItem().(reportItem)
				if !ok {
					return m, nil
				}
				m.toast = ""
				m.loading = true
				return m, cmdLoadReport(m.deps, m.workspaceRoot, it.ref.ID)
			}
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("co2fit") + "\n" +
		m.theme.Subtitle.Render("Bayesian quadratic fit of atmospheric CO2: saved reports") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		banner = m.theme.Card.Render("⚠ No workspace found.\n\nRun `co2fit init` and `co2fit fit` first.")
	}

	var footer []string
	if m.loading {
		footer = append(footer, m.theme.Help.Render("loading…"))
	}
	if m.toast != "" {
		footer = append(footer, m.theme.Toast.Render(m.toast))
	}
	status := strings.Join(footer, "\n")

	switch m.scr {
	case screenHome:
		body := m.list.View()
		if len(m.list.Items()) == 0 && m.workspaceFound && !m.loading {
			body = "No reports yet. Run `co2fit fit`."
		}
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • r reload • q quit")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(body) + "\n" + help + "\n" + status)

	case screenReport:
		card := m.theme.Card.Render(renderReportCard(m.theme, m.report))
		help := m.theme.Help.Render("esc/b back • q home")
		return wrap.Render(header + "\n" + banner + "\n\n" + card + "\n" + help + "\n" + status)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
