package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/squisty/bayesian-CO2/internal/infra/logger"
)

const crashToast = "Unexpected error (see logs)"

// safeModel recovers panics in Update and View so a broken report does not
// leave the terminal in the alternate screen.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = logger.Discard()
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd { return s.m.Init() }

func (s safeModel) logPanic(where string, r any) {
	s.log.Error("panic.recovered",
		"where", where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("tui.update", r)
			s.m.scr = screenHome
			s.m.loading = false
			s.m.toast = crashToast
			tm, cmd = s, nil
		}
	}()

	switch inner, c := s.m.Update(msg); v := inner.(type) {
	case model:
		s.m = v
		return s, c
	case safeModel:
		return v, c
	default:
		return s, c
	}
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("tui.view", r)
			out = crashToast
		}
	}()
	return s.m.View()
}

var _ tea.Model = safeModel{}
