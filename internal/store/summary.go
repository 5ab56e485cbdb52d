package store

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/models"
)

// SummarySlice holds the dashboard rollup
type SummarySlice struct {
	ctx context.Context
	api API

	Data *models.Summary
	Op   Op
}

// SummaryMsg is the result of Load
type SummaryMsg struct {
	Summary models.Summary
	Err     error
}

func (s *SummarySlice) Load(token string) tea.Cmd {
	s.Op.start()
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		sum, err := client.Summary(ctx, token)
		return SummaryMsg{Summary: sum, Err: err}
	}
}

func (s *SummarySlice) apply(msg tea.Msg) bool {
	m, ok := msg.(SummaryMsg)
	if !ok {
		return false
	}
	if m.Err != nil {
		s.Op.fail(m.Err)
		return true
	}
	sum := m.Summary
	s.Data = &sum
	s.Op.succeed()
	return true
}
