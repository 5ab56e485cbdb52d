package store

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/models"
)

// SuggestionSlice holds the metadata preview for the task being edited.
// Responses are applied in arrival order, so an older request that
// completes late replaces a newer preview.
type SuggestionSlice struct {
	ctx context.Context
	api API

	Preview *models.Suggestion
	Op      Op
}

// SuggestionMsg is the result of Fetch
type SuggestionMsg struct {
	Request    models.SuggestionRequest
	Suggestion models.Suggestion
	Err        error
}

// Fetch requests a preview for req
func (s *SuggestionSlice) Fetch(token string, req models.SuggestionRequest) tea.Cmd {
	s.Op.start()
	ctx, client := s.ctx, s.api
	return func() tea.Msg {
		sg, err := client.Suggest(ctx, token, req)
		return SuggestionMsg{Request: req, Suggestion: sg, Err: err}
	}
}

// Clear drops the preview and resets the op
func (s *SuggestionSlice) Clear() {
	s.Preview = nil
	s.Op = Op{}
}

func (s *SuggestionSlice) apply(msg tea.Msg) bool {
	m, ok := msg.(SuggestionMsg)
	if !ok {
		return false
	}
	if m.Err != nil {
		s.Op.fail(m.Err)
		return true
	}
	sg := m.Suggestion
	s.Preview = &sg
	s.Op.succeed()
	return true
}
