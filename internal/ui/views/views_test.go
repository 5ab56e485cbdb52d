package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/api/apitest"
	"github.com/tgienger/taskdesk/internal/listctl"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/suggest"
)

type memTokens struct{ token string }

func (m *memTokens) Get() string      { return m.token }
func (m *memTokens) Set(token string) { m.token = token }
func (m *memTokens) Clear()           { m.token = "" }

func newDeps(t *testing.T) (*Deps, *apitest.Backend) {
	t.Helper()
	b := apitest.New()
	client := api.New(b.Start(t))
	ctx := context.Background()
	st := store.New(ctx, client, &memTokens{})
	return &Deps{
		Ctx:       ctx,
		Store:     st,
		List:      listctl.New(st.Tasks, 0, 0),
		Suggest:   suggest.New(ctx, st.Suggestion, client, suggest.DefaultDelay),
		Exporter:  client,
		ExportDir: t.TempDir(),
		Location:  time.UTC,
	}, b
}

// drain runs cmd, including batched commands, and feeds every result to the store
func drain(t *testing.T, deps *Deps, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, deps, c)
		}
	default:
		deps.Store.Update(msg)
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
