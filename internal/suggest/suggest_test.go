package suggest

import (
	"context"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/api/apitest"
	"github.com/tgienger/taskdesk/internal/debounce"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/validate"
)

type nopTokens struct{}

func (nopTokens) Get() string { return "" }
func (nopTokens) Set(string)  {}
func (nopTokens) Clear()      {}

func newPipeline(t *testing.T) (*Pipeline, *store.Store, *apitest.Backend) {
	t.Helper()
	b := apitest.New()
	client := api.New(b.Start(t))
	st := store.New(context.Background(), client, nopTokens{})
	p := New(context.Background(), st.Suggestion, client, time.Millisecond)
	p.SetLocation(time.UTC)
	return p, st, b
}

// settle fires the debounce tick produced by cmd and applies the request
func settle(t *testing.T, p *Pipeline, st *store.Store, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	fetch, handled := p.Update(cmd())
	require.True(t, handled)
	require.NotNil(t, fetch)
	require.True(t, st.Update(fetch()))
}

func TestWatchFetchesAfterQuietPeriod(t *testing.T) {
	p, st, b := newPipeline(t)
	b.Suggestion = models.Suggestion{Priority: models.PriorityHigh, Reasons: []string{"deadline"}}

	settle(t, p, st, p.Watch("t1", validate.TaskDraft{
		Title:   " Ship release ",
		Status:  models.StatusTodo,
		DueDate: "2025-01-03T17:00",
	}))

	require.NotNil(t, st.Suggestion.Preview)
	assert.Equal(t, models.PriorityHigh, st.Suggestion.Preview.Priority)
	reqs := b.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer t1", reqs[0].Auth)
	assert.JSONEq(t, `{
		"title":"Ship release",
		"tags":[],
		"status":"todo",
		"currentDueDate":"2025-01-03T17:00:00Z",
		"tzOffsetMinutes":0
	}`, reqs[0].Body)
}

func TestRapidEditsIssueOneRequest(t *testing.T) {
	p, st, b := newPipeline(t)

	var ticks []tea.Msg
	for _, title := range []string{"W", "Wr", "Wri", "Write"} {
		ticks = append(ticks, p.Watch("t1", validate.TaskDraft{Title: title})())
	}

	var fetches []tea.Cmd
	for _, tick := range ticks {
		cmd, handled := p.Update(tick)
		assert.True(t, handled)
		if cmd != nil {
			fetches = append(fetches, cmd)
		}
	}
	require.Len(t, fetches, 1)
	st.Update(fetches[0]())

	reqs := b.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Body, `"title":"Write"`)
	assert.Equal(t, debounce.Fired, p.Timer().State())
}

func TestBlankTitleClearsPreviewSynchronously(t *testing.T) {
	p, st, b := newPipeline(t)
	settle(t, p, st, p.Watch("t1", validate.TaskDraft{Title: "Something"}))
	require.NotNil(t, st.Suggestion.Preview)

	pendingTick := p.Watch("t1", validate.TaskDraft{Title: "Something else"})()
	assert.Nil(t, p.Watch("t1", validate.TaskDraft{Title: "   "}))

	assert.Nil(t, st.Suggestion.Preview)
	assert.Equal(t, store.Idle, st.Suggestion.Op.Status)
	assert.Equal(t, debounce.Canceled, p.Timer().State())

	cmd, handled := p.Update(pendingTick)
	assert.True(t, handled)
	assert.Nil(t, cmd, "cancelled tick issues nothing")
	assert.Len(t, b.Requests(), 1)
}

func TestUpdateIgnoresOtherTimers(t *testing.T) {
	p, _, _ := newPipeline(t)
	other := debounce.New(time.Millisecond)

	_, handled := p.Update(other.Start()())
	assert.False(t, handled)
	_, handled = p.Update(tea.KeyMsg{})
	assert.False(t, handled)
}

func TestSuggestionFailure(t *testing.T) {
	p, st, b := newPipeline(t)
	b.Fail(http.MethodPost, "/suggestions/task-meta", http.StatusBadGateway, "model offline")

	settle(t, p, st, p.Watch("t1", validate.TaskDraft{Title: "x"}))
	assert.Equal(t, store.Failed, st.Suggestion.Op.Status)
	assert.Equal(t, "model offline", st.Suggestion.Op.Err)
}

func TestApply(t *testing.T) {
	due := time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)
	east := time.FixedZone("UTC+2", 2*60*60)
	draft := validate.TaskDraft{Title: "t", Priority: models.PriorityLow, DueDate: "2025-01-01T09:00"}

	tests := []struct {
		name    string
		preview models.Suggestion
		loc     *time.Location
		want    validate.TaskDraft
	}{
		{
			name:    "priority only keeps due date",
			preview: models.Suggestion{Priority: models.PriorityHigh},
			loc:     time.UTC,
			want:    validate.TaskDraft{Title: "t", Priority: models.PriorityHigh, DueDate: "2025-01-01T09:00"},
		},
		{
			name:    "due date in local time",
			preview: models.Suggestion{Priority: models.PriorityMedium, SuggestedDueDate: &due},
			loc:     east,
			want:    validate.TaskDraft{Title: "t", Priority: models.PriorityMedium, DueDate: "2025-03-04T17:30"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.preview, draft, tt.loc))
		})
	}
}

func TestGenerate(t *testing.T) {
	p, _, b := newPipeline(t)
	b.GeneratedText = "Steps:\n- draft"

	assert.Nil(t, p.Generate("t1", "  ", ""))
	assert.Equal(t, NoTitleMessage, p.GenErr)
	assert.Empty(t, b.Requests())

	cmd := p.Generate("t1", "Write report", "")
	require.NotNil(t, cmd)
	assert.True(t, p.Generating)
	assert.Empty(t, p.GenErr)

	msg := cmd()
	_, handled := p.Update(msg)
	assert.True(t, handled)
	assert.False(t, p.Generating)
	assert.Equal(t, "Steps:\n- draft", msg.(GeneratedMsg).Text)
}

func TestGenerateFailure(t *testing.T) {
	p, _, b := newPipeline(t)
	b.Fail(http.MethodPost, "/ai/generate", http.StatusServiceUnavailable, `{"error":"AI unavailable"}`)

	p.Update(p.Generate("t1", "Write report", "")())
	assert.Equal(t, "AI unavailable", p.GenErr)
	assert.False(t, p.Generating)
}

func TestAppendGenerated(t *testing.T) {
	assert.Equal(t, "new", AppendGenerated("", "new"))
	assert.Equal(t, "new", AppendGenerated("  \n", "new"))
	assert.Equal(t, "old\n\nnew", AppendGenerated("old", "new"))
}
