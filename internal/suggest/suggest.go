// Package suggest drives metadata suggestions and AI descriptions for the
// task form.
package suggest

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/debounce"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/validate"
)

// DefaultDelay is the quiet period before a suggestion is requested
const DefaultDelay = 450 * time.Millisecond

// NoTitleMessage is reported when generation is asked for without a title
const NoTitleMessage = "Enter a title first."

// Generator drafts descriptions
type Generator interface {
	GenerateDescription(ctx context.Context, token, title, hint string) (string, error)
}

// GeneratedMsg carries a drafted description
type GeneratedMsg struct {
	Text string
	Err  error
}

// Pipeline turns form edits into at most one suggestion request per quiet
// period. Requests already sent are never cancelled.
type Pipeline struct {
	ctx   context.Context
	slice *store.SuggestionSlice
	gen   Generator
	timer *debounce.Timer
	loc   *time.Location
	now   func() time.Time

	token   string
	pending models.SuggestionRequest

	Generating bool
	GenErr     string
}

// New builds a pipeline feeding slice. delay <= 0 uses DefaultDelay.
func New(ctx context.Context, slice *store.SuggestionSlice, gen Generator, delay time.Duration) *Pipeline {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Pipeline{
		ctx:   ctx,
		slice: slice,
		gen:   gen,
		timer: debounce.New(delay),
		loc:   time.Local,
		now:   time.Now,
	}
}

// SetLocation sets the zone the form's due date is typed in
func (p *Pipeline) SetLocation(loc *time.Location) {
	p.loc = loc
}

// Timer exposes the debounce state
func (p *Pipeline) Timer() *debounce.Timer { return p.timer }

// Watch reacts to a form edit. A blank title clears the preview at once;
// anything else restarts the quiet period.
func (p *Pipeline) Watch(token string, d validate.TaskDraft) tea.Cmd {
	if strings.TrimSpace(d.Title) == "" {
		p.timer.Cancel()
		p.slice.Clear()
		return nil
	}
	p.token = token
	p.pending = p.request(d)
	return p.timer.Start()
}

// Stop cancels any scheduled request, e.g. when the form closes
func (p *Pipeline) Stop() {
	p.timer.Cancel()
}

func (p *Pipeline) request(d validate.TaskDraft) models.SuggestionRequest {
	req := models.SuggestionRequest{
		Title:           strings.TrimSpace(d.Title),
		Description:     d.Description,
		Tags:            []string{},
		Status:          d.Status,
		TzOffsetMinutes: api.TZOffsetMinutes(p.now().In(p.loc)),
	}
	if d.DueDate != "" {
		if due, err := time.ParseInLocation(validate.DueDateLayout, d.DueDate, p.loc); err == nil {
			utc := due.UTC()
			req.CurrentDueDate = &utc
		}
	}
	return req
}

// Update handles the pipeline's own messages and reports whether msg was one
func (p *Pipeline) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case debounce.FiredMsg:
		if msg.ID != p.timer.ID() {
			return nil, false
		}
		if !p.timer.Fire(msg) {
			return nil, true
		}
		return p.slice.Fetch(p.token, p.pending), true

	case GeneratedMsg:
		p.Generating = false
		if msg.Err != nil {
			p.GenErr = api.Message(msg.Err)
		}
		return nil, true
	}
	return nil, false
}

// Apply copies a preview onto the draft. The due date is only touched
// when the preview suggests one.
func (p *Pipeline) Apply(preview models.Suggestion, d validate.TaskDraft) validate.TaskDraft {
	return Apply(preview, d, p.loc)
}

// Apply copies preview's priority, and its due date if any, onto d
func Apply(preview models.Suggestion, d validate.TaskDraft, loc *time.Location) validate.TaskDraft {
	if preview.Priority.Valid() {
		d.Priority = preview.Priority
	}
	if preview.SuggestedDueDate != nil {
		d.DueDate = preview.SuggestedDueDate.In(loc).Format(validate.DueDateLayout)
	}
	return d
}

// Generate asks for a description of title. A blank title fails without
// a request.
func (p *Pipeline) Generate(token, title, hint string) tea.Cmd {
	title = strings.TrimSpace(title)
	if title == "" {
		p.GenErr = NoTitleMessage
		return nil
	}
	p.Generating = true
	p.GenErr = ""
	ctx, gen := p.ctx, p.gen
	return func() tea.Msg {
		text, err := gen.GenerateDescription(ctx, token, title, hint)
		return GeneratedMsg{Text: text, Err: err}
	}
}

// AppendGenerated adds text below the current description
func AppendGenerated(curr, text string) string {
	if strings.TrimSpace(curr) == "" {
		return text
	}
	return curr + "\n\n" + text
}
