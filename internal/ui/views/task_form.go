package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/suggest"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
	"github.com/tgienger/taskdesk/internal/validate"
)

const (
	formTitle = iota
	formDesc
	formPriority
	formStatus
	formDue
	formSave
	formFields
)

// taskForm creates or edits a task
type taskForm struct {
	deps *Deps

	editingID string
	focusIdx  int
	title     textinput.Model
	desc      textarea.Model
	due       textinput.Model
	priority  models.Priority
	status    models.Status
	err       string

	// last draft handed to the suggestion pipeline
	watched validate.TaskDraft
}

func newTaskForm(deps *Deps, width int) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = validate.MaxDescriptionLen
	desc.SetWidth(clamp(styles.ContentWidth(width)-10, 20, 50))
	desc.SetHeight(4)
	desc.ShowLineNumbers = false

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DDTHH:MM"
	due.CharLimit = len(validate.DueDateLayout)

	f := &taskForm{
		deps:     deps,
		title:    title,
		desc:     desc,
		due:      due,
		priority: models.PriorityMedium,
		status:   models.StatusTodo,
	}
	deps.Store.Suggestion.Clear()
	f.watched = watchedFields(f.draft())
	f.updateFocus()
	return f
}

// editTaskForm prefills the form and asks for a preview of the stored task
func editTaskForm(deps *Deps, width int, task models.Task) (*taskForm, tea.Cmd) {
	f := newTaskForm(deps, width)
	f.editingID = task.ID
	f.title.SetValue(task.Title)
	f.desc.SetValue(task.Description)
	f.priority = task.Priority
	f.status = task.Status
	if task.DueDate != nil {
		f.due.SetValue(task.DueDate.In(deps.Location).Format(validate.DueDateLayout))
	}
	return f, f.watch()
}

func (f *taskForm) draft() validate.TaskDraft {
	return validate.TaskDraft{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Priority:    f.priority,
		Status:      f.status,
		DueDate:     strings.TrimSpace(f.due.Value()),
	}
}

func (f *taskForm) setDraft(d validate.TaskDraft) {
	f.priority = d.Priority
	f.due.SetValue(d.DueDate)
}

func (f *taskForm) updateFocus() {
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch f.focusIdx {
	case formTitle:
		f.title.Focus()
	case formDesc:
		f.desc.Focus()
	case formDue:
		f.due.Focus()
	}
}

// close stops pending suggestion work
func (f *taskForm) close() {
	f.deps.Suggest.Stop()
	f.deps.Store.Suggestion.Clear()
}

func (f *taskForm) save() tea.Cmd {
	in, err := validate.Task(f.draft(), f.deps.Location)
	if err != nil {
		f.err = api.Message(err)
		return nil
	}
	f.err = ""
	token := f.deps.token()
	if f.editingID == "" {
		return f.deps.Store.Tasks.Create(token, in)
	}
	return f.deps.Store.Tasks.Update(token, f.editingID, in)
}

// update returns done=true when the form should close without saving
func (f *taskForm) update(msg tea.KeyMsg, km keys.KeyMap) (tea.Cmd, bool) {
	if f.deps.Store.Tasks.Mutate.Loading() {
		return nil, false
	}

	switch {
	case key.Matches(msg, km.Back):
		f.close()
		return nil, true

	case key.Matches(msg, km.Save):
		return f.save(), false

	case key.Matches(msg, km.Generate):
		return f.deps.Suggest.Generate(f.deps.token(), f.title.Value(), ""), false

	case key.Matches(msg, km.Apply):
		if p := f.deps.Store.Suggestion.Preview; p != nil {
			f.setDraft(f.deps.Suggest.Apply(*p, f.draft()))
			return f.watchChanges(), false
		}
		return nil, false

	case key.Matches(msg, km.Tab):
		f.focusIdx = (f.focusIdx + 1) % formFields
		f.updateFocus()
		return nil, false

	case key.Matches(msg, km.ShiftTab):
		f.focusIdx = (f.focusIdx + formFields - 1) % formFields
		f.updateFocus()
		return nil, false

	case msg.String() == "left" || msg.String() == "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch f.focusIdx {
		case formPriority:
			f.priority = cycle(models.Priorities, f.priority, step)
			return nil, false
		case formStatus:
			f.status = cycle(models.Statuses, f.status, step)
			return f.watchChanges(), false
		}

	case key.Matches(msg, km.Enter):
		switch f.focusIdx {
		case formSave:
			return f.save(), false
		case formDesc:
			// newlines
		default:
			f.focusIdx++
			f.updateFocus()
			return nil, false
		}
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case formTitle:
		f.title, cmd = f.title.Update(msg)
	case formDesc:
		f.desc, cmd = f.desc.Update(msg)
	case formDue:
		f.due, cmd = f.due.Update(msg)
	default:
		return nil, false
	}
	return tea.Batch(cmd, f.watchChanges()), false
}

// watchedFields keeps only the inputs a suggestion depends on
func watchedFields(d validate.TaskDraft) validate.TaskDraft {
	return validate.TaskDraft{
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		DueDate:     d.DueDate,
	}
}

// watch feeds the current draft to the suggestion pipeline
func (f *taskForm) watch() tea.Cmd {
	d := f.draft()
	f.watched = watchedFields(d)
	return f.deps.Suggest.Watch(f.deps.token(), d)
}

// watchChanges restarts the pipeline only when a watched field moved
func (f *taskForm) watchChanges() tea.Cmd {
	if watchedFields(f.draft()) == f.watched {
		return nil
	}
	return f.watch()
}

// generated appends an AI description to the textarea
func (f *taskForm) generated(msg suggest.GeneratedMsg) tea.Cmd {
	if msg.Err != nil || msg.Text == "" {
		return nil
	}
	f.desc.SetValue(suggest.AppendGenerated(f.desc.Value(), msg.Text))
	return f.watchChanges()
}

func cycle[T comparable](options []T, cur T, step int) T {
	for i, o := range options {
		if o == cur {
			return options[(i+step+len(options))%len(options)]
		}
	}
	return options[0]
}

func (f *taskForm) view(s *styles.Styles, spin string, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	style := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if f.focusIdx == formSave {
		btnStyle = s.ButtonFocused
	}

	heading := "New Task"
	if f.editingID != "" {
		heading = "Edit Task"
	}

	status := ""
	switch {
	case f.err != "":
		status = s.Error.Render(f.err)
	case f.deps.Store.Tasks.Mutate.Loading():
		status = spin + " " + s.TitleMuted.Render("Saving...")
	case f.deps.Store.Tasks.Mutate.Status == store.Failed:
		status = s.Error.Render(f.deps.Store.Tasks.Mutate.Err)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		"Title:",
		style(formTitle).Width(inputWidth).Render(f.title.View()),
		"Description:",
		style(formDesc).Render(f.desc.View()),
		f.generateLine(s, spin),
		"Priority:",
		style(formPriority).Render("◀ "+s.PriorityBadge(f.priority)+" ▶"),
		"Status:",
		style(formStatus).Render("◀ "+s.StatusBadge(f.status)+" ▶"),
		"Due (local time):",
		style(formDue).Width(24).Render(f.due.View()),
		"",
		f.suggestionPanel(s, spin, inputWidth),
		"",
		btnStyle.Render(" Save "),
		status,
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+A: apply suggestion • Ctrl+G: AI description • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, width, height)
}

func (f *taskForm) generateLine(s *styles.Styles, spin string) string {
	p := f.deps.Suggest
	switch {
	case p.Generating:
		return spin + " " + s.TitleMuted.Render("Generating description...")
	case p.GenErr != "":
		return s.Error.Render(p.GenErr)
	}
	return ""
}

func (f *taskForm) suggestionPanel(s *styles.Styles, spin string, width int) string {
	slice := f.deps.Store.Suggestion
	var lines []string
	switch {
	case slice.Op.Loading():
		lines = append(lines, spin+" "+s.TitleMuted.Render("Thinking..."))
	case slice.Op.Status == store.Failed:
		lines = append(lines, s.Error.Render(slice.Op.Err))
	case slice.Preview == nil:
		lines = append(lines, s.TitleMuted.Render("Suggestions appear as you type a title"))
	default:
		p := slice.Preview
		lines = append(lines, "Priority: "+s.PriorityBadge(p.Priority))
		if p.SuggestedDueDate != nil {
			lines = append(lines, "Due: "+formatDue(p.SuggestedDueDate, f.deps.Location))
		}
		for _, r := range p.Reasons {
			lines = append(lines, s.TitleMuted.Render("• "+r))
		}
		if x := p.Extras; x != nil {
			if len(x.Labels) > 0 {
				lines = append(lines, "Labels: "+strings.Join(x.Labels, ", "))
			}
			if x.TimeEstimateMinutes > 0 {
				lines = append(lines, fmt.Sprintf("Estimate: %d min", x.TimeEstimateMinutes))
			}
			if x.Recurrence != "" {
				lines = append(lines, "Repeats: "+x.Recurrence)
			}
			if x.ReminderAt != nil {
				lines = append(lines, "Reminder: "+formatDue(x.ReminderAt, f.deps.Location))
			}
		}
	}
	return s.Panel.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.HelpKey.Render("Suggestion")}, lines...)...,
	))
}
