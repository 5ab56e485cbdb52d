package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

// taskDetail shows one task and who it is shared with
type taskDetail struct {
	deps   *Deps
	taskID string

	collabCursor int

	inviting    bool
	inviteEmail textinput.Model
	inviteRole  models.Role
	leaving     bool
}

func newTaskDetail(deps *Deps, taskID string) (*taskDetail, tea.Cmd) {
	email := textinput.New()
	email.Placeholder = "teammate@example.com"
	email.CharLimit = 254

	d := &taskDetail{
		deps:        deps,
		taskID:      taskID,
		inviteEmail: email,
		inviteRole:  models.RoleViewer,
	}
	deps.Store.Collab.ClearError()
	deps.Store.Collab.Notice = ""
	return d, d.reload()
}

func (d *taskDetail) reload() tea.Cmd {
	token := d.deps.token()
	return tea.Batch(
		d.deps.Store.Tasks.FetchOne(token, d.taskID),
		d.deps.Store.Collab.FetchCollaborators(token, d.taskID),
	)
}

// task prefers the freshly fetched copy over the list row
func (d *taskDetail) task() (models.Task, bool) {
	if cur := d.deps.Store.Tasks.Current; cur != nil && cur.ID == d.taskID {
		return *cur, true
	}
	return d.deps.Store.Tasks.Find(d.taskID)
}

func (d *taskDetail) collaborators() []models.Collaborator {
	return d.deps.Store.Collab.ByTask[d.taskID]
}

func (d *taskDetail) selected() (models.Collaborator, bool) {
	list := d.collaborators()
	if d.collabCursor < 0 || d.collabCursor >= len(list) {
		return models.Collaborator{}, false
	}
	return list[d.collabCursor], true
}

func (d *taskDetail) isSelf(c models.Collaborator) bool {
	sess := d.deps.Store.Auth.Session
	return sess != nil && sess.UserID == c.User.ID
}

// collabSettled reacts to a finished collaborator mutation; it reports
// whether the detail should close (the user left the task)
func (d *taskDetail) collabSettled(msg store.CollabMsg) bool {
	if msg.TaskID != d.taskID {
		return false
	}
	collab := d.deps.Store.Collab
	if d.inviting && !collab.Sending && collab.Err == "" {
		d.inviting = false
		d.inviteEmail.Reset()
		d.inviteEmail.Blur()
	}
	if d.leaving {
		d.leaving = false
		return collab.Err == ""
	}
	if n := len(d.collaborators()); d.collabCursor >= n {
		d.collabCursor = max(0, n-1)
	}
	return false
}

func (d *taskDetail) updateInvite(msg tea.KeyMsg, km keys.KeyMap) tea.Cmd {
	collab := d.deps.Store.Collab
	if collab.Sending {
		return nil
	}
	switch {
	case key.Matches(msg, km.Back):
		d.inviting = false
		d.inviteEmail.Blur()
		collab.ClearError()
		return nil
	case key.Matches(msg, km.Tab):
		if d.inviteRole == models.RoleViewer {
			d.inviteRole = models.RoleEditor
		} else {
			d.inviteRole = models.RoleViewer
		}
		return nil
	case key.Matches(msg, km.Enter), key.Matches(msg, km.Save):
		return collab.Invite(d.deps.token(), d.taskID, d.inviteEmail.Value(), d.inviteRole)
	}
	var cmd tea.Cmd
	d.inviteEmail, cmd = d.inviteEmail.Update(msg)
	return cmd
}

// update handles keys that stay inside the detail. Keys the list view
// owns (edit, delete, back) are reported through handled=false.
func (d *taskDetail) update(msg tea.KeyMsg, km keys.KeyMap) (tea.Cmd, bool) {
	if d.inviting {
		return d.updateInvite(msg, km), true
	}

	token := d.deps.token()
	collab := d.deps.Store.Collab
	switch {
	case key.Matches(msg, km.Up):
		if d.collabCursor > 0 {
			d.collabCursor--
		}
		return nil, true

	case key.Matches(msg, km.Down):
		if d.collabCursor < len(d.collaborators())-1 {
			d.collabCursor++
		}
		return nil, true

	case key.Matches(msg, km.Reload):
		return d.reload(), true

	case key.Matches(msg, km.Share):
		d.inviting = true
		collab.ClearError()
		collab.Notice = ""
		return d.inviteEmail.Focus(), true

	case key.Matches(msg, km.Role):
		c, ok := d.selected()
		if !ok {
			return nil, true
		}
		next := models.RoleEditor
		if c.Role == models.RoleEditor {
			next = models.RoleViewer
		}
		return collab.UpdateRole(token, d.taskID, c.User.ID, next), true

	case key.Matches(msg, km.Remove):
		c, ok := d.selected()
		if !ok || d.isSelf(c) {
			return nil, true
		}
		return collab.Remove(token, d.taskID, c.User.ID), true

	case key.Matches(msg, km.Leave):
		d.leaving = true
		return collab.Leave(token, d.taskID), true
	}
	return nil, false
}

func (d *taskDetail) view(s *styles.Styles, spin string, width, height int) string {
	maxContentWidth := styles.ContentWidth(width)
	textWidth := clamp(maxContentWidth-10, 20, 70)
	labelStyle := s.TitleMuted

	task, ok := d.task()
	if !ok {
		body := s.TitleMuted.Render("Task not found")
		if d.deps.Store.Tasks.CurrentOp.Loading() {
			body = spin + " " + s.TitleMuted.Render("Loading task...")
		} else if d.deps.Store.Tasks.CurrentOp.Status == store.Failed {
			body = s.Error.Render(d.deps.Store.Tasks.CurrentOp.Err)
		}
		return styles.CenterView(lipgloss.NewStyle().Padding(1, 2).Render(body), width, height)
	}

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	status := ""
	switch {
	case d.deps.Store.Tasks.CurrentOp.Loading():
		status = spin + " " + s.TitleMuted.Render("Refreshing...")
	case d.deps.Store.Tasks.CurrentOp.Status == store.Failed:
		status = s.Error.Render(d.deps.Store.Tasks.CurrentOp.Err)
	case d.deps.Store.Tasks.Mutate.Status == store.Failed:
		status = s.Error.Render(d.deps.Store.Tasks.Mutate.Err)
	}

	helpText := helpLine(s, "e", "edit", "d", "delete", "s", "share", "R", "role", "x", "remove", "L", "leave", "esc", "back")
	if d.inviting {
		helpText = helpLine(s, "tab", "role", "↵", "send", "esc", "cancel")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		lipgloss.JoinHorizontal(lipgloss.Top, s.PriorityBadge(task.Priority), " ", s.StatusBadge(task.Status)),
		"",
		labelStyle.Render("Due"),
		formatDue(task.DueDate, d.deps.Location),
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render(fmt.Sprintf("Created %s • Updated %s",
			task.CreatedAt.In(d.deps.Location).Format("Jan 2, 2006"),
			task.UpdatedAt.In(d.deps.Location).Format("Jan 2, 2006"))),
		status,
		"",
		labelStyle.Render("Collaborators"),
		d.renderCollaborators(s, spin, textWidth),
		"",
		d.renderInvite(s, spin, textWidth),
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, width, height)
}

func (d *taskDetail) renderCollaborators(s *styles.Styles, spin string, width int) string {
	collab := d.deps.Store.Collab
	list := d.collaborators()
	if collab.LoadingByTask[d.taskID] && len(list) == 0 {
		return spin + " " + s.TitleMuted.Render("Loading collaborators...")
	}
	if len(list) == 0 {
		return s.TitleMuted.Render("Not shared with anyone")
	}
	var rows []string
	for i, c := range list {
		name := c.User.DisplayName()
		if d.isSelf(c) {
			name += " (you)"
		}
		line := fmt.Sprintf("%-30s %s", name, c.Role)
		style := s.ListItem
		if i == d.collabCursor && !d.inviting {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (d *taskDetail) renderInvite(s *styles.Styles, spin string, width int) string {
	collab := d.deps.Store.Collab
	var rows []string
	if d.inviting {
		rows = append(rows,
			"Invite by email:",
			s.InputFocused.Width(clamp(width-4, 20, 50)).Render(d.inviteEmail.View()),
			"Role: "+s.HelpKey.Render(string(d.inviteRole)),
		)
	}
	switch {
	case collab.Sending:
		rows = append(rows, spin+" "+s.TitleMuted.Render("Sending invite..."))
	case collab.Err != "":
		rows = append(rows, s.Error.Render(collab.Err))
	case collab.Notice != "":
		rows = append(rows, s.Success.Render(collab.Notice))
	}
	if len(rows) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}
