package views

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/suggest"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

// FocusArea represents which part of the list screen has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusSearchInput
	FocusFilterButton
)

// filter panel rows
const (
	filterStatus = iota
	filterPriority
	filterSort
	filterOrder
	filterDueFrom
	filterDueTo
	filterApply
	filterClear
	filterRows
)

const filterDateLayout = "2006-01-02"

var pageSizes = []int{10, 20, 50}

type exportDoneMsg struct {
	Path string
	Err  error
}

// TaskListView is the paginated, searchable task list. It hosts the task
// form and the detail screen.
type TaskListView struct {
	deps    *Deps
	styles  *styles.Styles
	keys    keys.KeyMap
	spinner spinner.Model

	width  int
	height int

	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	selected    map[string]bool

	filterCursor int
	dueFrom      textinput.Model
	dueTo        textinput.Model
	filterErr    string

	form   *taskForm
	detail *taskDetail

	confirmingDelete bool
	deleteTargetIDs  []string
	deleteTargetName string

	exporting bool
	notice    string
	noticeErr bool

	showHelpPopup bool
}

// NewTaskListView creates the task list screen
func NewTaskListView(deps *Deps) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	dueFrom := textinput.New()
	dueFrom.Placeholder = "YYYY-MM-DD"
	dueFrom.CharLimit = len(filterDateLayout)

	dueTo := textinput.New()
	dueTo.Placeholder = "YYYY-MM-DD"
	dueTo.CharLimit = len(filterDateLayout)

	return &TaskListView{
		deps:        deps,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		spinner:     newSpinner(),
		searchInput: search,
		dueFrom:     dueFrom,
		dueTo:       dueTo,
		selected:    make(map[string]bool),
	}
}

// Init fetches the list unless it already shows the current query
func (v *TaskListView) Init() tea.Cmd {
	v.searchInput.SetValue(v.deps.List.SearchInput)
	return tea.Batch(v.deps.List.SetToken(v.deps.token()), v.spinner.Tick)
}

func (v *TaskListView) tasks() []models.Task {
	return v.deps.Store.Tasks.Items
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.form != nil {
			v.form.desc.SetWidth(clamp(styles.ContentWidth(v.width)-10, 20, 50))
		}
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case store.TasksFetchedMsg:
		if v.cursor >= len(v.tasks()) {
			v.cursor = max(0, len(v.tasks())-1)
		}
		v.ensureVisible()
		return v, nil

	case store.TaskSavedMsg:
		if msg.Err != nil || v.form == nil {
			return v, nil
		}
		v.form.close()
		v.form = nil
		var cmd tea.Cmd
		v.detail, cmd = newTaskDetail(v.deps, msg.Task.ID)
		return v, cmd

	case store.TasksDeletedMsg:
		if msg.Err != nil {
			return v, nil
		}
		for _, id := range msg.IDs {
			delete(v.selected, id)
			if v.detail != nil && v.detail.taskID == id {
				v.detail = nil
			}
		}
		return v, v.deps.List.Reload()

	case store.CollabMsg:
		if v.detail != nil && v.detail.collabSettled(msg) {
			v.detail = nil
			v.deps.Store.Tasks.ClearCurrent()
			return v, v.deps.List.Reload()
		}
		return v, nil

	case suggest.GeneratedMsg:
		if v.form != nil {
			return v, v.form.generated(msg)
		}
		return v, nil

	case exportDoneMsg:
		v.exporting = false
		if msg.Err != nil {
			v.notice, v.noticeErr = "Export failed: "+api.Message(msg.Err), true
		} else {
			v.notice, v.noticeErr = "Exported to "+msg.Path, false
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.form != nil {
			cmd, done := v.form.update(msg, v.keys)
			if done {
				v.form = nil
			}
			return v, tea.Batch(cmd, v.spinner.Tick)
		}
		if v.detail != nil {
			return v.updateDetail(msg)
		}
		if v.deps.List.FilterOpen {
			return v.updateFilters(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := v.deps.List

	// don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, list.SubmitSearch()
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, list.SetSearch(v.searchInput.Value()))
		}
	}

	v.notice = ""
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, Navigate(RouteDashboard)

	case key.Matches(msg, v.keys.Dashboard):
		return v, Navigate(RouteDashboard)

	case key.Matches(msg, v.keys.Invites):
		return v, Navigate(RouteInvites)

	case key.Matches(msg, v.keys.Logout):
		return v, func() tea.Msg { return LogoutRequested{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		return v, v.searchInput.Focus()

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.openFilters()
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.PrevPage):
		v.cursor, v.scrollY = 0, 0
		return v, tea.Batch(list.PrevPage(), v.spinner.Tick)

	case key.Matches(msg, v.keys.NextPage):
		v.cursor, v.scrollY = 0, 0
		return v, tea.Batch(list.NextPage(), v.spinner.Tick)

	case msg.String() == "]" || msg.String() == "[":
		step := 1
		if msg.String() == "[" {
			step = -1
		}
		v.cursor, v.scrollY = 0, 0
		return v, tea.Batch(list.SetPageSize(cycle(pageSizes, list.PageSize, step)), v.spinner.Tick)

	case key.Matches(msg, v.keys.Reload):
		return v, tea.Batch(list.Reload(), v.spinner.Tick)

	case key.Matches(msg, v.keys.Enter):
		if v.focus == FocusFilterButton {
			v.openFilters()
			return v, nil
		}
		if task, ok := v.cursorTask(); ok {
			var cmd tea.Cmd
			v.detail, cmd = newTaskDetail(v.deps, task.ID)
			return v, tea.Batch(cmd, v.spinner.Tick)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.form = newTaskForm(v.deps, v.width)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.cursorTask(); ok {
			var cmd tea.Cmd
			v.form, cmd = editTaskForm(v.deps, v.width, task)
			return v, tea.Batch(cmd, textinput.Blink)
		}
		return v, nil

	case key.Matches(msg, v.keys.Select):
		if task, ok := v.cursorTask(); ok {
			if v.selected[task.ID] {
				delete(v.selected, task.ID)
			} else {
				v.selected[task.ID] = true
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.cursorTask(); ok {
			v.confirmDelete([]string{task.ID}, task.Title)
		}
		return v, nil

	case key.Matches(msg, v.keys.Bulk):
		if ids := v.selectedIDs(); len(ids) > 0 {
			v.confirmDelete(ids, fmt.Sprintf("%d tasks", len(ids)))
		}
		return v, nil

	case key.Matches(msg, v.keys.Export):
		if v.exporting {
			return v, nil
		}
		v.exporting = true
		return v, tea.Batch(v.export(), v.spinner.Tick)
	}

	return v, nil
}

func (v *TaskListView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := v.detail.update(msg, v.keys); handled {
		return v, tea.Batch(cmd, v.spinner.Tick)
	}
	task, ok := v.detail.task()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.detail = nil
		v.deps.Store.Tasks.ClearCurrent()
		v.deps.Store.Collab.ClearError()
	case key.Matches(msg, v.keys.Edit):
		if ok {
			var cmd tea.Cmd
			v.form, cmd = editTaskForm(v.deps, v.width, task)
			return v, tea.Batch(cmd, textinput.Blink)
		}
	case key.Matches(msg, v.keys.Delete):
		if ok {
			v.confirmDelete([]string{task.ID}, task.Title)
		}
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) confirmDelete(ids []string, name string) {
	v.confirmingDelete = true
	v.deleteTargetIDs = ids
	v.deleteTargetName = name
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		token := v.deps.token()
		var cmd tea.Cmd
		if len(v.deleteTargetIDs) == 1 {
			cmd = v.deps.Store.Tasks.Delete(token, v.deleteTargetIDs[0])
		} else {
			cmd = v.deps.Store.Tasks.BulkDelete(token, v.deleteTargetIDs)
		}
		return v, tea.Batch(cmd, v.spinner.Tick)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) openFilters() {
	list := v.deps.List
	list.OpenFilters()
	v.filterCursor = 0
	v.filterErr = ""
	v.dueFrom.SetValue(list.Draft.DueFrom)
	v.dueTo.SetValue(list.Draft.DueTo)
	v.updateFilterFocus()
}

func (v *TaskListView) updateFilterFocus() {
	v.dueFrom.Blur()
	v.dueTo.Blur()
	switch v.filterCursor {
	case filterDueFrom:
		v.dueFrom.Focus()
	case filterDueTo:
		v.dueTo.Focus()
	}
}

func (v *TaskListView) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := v.deps.List
	switch {
	case key.Matches(msg, v.keys.Back):
		list.CloseFilters()
		v.updateFilterFocus()
		return v, nil

	case msg.String() == "up" || key.Matches(msg, v.keys.ShiftTab):
		v.filterCursor = (v.filterCursor + filterRows - 1) % filterRows
		v.updateFilterFocus()
		return v, nil

	case msg.String() == "down" || key.Matches(msg, v.keys.Tab):
		v.filterCursor = (v.filterCursor + 1) % filterRows
		v.updateFilterFocus()
		return v, nil

	case msg.String() == "left" || msg.String() == "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch v.filterCursor {
		case filterStatus:
			list.EditDraft(func(f *models.Filters) {
				f.Status = cycle(append([]models.Status{""}, models.Statuses...), f.Status, step)
			})
			return v, nil
		case filterPriority:
			list.EditDraft(func(f *models.Filters) {
				f.Priority = cycle(append([]models.Priority{""}, models.Priorities...), f.Priority, step)
			})
			return v, nil
		case filterSort:
			list.EditDraft(func(f *models.Filters) {
				f.Sort = cycle(models.SortFields, f.Sort, step)
			})
			return v, nil
		case filterOrder:
			list.EditDraft(func(f *models.Filters) {
				f.Order = cycle([]models.Order{models.OrderAsc, models.OrderDesc}, f.Order, step)
			})
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		switch v.filterCursor {
		case filterClear:
			list.ClearDraft()
			v.dueFrom.Reset()
			v.dueTo.Reset()
			v.filterErr = ""
			return v, nil
		case filterDueFrom, filterDueTo:
			v.filterCursor++
			v.updateFilterFocus()
			return v, nil
		default:
			return v, v.applyFilters()
		}
	}

	var cmd tea.Cmd
	switch v.filterCursor {
	case filterDueFrom:
		v.dueFrom, cmd = v.dueFrom.Update(msg)
		from := strings.TrimSpace(v.dueFrom.Value())
		list.EditDraft(func(f *models.Filters) { f.DueFrom = from })
	case filterDueTo:
		v.dueTo, cmd = v.dueTo.Update(msg)
		to := strings.TrimSpace(v.dueTo.Value())
		list.EditDraft(func(f *models.Filters) { f.DueTo = to })
	}
	return v, cmd
}

func (v *TaskListView) applyFilters() tea.Cmd {
	list := v.deps.List
	for _, d := range []string{list.Draft.DueFrom, list.Draft.DueTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(filterDateLayout, d); err != nil {
			v.filterErr = "Dates must look like 2006-01-02"
			return nil
		}
	}
	v.filterErr = ""
	v.cursor, v.scrollY = 0, 0
	cmd := list.ApplyFilters()
	v.updateFilterFocus()
	return tea.Batch(cmd, v.spinner.Tick)
}

// export downloads the filtered list as CSV into the export directory
func (v *TaskListView) export() tea.Cmd {
	ctx, exporter := v.deps.Ctx, v.deps.Exporter
	token, q, dir := v.deps.token(), v.deps.List.ExportQuery(), v.deps.ExportDir
	return func() tea.Msg {
		data, err := exporter.ExportCSV(ctx, token, q)
		if err != nil {
			return exportDoneMsg{Err: err}
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportDoneMsg{Err: err}
		}
		path := filepath.Join(dir, "tasks-"+time.Now().Format("20060102-150405")+".csv")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return exportDoneMsg{Err: err}
		}
		log.Printf("[export] wrote %d bytes to %s", len(data), path)
		return exportDoneMsg{Path: path}
	}
}

func (v *TaskListView) cursorTask() (models.Task, bool) {
	items := v.tasks()
	if v.cursor < 0 || v.cursor >= len(items) {
		return models.Task{}, false
	}
	return items[v.cursor], true
}

// selectedIDs keeps page order
func (v *TaskListView) selectedIDs() []string {
	var ids []string
	for _, t := range v.tasks() {
		if v.selected[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (v *TaskListView) cycleFocus(dir int) {
	v.focus = FocusArea((int(v.focus) + 3 + dir) % 3)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	} else {
		v.searchInput.Blur()
	}
}

func (v *TaskListView) visibleItems() int {
	// two lines per task plus a margin line
	return max((v.height-14)/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the active screen
func (v *TaskListView) View() string {
	s := v.styles
	sp := v.spinner.View()

	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.form != nil {
		return v.form.view(s, sp, v.width, v.height)
	}
	if v.detail != nil {
		return v.detail.view(s, sp, v.width, v.height)
	}

	var b strings.Builder
	b.WriteString(navBar(s, RouteTasks))
	b.WriteString("\n\n")
	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	if v.deps.List.FilterOpen {
		b.WriteString(v.renderFilterPanel())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(lipgloss.NewStyle().Padding(0, 2).Render(b.String()), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-30, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	filterStyle := s.Button
	if v.focus == FocusFilterButton {
		filterStyle = s.ButtonFocused
	}
	filterLabel := "Filters"
	if n := activeFilters(v.deps.List.Filters); n > 0 {
		filterLabel = fmt.Sprintf("Filters (%d)", n)
	}
	filterBtn := filterStyle.Render(filterLabel + " ▼")

	tasks := v.deps.Store.Tasks
	pageInfo := s.TitleMuted.Render(fmt.Sprintf("Page %d/%d · %d tasks",
		max(tasks.Page, 1), max(tasks.TotalPages, 1), tasks.Total))
	if v.deps.List.SearchPending() {
		pageInfo += " " + s.TitleMuted.Render("(typing...)")
	}

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, filterBtn, pageInfo)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", filterBtn, "  ", pageInfo)
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.Title.Render("Tasks"), header)
}

func activeFilters(f models.Filters) int {
	n := 0
	for _, set := range []bool{f.Status != "", f.Priority != "", f.DueFrom != "", f.DueTo != ""} {
		if set {
			n++
		}
	}
	return n
}

func (v *TaskListView) renderFilterPanel() string {
	s := v.styles
	draft := v.deps.List.Draft
	orAny := func(val string) string {
		if val == "" {
			return "any"
		}
		return val
	}

	row := func(idx int, label, value string) string {
		style := s.ListItem
		if v.filterCursor == idx {
			style = s.ListSelected
		}
		return style.Render(fmt.Sprintf("%-10s ◀ %s ▶", label, value))
	}
	input := func(idx int, label string, in textinput.Model) string {
		style := s.Input
		if v.filterCursor == idx {
			style = s.InputFocused
		}
		return lipgloss.JoinHorizontal(lipgloss.Center, fmt.Sprintf("  %-10s ", label), style.Width(14).Render(in.View()))
	}
	button := func(idx int, label string) string {
		if v.filterCursor == idx {
			return s.ButtonFocused.Render(label)
		}
		return s.Button.Render(label)
	}

	rows := []string{
		row(filterStatus, "Status", orAny(string(draft.Status))),
		row(filterPriority, "Priority", orAny(string(draft.Priority))),
		row(filterSort, "Sort", string(draft.Sort)),
		row(filterOrder, "Order", string(draft.Order)),
		input(filterDueFrom, "Due from", v.dueFrom),
		input(filterDueTo, "Due to", v.dueTo),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, button(filterApply, " Apply "), " ", button(filterClear, " Clear ")),
	}
	if v.filterErr != "" {
		rows = append(rows, s.Error.Render(v.filterErr))
	}
	rows = append(rows, s.TitleMuted.Render("↑↓ move • ←→ change • ↵ apply • esc close"))
	return s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	items := v.tasks()
	list := v.deps.Store.Tasks.List

	if len(items) == 0 {
		if line := opLine(s, v.spinner, list, "Loading tasks..."); line != "" {
			return line
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var rows []string
	endIdx := min(v.scrollY+v.visibleItems(), len(items))
	for i := v.scrollY; i < endIdx; i++ {
		rows = append(rows, v.renderTaskItem(items[i], i == v.cursor && v.focus == FocusTaskList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *TaskListView) renderTaskItem(task models.Task, highlighted bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-8, 20)

	box := "[ ] "
	if v.selected[task.ID] {
		box = "[x] "
	}
	titleLine := box + task.Title

	meta := lipgloss.JoinHorizontal(lipgloss.Top,
		"    ",
		s.PriorityBadge(task.Priority), " ",
		s.StatusBadge(task.Status), " ",
		s.TitleMuted.Render("due "+formatDue(task.DueDate, v.deps.Location)),
	)

	style := s.ListItem.Width(width)
	if highlighted {
		style = s.ListSelected.Width(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(titleLine), style.Render(meta)) + "\n"
}

func (v *TaskListView) renderStatus() string {
	s := v.styles
	tasks := v.deps.Store.Tasks
	switch {
	case v.exporting:
		return v.spinner.View() + " " + s.TitleMuted.Render("Exporting...")
	case v.notice != "" && v.noticeErr:
		return s.Error.Render(v.notice)
	case v.notice != "":
		return s.Success.Render(v.notice)
	case tasks.Mutate.Loading():
		return v.spinner.View() + " " + s.TitleMuted.Render("Saving...")
	case tasks.Mutate.Status == store.Failed:
		return s.Error.Render(tasks.Mutate.Err)
	case len(tasks.Items) > 0:
		// items stay visible while refreshing or after a failed refresh
		return opLine(s, v.spinner, tasks.List, "Refreshing...")
	}
	return ""
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	if v.focus == FocusSearchInput {
		return helpLine(s, "↵", "search now", "esc", "done")
	}
	if styles.ContentWidth(v.width) < 60 {
		return helpLine(s, "?", "help", "q", "quit")
	}
	pairs := []string{"n", "new", "↵", "open", "/", "search", "f", "filter", "←→", "page", "?", "help"}
	if len(v.selected) > 0 {
		pairs = append(pairs, "D", fmt.Sprintf("delete %d", len(v.selected)))
	}
	return helpLine(s, pairs...)
}

func (v *TaskListView) renderHelpPopup() string {
	return helpPopup(v.styles, v.width, v.height,
		"↑/k", "move up",
		"↓/j", "move down",
		"←/→", "previous / next page",
		"[ ]", "page size",
		"↵", "open task",
		"n", "new task",
		"e", "edit task",
		"d", "delete task",
		"space", "select",
		"D", "delete selected",
		"/", "search",
		"f", "filters",
		"x", "export csv",
		"r", "reload",
		"esc", "dashboard",
		"q", "quit",
	)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
