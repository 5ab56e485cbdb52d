package store

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/models"
)

// TasksSlice holds the current page of tasks and the task being viewed.
// Create, update and delete share the Mutate op.
type TasksSlice struct {
	ctx context.Context
	api API

	Items      []models.Task
	Total      int
	Page       int
	TotalPages int
	Current    *models.Task

	List       Op
	CurrentOp  Op
	Mutate     Op
	LastQuery  models.ListQuery
	LastMutate MutateKind
}

// MutateKind says which mutation last settled
type MutateKind int

const (
	MutateNone MutateKind = iota
	MutateCreate
	MutateUpdate
	MutateDelete
	MutateBulkDelete
)

type (
	// TasksFetchedMsg is the result of Fetch
	TasksFetchedMsg struct {
		Query models.ListQuery
		Page  models.TaskPage
		Err   error
	}
	// TaskFetchedMsg is the result of FetchOne
	TaskFetchedMsg struct {
		ID   string
		Task models.Task
		Err  error
	}
	// TaskSavedMsg is the result of Create or Update
	TaskSavedMsg struct {
		Kind MutateKind
		Task models.Task
		Err  error
	}
	// TasksDeletedMsg is the result of Delete or BulkDelete
	TasksDeletedMsg struct {
		Kind MutateKind
		IDs  []string
		Err  error
	}
)

// Fetch loads one page; on success items and pagination are replaced together
func (t *TasksSlice) Fetch(token string, q models.ListQuery) tea.Cmd {
	t.List.start()
	ctx, client := t.ctx, t.api
	return func() tea.Msg {
		page, err := client.ListTasks(ctx, token, q)
		return TasksFetchedMsg{Query: q, Page: page, Err: err}
	}
}

// FetchOne loads a task into Current and refreshes its list entry
func (t *TasksSlice) FetchOne(token, id string) tea.Cmd {
	t.CurrentOp.start()
	ctx, client := t.ctx, t.api
	return func() tea.Msg {
		task, err := client.GetTask(ctx, token, id)
		return TaskFetchedMsg{ID: id, Task: task, Err: err}
	}
}

// Create adds a task at the front of the list and makes it current
func (t *TasksSlice) Create(token string, in models.TaskInput) tea.Cmd {
	t.Mutate.start()
	ctx, client := t.ctx, t.api
	return func() tea.Msg {
		task, err := client.CreateTask(ctx, token, in)
		return TaskSavedMsg{Kind: MutateCreate, Task: task, Err: err}
	}
}

// Update patches a task and replaces it wherever it is held
func (t *TasksSlice) Update(token, id string, in models.TaskInput) tea.Cmd {
	t.Mutate.start()
	ctx, client := t.ctx, t.api
	return func() tea.Msg {
		task, err := client.UpdateTask(ctx, token, id, in)
		return TaskSavedMsg{Kind: MutateUpdate, Task: task, Err: err}
	}
}

// Delete removes a task
func (t *TasksSlice) Delete(token, id string) tea.Cmd {
	t.Mutate.start()
	ctx, client := t.ctx, t.api
	return func() tea.Msg {
		err := client.DeleteTask(ctx, token, id)
		return TasksDeletedMsg{Kind: MutateDelete, IDs: []string{id}, Err: err}
	}
}

// BulkDelete removes every task in ids
func (t *TasksSlice) BulkDelete(token string, ids []string) tea.Cmd {
	t.Mutate.start()
	ids = slices.Clone(ids)
	ctx, client := t.ctx, t.api
	return func() tea.Msg {
		err := client.BulkDeleteTasks(ctx, token, ids)
		return TasksDeletedMsg{Kind: MutateBulkDelete, IDs: ids, Err: err}
	}
}

func (t *TasksSlice) ClearCurrent() {
	t.Current = nil
	t.CurrentOp = Op{}
}

// Find returns the list entry with id
func (t *TasksSlice) Find(id string) (models.Task, bool) {
	i := t.index(id)
	if i < 0 {
		return models.Task{}, false
	}
	return t.Items[i], true
}

func (t *TasksSlice) index(id string) int {
	return slices.IndexFunc(t.Items, func(task models.Task) bool { return task.ID == id })
}

func (t *TasksSlice) setCurrent(task models.Task) {
	t.Current = &task
}

func (t *TasksSlice) apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case TasksFetchedMsg:
		if msg.Err != nil {
			t.List.fail(msg.Err)
			return true
		}
		t.Items = msg.Page.Items
		t.Total = msg.Page.Total
		t.Page = msg.Page.Page
		t.TotalPages = msg.Page.TotalPages
		t.LastQuery = msg.Query
		t.List.succeed()
		return true

	case TaskFetchedMsg:
		if msg.Err != nil {
			t.CurrentOp.fail(msg.Err)
			return true
		}
		t.setCurrent(msg.Task)
		if i := t.index(msg.Task.ID); i >= 0 {
			t.Items[i] = msg.Task
		}
		t.CurrentOp.succeed()
		return true

	case TaskSavedMsg:
		t.LastMutate = msg.Kind
		if msg.Err != nil {
			t.Mutate.fail(msg.Err)
			return true
		}
		switch msg.Kind {
		case MutateCreate:
			t.Items = slices.DeleteFunc(t.Items, func(task models.Task) bool { return task.ID == msg.Task.ID })
			t.Items = append([]models.Task{msg.Task}, t.Items...)
			t.Total++
			t.setCurrent(msg.Task)
		case MutateUpdate:
			if i := t.index(msg.Task.ID); i >= 0 {
				t.Items[i] = msg.Task
			}
			if t.Current != nil && t.Current.ID == msg.Task.ID {
				t.setCurrent(msg.Task)
			}
		}
		t.Mutate.succeed()
		return true

	case TasksDeletedMsg:
		t.LastMutate = msg.Kind
		if msg.Err != nil {
			t.Mutate.fail(msg.Err)
			return true
		}
		before := len(t.Items)
		t.Items = slices.DeleteFunc(t.Items, func(task models.Task) bool {
			return slices.Contains(msg.IDs, task.ID)
		})
		t.Total = max(0, t.Total-(before-len(t.Items)))
		if t.Current != nil && slices.Contains(msg.IDs, t.Current.ID) {
			t.Current = nil
		}
		t.Mutate.succeed()
		return true
	}
	return false
}
