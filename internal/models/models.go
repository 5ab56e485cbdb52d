package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ascending order
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in workflow order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns a human readable status name
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Session is the authenticated user plus the bearer credential
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	Role        string
	Token       string
}

// Validate checks the fields the client relies on after login/register
func (s Session) Validate() error {
	if s.UserID == "" {
		return errors.New("session: missing user id")
	}
	if s.Token == "" {
		return errors.New("session: missing token")
	}
	return nil
}

// Task represents a single task owned by the backend
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UnmarshalJSON accepts both "id" and the Mongo style "_id"
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*t = Task(aux.plain)
	if t.ID == "" {
		t.ID = aux.MongoID
	}
	return nil
}

// Validate checks a decoded task
func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("task: missing id")
	}
	if t.Title == "" {
		return fmt.Errorf("task %s: missing title", t.ID)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("task %s: invalid priority %q", t.ID, t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task %s: invalid status %q", t.ID, t.Status)
	}
	return nil
}

// TaskInput is the writable subset of a task. Nil fields are left out of
// the request so the same type serves create and partial update.
type TaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskPage is one page of the task list
type TaskPage struct {
	Items      []Task
	Total      int
	Page       int
	TotalPages int
}

// PriorityCounts is the open task distribution by priority
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Summary is the dashboard rollup
type Summary struct {
	OpenCount      int            `json:"openCount"`
	CompletedCount int            `json:"completedCount"`
	DueTodayCount  int            `json:"dueTodayCount"`
	OverdueCount   int            `json:"overdueCount"`
	ByPriority     PriorityCounts `json:"byPriority"`
	Velocity7d     int            `json:"velocity7d"`
}

// Validate rejects negative counters
func (s Summary) Validate() error {
	for name, n := range map[string]int{
		"openCount":      s.OpenCount,
		"completedCount": s.CompletedCount,
		"dueTodayCount":  s.DueTodayCount,
		"overdueCount":   s.OverdueCount,
	} {
		if n < 0 {
			return fmt.Errorf("summary: negative %s", name)
		}
	}
	return nil
}
