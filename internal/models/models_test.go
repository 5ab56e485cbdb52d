package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAcceptsMongoID(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc","title":"x","priority":"low","status":"todo"}`), &task))
	assert.Equal(t, "abc", task.ID)
	assert.NoError(t, task.Validate())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"def","_id":"abc","title":"x","priority":"low","status":"todo"}`), &task))
	assert.Equal(t, "def", task.ID)
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{"missing id", Task{Title: "x", Priority: PriorityLow, Status: StatusTodo}, "task: missing id"},
		{"missing title", Task{ID: "1", Priority: PriorityLow, Status: StatusTodo}, "task 1: missing title"},
		{"bad priority", Task{ID: "1", Title: "x", Priority: "urgent", Status: StatusTodo}, `task 1: invalid priority "urgent"`},
		{"bad status", Task{ID: "1", Title: "x", Priority: PriorityLow, Status: "blocked"}, `task 1: invalid status "blocked"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.task.Validate(), tt.want)
		})
	}
}

func TestInviteAndUserRefIDs(t *testing.T) {
	var inv Invite
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id":"i1","token":"tok","role":"viewer","status":"pending",
		"fromUser":{"_id":"u1","username":"ada"},
		"task":{"_id":"t1","title":"Plan"}
	}`), &inv))
	assert.Equal(t, "i1", inv.ID)
	assert.Equal(t, "u1", inv.FromUser.ID)
	assert.Equal(t, "ada", inv.FromUser.DisplayName())
	require.NotNil(t, inv.Task)
	assert.Equal(t, "t1", inv.Task.ID)
	assert.NoError(t, inv.Validate())

	assert.Equal(t, "u2", UserRef{ID: "u2"}.DisplayName())
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{
		Page:     2,
		PageSize: 20,
		Query:    "report",
		Filters:  Filters{Status: StatusDone, DueFrom: "2025-01-01"},
	}
	v := q.Values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "20", v.Get("limit"))
	assert.Equal(t, "report", v.Get("q"))
	assert.Equal(t, "done", v.Get("status"))
	assert.Equal(t, "2025-01-01", v.Get("dueFrom"))
	assert.Equal(t, "createdAt", v.Get("sort"))
	assert.Equal(t, "desc", v.Get("order"))
	assert.False(t, v.Has("priority"))
	assert.False(t, v.Has("dueTo"))

	export := q.ExportValues()
	assert.False(t, export.Has("page"))
	assert.False(t, export.Has("limit"))
	assert.Equal(t, "report", export.Get("q"))
}

func TestSummaryValidate(t *testing.T) {
	assert.NoError(t, Summary{OpenCount: 1}.Validate())
	assert.EqualError(t, Summary{OverdueCount: -1}.Validate(), "summary: negative overdueCount")
}
