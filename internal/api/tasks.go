package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tgienger/taskdesk/internal/models"
)

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// ListTasks fetches one page of tasks
func (c *Client) ListTasks(ctx context.Context, token string, q models.ListQuery) (models.TaskPage, error) {
	r := request{method: http.MethodGet, path: "/tasks", query: q.Values(), token: token}
	env, err := c.callEnvelope(ctx, r)
	if err != nil {
		return models.TaskPage{}, err
	}

	var items []models.Task
	if err := decodeJSON(r.op(), env.Data, &items); err != nil {
		return models.TaskPage{}, err
	}
	for _, t := range items {
		if err := check(r.op(), t); err != nil {
			return models.TaskPage{}, err
		}
	}

	page := models.TaskPage{Items: items, Total: len(items), Page: 1, TotalPages: 1}
	if env.Total != nil {
		page.Total = *env.Total
	}
	if env.Page != nil {
		page.Page = *env.Page
	}
	if env.TotalPages != nil {
		page.TotalPages = *env.TotalPages
	}
	if page.Items == nil {
		page.Items = []models.Task{}
	}
	return page, nil
}

// GetTask fetches a single task
func (c *Client) GetTask(ctx context.Context, token, id string) (models.Task, error) {
	return c.taskCall(ctx, request{method: http.MethodGet, path: taskPath(id), token: token})
}

// CreateTask creates a task; the server assigns id and timestamps
func (c *Client) CreateTask(ctx context.Context, token string, in models.TaskInput) (models.Task, error) {
	return c.taskCall(ctx, request{method: http.MethodPost, path: "/tasks", body: in, token: token})
}

// UpdateTask patches a task and returns the full replacement
func (c *Client) UpdateTask(ctx context.Context, token, id string, in models.TaskInput) (models.Task, error) {
	return c.taskCall(ctx, request{method: http.MethodPatch, path: taskPath(id), body: in, token: token})
}

func (c *Client) taskCall(ctx context.Context, r request) (models.Task, error) {
	env, err := c.callEnvelope(ctx, r)
	if err != nil {
		return models.Task{}, err
	}
	var t models.Task
	if err := decodeJSON(r.op(), env.Data, &t); err != nil {
		return models.Task{}, err
	}
	if err := check(r.op(), t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	_, err := c.callEnvelope(ctx, request{method: http.MethodDelete, path: taskPath(id), token: token})
	return err
}

// BulkDeleteTasks deletes every task in ids
func (c *Client) BulkDeleteTasks(ctx context.Context, token string, ids []string) error {
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	_, err := c.callEnvelope(ctx, request{method: http.MethodDelete, path: "/tasks", body: body, token: token})
	return err
}

// ExportCSV downloads the tasks matching q as CSV bytes. Pagination in q
// is ignored; the local timezone offset is appended.
func (c *Client) ExportCSV(ctx context.Context, token string, q models.ListQuery) ([]byte, error) {
	v := q.ExportValues()
	v.Set("tzOffsetMinutes", strconv.Itoa(TZOffsetMinutes(c.now())))
	return c.call(ctx, request{method: http.MethodGet, path: "/tasks/export.csv", query: v, token: token})
}

// Summary fetches the dashboard rollup
func (c *Client) Summary(ctx context.Context, token string) (models.Summary, error) {
	r := request{
		method: http.MethodGet,
		path:   "/tasks/summary",
		query:  url.Values{"tzOffsetMin": {strconv.Itoa(TZOffsetMinutes(c.now()))}},
		token:  token,
	}
	raw, err := c.call(ctx, r)
	if err != nil {
		return models.Summary{}, err
	}
	var env struct {
		Success *bool           `json:"success"`
		Data    *models.Summary `json:"data"`
	}
	if err := decodeJSON(r.op(), raw, &env); err != nil {
		return models.Summary{}, err
	}
	if env.Success != nil && !*env.Success {
		return models.Summary{}, &RequestFailed{Op: r.op(), Status: http.StatusOK, Message: failureMessage(http.StatusOK, raw)}
	}
	if env.Data == nil {
		return models.Summary{}, &MalformedResponse{Op: r.op(), Reason: "missing data"}
	}
	if err := check(r.op(), env.Data); err != nil {
		return models.Summary{}, err
	}
	return *env.Data, nil
}
