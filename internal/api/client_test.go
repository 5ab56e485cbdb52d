package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/api/apitest"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/validate"
)

// serve answers every request with status and body
func serve(t *testing.T, status int, body string) (*api.Client, *http.Request) {
	t.Helper()
	var seen http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r.Clone(context.Background())
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return api.New(srv.URL + "/api"), &seen
}

func TestLoginFlatShape(t *testing.T) {
	c, req := serve(t, http.StatusOK, `{"success":true,"token":"t1","user":{"id":"u1","email":"a@b.com"}}`)

	s, err := c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "t1", s.Token)
	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "/api/auth/login", req.URL.Path)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
}

func TestLoginDataShape(t *testing.T) {
	b := apitest.New()
	c := api.New(b.Start(t))

	s, err := c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.Session{UserID: "u1", Email: "a@b.com", DisplayName: "Test User", Role: "user", Token: "t1"}, s)

	s, err = c.Register(context.Background(), validate.RegisterInput{Name: "New", Email: "n@b.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "u2", s.UserID, "_id is accepted")
	assert.Equal(t, "t2", s.Token)
}

func TestLoginSendsRemember(t *testing.T) {
	b := apitest.New()
	c := api.New(b.Start(t))

	_, err := c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "secret123", Remember: true})
	require.NoError(t, err)
	_, err = c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, b.Remembered())
}

func TestLoginUnauthorized(t *testing.T) {
	b := apitest.New()
	c := api.New(b.Start(t))

	_, err := c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", api.Message(err))
	assert.Equal(t, http.StatusUnauthorized, api.Status(err))
}

func TestLoginMissingToken(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"success":true,"user":{"id":"u1"}}`)

	_, err := c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "secret123"})
	var mr *api.MalformedResponse
	require.ErrorAs(t, err, &mr)
}

func TestSuccessFalseIsFailure(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"success":false,"message":"Account locked"}`)

	_, err := c.Login(context.Background(), validate.LoginInput{Email: "a@b.com", Password: "secret123"})
	var rf *api.RequestFailed
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Account locked", rf.Message)
}

func TestFailureMessagePriority(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message wins", 400, `{"message":"Bad title","error":"ignored"}`, "Bad title"},
		{"error string", 400, `{"error":"Title required"}`, "Title required"},
		{"nested error", 422, `{"error":{"message":"Due date in the past"}}`, "Due date in the past"},
		{"raw text", 502, "upstream exploded\n", "upstream exploded"},
		{"json string", 400, `"plain string"`, "plain string"},
		{"empty body", 500, "", "Request failed with 500 (Internal Server Error)"},
		{"object without message", 404, `{"success":false}`, "Request failed with 404 (Not Found)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, tt.status, tt.body)
			_, err := c.ListTasks(context.Background(), "t1", models.ListQuery{})
			require.Error(t, err)
			assert.Equal(t, tt.want, api.Message(err))
			assert.Equal(t, tt.status, api.Status(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.New(url).GetTask(context.Background(), "t1", "x")
	var te *api.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, strings.HasPrefix(api.Message(err), "Unable to reach the server"))
	assert.Zero(t, api.Status(err))
}

func TestBearerHeaderUniform(t *testing.T) {
	b := apitest.New()
	b.AddTask("one", models.PriorityLow, models.StatusTodo)
	c := api.New(b.Start(t))
	ctx := context.Background()

	_, err := c.ListTasks(ctx, "t1", models.ListQuery{})
	require.NoError(t, err)
	_, err = c.Summary(ctx, "t1")
	require.NoError(t, err)
	_, err = c.Suggest(ctx, "t1", models.SuggestionRequest{Title: "x"})
	require.NoError(t, err)
	_, err = c.ListInvites(ctx, "t1")
	require.NoError(t, err)
	_, err = c.ListCollaborators(ctx, "t1", "task-1")
	require.NoError(t, err)
	_, err = c.ExportCSV(ctx, "t1", models.ListQuery{})
	require.NoError(t, err)

	reqs := b.Requests()
	require.Len(t, reqs, 6)
	for _, r := range reqs {
		assert.Equal(t, "Bearer t1", r.Auth, r.Path)
	}
}

func TestTaskLifecycle(t *testing.T) {
	b := apitest.New()
	c := api.New(b.Start(t))
	ctx := context.Background()

	title := "Write report"
	high := models.PriorityHigh
	created, err := c.CreateTask(ctx, "t1", models.TaskInput{Title: &title, Priority: &high})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.PriorityHigh, created.Priority)

	done := models.StatusDone
	updated, err := c.UpdateTask(ctx, "t1", created.ID, models.TaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, title, updated.Title)

	got, err := c.GetTask(ctx, "t1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, c.DeleteTask(ctx, "t1", created.ID))
	_, err = c.GetTask(ctx, "t1", created.ID)
	assert.Equal(t, "Task not found", api.Message(err))
}

func TestListTasksQueryAndPagination(t *testing.T) {
	b := apitest.New()
	for i := 0; i < 12; i++ {
		b.AddTask("task", models.PriorityLow, models.StatusTodo)
	}
	b.AddTask("urgent", models.PriorityHigh, models.StatusTodo)
	c := api.New(b.Start(t))

	page, err := c.ListTasks(context.Background(), "t1", models.ListQuery{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)

	q := models.ListQuery{Page: 1, PageSize: 10, Filters: models.Filters{Priority: models.PriorityHigh}}
	page, err = c.ListTasks(context.Background(), "t1", q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "urgent", page.Items[0].Title)

	last := b.Requests()[1]
	assert.Equal(t, []string{"high"}, last.Query["priority"])
	assert.Equal(t, []string{"createdAt"}, last.Query["sort"])
	assert.Equal(t, []string{"desc"}, last.Query["order"])
	assert.NotContains(t, last.Query, "status")
}

func TestListTasksMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data", `{"success":true}`},
		{"data not a list", `{"success":true,"data":{"id":"1"}}`},
		{"task without id", `{"success":true,"data":[{"title":"x","priority":"low","status":"todo"}]}`},
		{"bad priority", `{"success":true,"data":[{"id":"1","title":"x","priority":"urgent","status":"todo"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, http.StatusOK, tt.body)
			_, err := c.ListTasks(context.Background(), "t1", models.ListQuery{})
			var mr *api.MalformedResponse
			require.ErrorAs(t, err, &mr)
		})
	}
}

func TestBulkDelete(t *testing.T) {
	b := apitest.New()
	a := b.AddTask("a", models.PriorityLow, models.StatusTodo)
	keep := b.AddTask("b", models.PriorityLow, models.StatusTodo)
	d := b.AddTask("c", models.PriorityLow, models.StatusTodo)
	c := api.New(b.Start(t))

	require.NoError(t, c.BulkDeleteTasks(context.Background(), "t1", []string{a.ID, d.ID}))
	require.Len(t, b.Tasks, 1)
	assert.Equal(t, keep.ID, b.Tasks[0].ID)
	assert.JSONEq(t, `{"ids":["task-1","task-3"]}`, b.Requests()[0].Body)
}

func TestExportCSV(t *testing.T) {
	b := apitest.New()
	b.CSV = "id,title\n1,Write report\n"
	east := time.FixedZone("UTC+2", 2*60*60)
	c := api.New(b.Start(t), api.WithClock(func() time.Time { return time.Now().In(east) }))

	q := models.ListQuery{Page: 3, PageSize: 10, Query: "report"}
	data, err := c.ExportCSV(context.Background(), "t1", q)
	require.NoError(t, err)
	assert.Equal(t, "id,title\n1,Write report\n", string(data))

	r := b.Requests()[0]
	assert.Equal(t, []string{"120"}, r.Query["tzOffsetMinutes"])
	assert.Equal(t, []string{"report"}, r.Query["q"])
	assert.NotContains(t, r.Query, "page")
	assert.NotContains(t, r.Query, "limit")
}

func TestSummary(t *testing.T) {
	b := apitest.New()
	b.Summary = models.Summary{OpenCount: 4, CompletedCount: 2, OverdueCount: 1, ByPriority: models.PriorityCounts{High: 2}}
	c := api.New(b.Start(t))

	s, err := c.Summary(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, b.Summary, s)
	assert.Contains(t, b.Requests()[0].Query, "tzOffsetMin")

	c2, _ := serve(t, http.StatusOK, `{"success":true}`)
	_, err = c2.Summary(context.Background(), "t1")
	var mr *api.MalformedResponse
	assert.ErrorAs(t, err, &mr)
}

func TestSuggestRawObject(t *testing.T) {
	c, req := serve(t, http.StatusOK, `{"priority":"high","suggestedDueDate":"2025-01-03T17:00:00Z","reasons":["deadline mentioned"]}`)

	s, err := c.Suggest(context.Background(), "t1", models.SuggestionRequest{Title: "Ship by Friday"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, s.Priority)
	require.NotNil(t, s.SuggestedDueDate)
	assert.Equal(t, time.Date(2025, 1, 3, 17, 0, 0, 0, time.UTC), s.SuggestedDueDate.UTC())
	assert.Equal(t, []string{"deadline mentioned"}, s.Reasons)
	assert.Equal(t, "/api/suggestions/task-meta", req.URL.Path)
	assert.Equal(t, "Bearer t1", req.Header.Get("Authorization"))
}

func TestSuggestInvalidPriority(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"priority":"asap"}`)

	_, err := c.Suggest(context.Background(), "t1", models.SuggestionRequest{Title: "x"})
	var mr *api.MalformedResponse
	assert.ErrorAs(t, err, &mr)
}

func TestGenerateDescription(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"flat", `{"text":"Flat text"}`, "Flat text", false},
		{"nested", `{"data":{"text":"Nested text"}}`, "Nested text", false},
		{"blank", `{"text":"  "}`, "", true},
		{"no text", `{"result":"x"}`, "", true},
		{"not json", `hello`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, http.StatusOK, tt.body)
			got, err := c.GenerateDescription(context.Background(), "t1", "Title", "")
			if tt.wantErr {
				var mr *api.MalformedResponse
				require.ErrorAs(t, err, &mr)
				assert.Contains(t, api.Message(err), "expected { text }")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollaborators(t *testing.T) {
	b := apitest.New()
	b.Collaborators["task-1"] = []models.Collaborator{
		{User: models.UserRef{ID: "u2", Email: "x@b.com"}, Role: models.RoleViewer},
	}
	c := api.New(b.Start(t))
	ctx := context.Background()

	res, err := c.InviteCollaborator(ctx, "t1", "task-1", "y@b.com", models.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, "inv-1", res.InviteID)

	require.NoError(t, c.UpdateCollaboratorRole(ctx, "t1", "task-1", "u2", models.RoleEditor))
	list, err := c.ListCollaborators(ctx, "t1", "task-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.RoleEditor, list[0].Role)

	require.NoError(t, c.RemoveCollaborator(ctx, "t1", "task-1", "u2"))
	list, err = c.ListCollaborators(ctx, "t1", "task-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, c.LeaveTask(ctx, "t1", "task-1"))
	assert.Equal(t, 1, b.Count(http.MethodPost, "/tasks/task-1/collaborators/leave"))
}

func TestInvites(t *testing.T) {
	b := apitest.New()
	b.Invites = []models.Invite{
		{ID: "i1", Token: "tok-a", Role: models.RoleViewer, Status: models.InvitePending},
		{ID: "i2", Token: "tok-b", Role: models.RoleEditor, Status: models.InvitePending},
	}
	c := api.New(b.Start(t))
	ctx := context.Background()

	list, err := c.ListInvites(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, c.AcceptInvite(ctx, "t1", "tok-a"))
	require.NoError(t, c.DeclineInvite(ctx, "t1", "tok-b"))
	assert.Empty(t, b.Invites)

	err = c.AcceptInvite(ctx, "t1", "tok-a")
	assert.Equal(t, "Invite not found", api.Message(err))
}

func TestListInvitesMissingKey(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"data":[]}`)

	_, err := c.ListInvites(context.Background(), "t1")
	var mr *api.MalformedResponse
	assert.ErrorAs(t, err, &mr)
}

func TestLogoutFailure(t *testing.T) {
	b := apitest.New()
	b.Fail(http.MethodPost, "/auth/logout", http.StatusInternalServerError, `{"message":"boom"}`)
	c := api.New(b.Start(t))

	_, err := c.Logout(context.Background(), "t1")
	assert.Equal(t, "boom", api.Message(err))

	b.Heal(http.MethodPost, "/auth/logout")
	msg, err := c.Logout(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Logged out", msg)
}

func TestMessageOfValidationError(t *testing.T) {
	err := validate.Login(&validate.LoginInput{})
	assert.Equal(t, "Email is required", api.Message(err))
	assert.Equal(t, "custom", api.Message(errors.New("custom")))
	assert.Empty(t, api.Message(nil))
}
