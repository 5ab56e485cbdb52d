// Package apitest provides an in-memory task backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/tgienger/taskdesk/internal/models"
)

// Recorded is one request seen by the backend
type Recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Auth   string
	Body   string
}

type failure struct {
	status int
	body   string
}

// Backend is a fake of the remote task API, mounted under /api
type Backend struct {
	mu sync.Mutex

	// Token is handed out on login and required on task routes
	Token    string
	Password string
	User     models.UserRef

	Tasks         []models.Task
	Collaborators map[string][]models.Collaborator
	Invites       []models.Invite
	Suggestion    models.Suggestion
	Summary       models.Summary
	GeneratedText string
	CSV           string

	requests []Recorded
	remember []bool
	failures map[string]failure
	nextID   int
	now      time.Time
}

// New returns a backend with one known user (a@b.com / secret123)
func New() *Backend {
	return &Backend{
		Token:         "t1",
		Password:      "secret123",
		User:          models.UserRef{ID: "u1", Email: "a@b.com", Name: "Test User"},
		Collaborators: map[string][]models.Collaborator{},
		Suggestion:    models.Suggestion{Priority: models.PriorityMedium, Reasons: []string{"default"}},
		GeneratedText: "Generated description.",
		CSV:           "id,title\n",
		failures:      map[string]failure{},
		now:           time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Start serves the backend until the test ends and returns the API base URL
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// Fail makes every request to method+path (relative to /api) answer with
// status and body until Heal is called
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, body: body}
}

// Heal removes an injected failure
func (b *Backend) Heal(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+path)
}

// Requests returns a copy of everything received so far
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// Remembered returns the remember flag of every login attempt
func (b *Backend) Remembered() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bool(nil), b.remember...)
}

// Count returns how many requests hit method+path
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// AddTask seeds a task and returns it
func (b *Backend) AddTask(title string, p models.Priority, s models.Status) models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.newTask(title, p, s)
	b.Tasks = append(b.Tasks, t)
	return t
}

func (b *Backend) newTask(title string, p models.Priority, s models.Status) models.Task {
	b.nextID++
	b.now = b.now.Add(time.Minute)
	return models.Task{
		ID:        fmt.Sprintf("task-%d", b.nextID),
		Title:     title,
		Priority:  p,
		Status:    s,
		CreatedAt: b.now,
		UpdatedAt: b.now,
	}
}

// Router builds the HTTP routes. Literal task sub-routes are registered
// before /tasks/{id} so they are not captured as ids.
func (b *Backend) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.record, b.inject)
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", b.logout).Methods(http.MethodPost)
	api.HandleFunc("/ai/generate", b.generate).Methods(http.MethodPost)
	api.HandleFunc("/suggestions/task-meta", b.authed(b.suggest)).Methods(http.MethodPost)

	api.HandleFunc("/tasks/summary", b.authed(b.summary)).Methods(http.MethodGet)
	api.HandleFunc("/tasks/export.csv", b.authed(b.export)).Methods(http.MethodGet)
	api.HandleFunc("/tasks/invites", b.authed(b.listInvites)).Methods(http.MethodGet)
	api.HandleFunc("/tasks/invites/{token}/{action:accept|decline}", b.authed(b.resolveInvite)).Methods(http.MethodPost)

	api.HandleFunc("/tasks", b.authed(b.listTasks)).Methods(http.MethodGet)
	api.HandleFunc("/tasks", b.authed(b.createTask)).Methods(http.MethodPost)
	api.HandleFunc("/tasks", b.authed(b.bulkDelete)).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}", b.authed(b.getTask)).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", b.authed(b.updateTask)).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}", b.authed(b.deleteTask)).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/{id}/collaborators", b.authed(b.listCollaborators)).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/collaborators/invite", b.authed(b.invite)).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/collaborators/leave", b.authed(b.leave)).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/collaborators/{userId}", b.authed(b.updateRole)).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}/collaborators/{userId}", b.authed(b.removeCollaborator)).Methods(http.MethodDelete)

	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		b.mu.Unlock()
		if ok {
			w.WriteHeader(f.status)
			io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func ok(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Remember bool   `json:"remember"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	b.remember = append(b.remember, in.Remember)
	b.mu.Unlock()
	if in.Email != b.User.Email || in.Password != b.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, ok(map[string]any{
		"id": b.User.ID, "email": b.User.Email, "name": b.User.Name, "role": "user", "token": b.Token,
	}))
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	writeJSON(w, http.StatusCreated, ok(map[string]any{
		"_id": "u2", "email": in.Email, "name": in.Name, "role": "user", "token": "t2",
	}))
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (b *Backend) generate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"text": b.GeneratedText}})
}

func (b *Backend) suggest(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.Suggestion)
}

func (b *Backend) summary(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Summary})
}

func (b *Backend) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	io.WriteString(w, b.CSV)
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := r.URL.Query()
	var matched []models.Task
	for _, t := range b.Tasks {
		if s := q.Get("status"); s != "" && string(t.Status) != s {
			continue
		}
		if p := q.Get("priority"); p != "" && string(t.Priority) != p {
			continue
		}
		if text := q.Get("q"); text != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(text)) {
			continue
		}
		matched = append(matched, t)
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))
	totalPages := max(1, (len(matched)+limit-1)/limit)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       append([]models.Task{}, matched[start:end]...),
		"total":      len(matched),
		"page":       page,
		"totalPages": totalPages,
	})
}

func (b *Backend) find(id string) int {
	for i, t := range b.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Task not found"})
}

func (b *Backend) getTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(mux.Vars(r)["id"])
	if i < 0 {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, ok(b.Tasks[i]))
}

func applyInput(t *models.Task, in models.TaskInput) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "title is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.newTask("", models.PriorityMedium, models.StatusTodo)
	applyInput(&t, in)
	b.Tasks = append([]models.Task{t}, b.Tasks...)
	writeJSON(w, http.StatusCreated, ok(t))
}

func (b *Backend) updateTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(mux.Vars(r)["id"])
	if i < 0 {
		notFound(w)
		return
	}
	applyInput(&b.Tasks[i], in)
	b.now = b.now.Add(time.Minute)
	b.Tasks[i].UpdatedAt = b.now
	writeJSON(w, http.StatusOK, ok(b.Tasks[i]))
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(mux.Vars(r)["id"])
	if i < 0 {
		notFound(w)
		return
	}
	b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *Backend) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDs []string `json:"ids"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range in.IDs {
		drop[id] = true
	}
	kept := b.Tasks[:0]
	for _, t := range b.Tasks {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	b.Tasks = kept
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *Backend) listCollaborators(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.Collaborators[mux.Vars(r)["id"]]
	if list == nil {
		list = []models.Collaborator{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"collaborators": list})
}

func (b *Backend) invite(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ToEmail string      `json:"toEmail"`
		Role    models.Role `json:"role"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	if !in.Role.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid role"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Invite sent to " + in.ToEmail, "inviteId": "inv-1"})
}

func (b *Backend) leave(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Left task"})
}

func (b *Backend) updateRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Role models.Role `json:"role"`
	}
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	vars := mux.Vars(r)
	for i, c := range b.Collaborators[vars["id"]] {
		if c.User.ID == vars["userId"] {
			b.Collaborators[vars["id"]][i].Role = in.Role
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Role updated"})
}

func (b *Backend) removeCollaborator(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	vars := mux.Vars(r)
	list := b.Collaborators[vars["id"]]
	kept := list[:0]
	for _, c := range list {
		if c.User.ID != vars["userId"] {
			kept = append(kept, c)
		}
	}
	b.Collaborators[vars["id"]] = kept
	writeJSON(w, http.StatusOK, map[string]any{"message": "Removed"})
}

func (b *Backend) listInvites(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.Invites
	if list == nil {
		list = []models.Invite{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"invites": list})
}

func (b *Backend) resolveInvite(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	vars := mux.Vars(r)
	for i, inv := range b.Invites {
		if inv.Token == vars["token"] {
			b.Invites = append(b.Invites[:i], b.Invites[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"message": "Invite " + vars["action"] + "ed"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Invite not found"})
}
