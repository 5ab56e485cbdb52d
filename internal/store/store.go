// Package store holds the client-side entity slices. Operations mark a
// slice loading and return a tea.Cmd that performs the request; the
// result message is applied by Store.Update on the event loop, so all
// slice state is mutated from a single goroutine and the last completion
// wins when requests race.
package store

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/validate"
)

// API is the part of the remote client the slices use
type API interface {
	Login(ctx context.Context, in validate.LoginInput) (models.Session, error)
	Register(ctx context.Context, in validate.RegisterInput) (models.Session, error)
	Logout(ctx context.Context, token string) (string, error)

	ListTasks(ctx context.Context, token string, q models.ListQuery) (models.TaskPage, error)
	GetTask(ctx context.Context, token, id string) (models.Task, error)
	CreateTask(ctx context.Context, token string, in models.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, token, id string, in models.TaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, token, id string) error
	BulkDeleteTasks(ctx context.Context, token string, ids []string) error
	Summary(ctx context.Context, token string) (models.Summary, error)

	Suggest(ctx context.Context, token string, req models.SuggestionRequest) (models.Suggestion, error)

	InviteCollaborator(ctx context.Context, token, taskID, toEmail string, role models.Role) (api.InviteResult, error)
	ListCollaborators(ctx context.Context, token, taskID string) ([]models.Collaborator, error)
	UpdateCollaboratorRole(ctx context.Context, token, taskID, userID string, role models.Role) error
	RemoveCollaborator(ctx context.Context, token, taskID, userID string) error
	LeaveTask(ctx context.Context, token, taskID string) error
	ListInvites(ctx context.Context, token string) ([]models.Invite, error)
	AcceptInvite(ctx context.Context, token, inviteToken string) error
	DeclineInvite(ctx context.Context, token, inviteToken string) error
}

// TokenStore persists the bearer credential across restarts
type TokenStore interface {
	Get() string
	Set(token string)
	Clear()
}

// Store aggregates every slice
type Store struct {
	Auth       *AuthSlice
	Tasks      *TasksSlice
	Summary    *SummarySlice
	Suggestion *SuggestionSlice
	Collab     *CollabSlice
}

// New wires the slices to client. ctx bounds every request the slices issue.
func New(ctx context.Context, client API, tokens TokenStore) *Store {
	return &Store{
		Auth:       &AuthSlice{ctx: ctx, api: client, tokens: tokens},
		Tasks:      &TasksSlice{ctx: ctx, api: client},
		Summary:    &SummarySlice{ctx: ctx, api: client},
		Suggestion: &SuggestionSlice{ctx: ctx, api: client},
		Collab: &CollabSlice{
			ctx:           ctx,
			api:           client,
			ByTask:        map[string][]models.Collaborator{},
			LoadingByTask: map[string]bool{},
		},
	}
}

// Token is the credential of the current session, or ""
func (s *Store) Token() string {
	return s.Auth.Token()
}

// Update applies a result message. It reports whether msg belonged to a slice.
func (s *Store) Update(msg tea.Msg) bool {
	return s.Auth.apply(msg) ||
		s.Tasks.apply(msg) ||
		s.Summary.apply(msg) ||
		s.Suggestion.apply(msg) ||
		s.Collab.apply(msg)
}
