package store

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/session"
	"github.com/tgienger/taskdesk/internal/validate"
)

// AuthSlice holds the current session
type AuthSlice struct {
	ctx    context.Context
	api    API
	tokens TokenStore

	Session *models.Session
	Op      Op
	// Message is the backend's acknowledgement of the last logout
	Message string
}

// LoginMsg is the result of Login or Register
type LoginMsg struct {
	Session  models.Session
	Err      error
	Register bool
}

// LogoutMsg is the result of Logout
type LogoutMsg struct {
	Message string
	Err     error
}

// Token returns the session credential, or ""
func (a *AuthSlice) Token() string {
	if a.Session == nil {
		return ""
	}
	return a.Session.Token
}

// Authenticated reports whether a session is held
func (a *AuthSlice) Authenticated() bool {
	return a.Token() != ""
}

// Login validates in and, if it passes, exchanges it for a session.
// A validation failure settles the slice immediately with no request.
func (a *AuthSlice) Login(in validate.LoginInput) tea.Cmd {
	if err := validate.Login(&in); err != nil {
		a.Op.fail(err)
		return nil
	}
	a.Op.start()
	ctx, client := a.ctx, a.api
	return func() tea.Msg {
		s, err := client.Login(ctx, in)
		return LoginMsg{Session: s, Err: err}
	}
}

// Register validates in and creates an account
func (a *AuthSlice) Register(in validate.RegisterInput) tea.Cmd {
	if err := validate.Register(&in); err != nil {
		a.Op.fail(err)
		return nil
	}
	a.Op.start()
	ctx, client := a.ctx, a.api
	return func() tea.Msg {
		s, err := client.Register(ctx, in)
		return LoginMsg{Session: s, Err: err, Register: true}
	}
}

// Logout ends the session. Local state is cleared when the call
// completes, whether or not the backend accepted it.
func (a *AuthSlice) Logout() tea.Cmd {
	token := a.Token()
	if token == "" {
		token = a.tokens.Get()
	}
	a.Op.start()
	ctx, client := a.ctx, a.api
	return func() tea.Msg {
		msg, err := client.Logout(ctx, token)
		return LogoutMsg{Message: msg, Err: err}
	}
}

// Hydrate restores a session from the persisted token. The restored
// session carries only the token and, for JWTs, the subject claim.
// A token that is already expired is discarded.
func (a *AuthSlice) Hydrate(now time.Time) bool {
	token := a.tokens.Get()
	if token == "" {
		return false
	}
	if session.Expired(token, now) {
		log.Printf("[auth] stored token expired, discarding")
		a.tokens.Clear()
		return false
	}
	a.Session = &models.Session{UserID: session.Subject(token), Token: token}
	return true
}

// ClearError resets a failed op back to idle
func (a *AuthSlice) ClearError() {
	if a.Op.Status == Failed {
		a.Op = Op{}
	}
}

func (a *AuthSlice) apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case LoginMsg:
		if msg.Err != nil {
			a.Session = nil
			a.Op.fail(msg.Err)
			return true
		}
		s := msg.Session
		a.Session = &s
		a.tokens.Set(s.Token)
		a.Op.succeed()
		log.Printf("[auth] signed in as %s", s.UserID)
		return true

	case LogoutMsg:
		a.Session = nil
		a.tokens.Clear()
		a.Message = msg.Message
		a.Op.settle(msg.Err)
		if msg.Err != nil {
			log.Printf("[auth] remote logout failed: %v", msg.Err)
		}
		return true
	}
	return false
}
