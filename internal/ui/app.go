package ui

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/debounce"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/ui/views"
)

// LastViewKey remembers the screen to reopen on the next start
const LastViewKey = "last_view"

// Settings is the durable key/value storage of the app
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type App struct {
	deps     *views.Deps
	settings Settings
	route    views.Route

	login     *views.LoginView
	dashboard *views.DashboardView
	tasks     *views.TaskListView
	invites   *views.InvitesView

	width  int
	height int
}

// Creates a new application
func NewApp(deps *views.Deps, settings Settings) *App {
	return &App{
		deps:      deps,
		settings:  settings,
		route:     views.RouteLogin,
		login:     views.NewLoginView(deps),
		dashboard: views.NewDashboardView(deps),
		tasks:     views.NewTaskListView(deps),
		invites:   views.NewInvitesView(deps),
	}
}

// Route is the screen currently shown
func (a *App) Route() views.Route {
	return a.route
}

func (a *App) Init() tea.Cmd {
	start := views.RouteDashboard
	if last, err := a.settings.GetSetting(LastViewKey); err == nil && last != "" {
		if r, ok := views.ParseRoute(last); ok {
			start = r
		}
	}
	return a.navigate(start)
}

// navigate switches screens. Protected screens require a session and the
// login screen is skipped once signed in.
func (a *App) navigate(to views.Route) tea.Cmd {
	authed := a.deps.Store.Auth.Authenticated()
	switch {
	case to.Protected() && !authed:
		to = views.RouteLogin
	case to == views.RouteLogin && authed:
		to = views.RouteDashboard
	}
	a.route = to

	if to != views.RouteLogin {
		if err := a.settings.SetSetting(LastViewKey, to.String()); err != nil {
			log.Printf("[app] saving last view: %v", err)
		}
	}
	return a.current().Init()
}

func (a *App) current() tea.Model {
	switch a.route {
	case views.RouteDashboard:
		return a.dashboard
	case views.RouteTasks:
		return a.tasks
	case views.RouteInvites:
		return a.invites
	}
	return a.login
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// every screen keeps its size while hidden
		a.login.Update(msg)
		a.dashboard.Update(msg)
		a.tasks.Update(msg)
		a.invites.Update(msg)
		return a, nil

	case views.NavigateMsg:
		return a, a.navigate(msg.To)

	case views.LogoutRequested:
		return a, a.deps.Store.Auth.Logout()

	case debounce.FiredMsg:
		if cmd, ok := a.deps.Suggest.Update(msg); ok {
			return a, cmd
		}
		if cmd, ok := a.deps.List.Update(msg); ok {
			return a, cmd
		}
		return a, nil
	}

	var cmds []tea.Cmd
	if a.deps.Store.Update(msg) {
		switch msg := msg.(type) {
		case store.LoginMsg:
			if msg.Err == nil {
				a.login.Reset()
				cmds = append(cmds,
					a.deps.List.SetToken(a.deps.Store.Token()),
					a.navigate(views.RouteDashboard),
				)
			}
		case store.LogoutMsg:
			a.deps.List.SetToken("")
			a.deps.Suggest.Stop()
			a.login.Reset()
			cmds = append(cmds, a.navigate(views.RouteLogin))
		}
	}
	a.deps.Suggest.Update(msg)

	_, cmd := a.current().Update(msg)
	return a, tea.Batch(append(cmds, cmd)...)
}

func (a *App) View() string {
	return a.current().View()
}
