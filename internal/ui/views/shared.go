package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/listctl"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/suggest"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

// Route identifies a top-level screen
type Route int

const (
	RouteLogin Route = iota
	RouteDashboard
	RouteTasks
	RouteInvites
)

var routeNames = map[Route]string{
	RouteLogin:     "login",
	RouteDashboard: "dashboard",
	RouteTasks:     "tasks",
	RouteInvites:   "invites",
}

func (r Route) String() string {
	return routeNames[r]
}

// ParseRoute is the inverse of Route.String
func ParseRoute(s string) (Route, bool) {
	for r, name := range routeNames {
		if name == s {
			return r, true
		}
	}
	return RouteLogin, false
}

// Protected reports whether the route needs a session
func (r Route) Protected() bool {
	return r != RouteLogin
}

// NavigateMsg asks the app to switch screens
type NavigateMsg struct {
	To Route
}

// Navigate returns a command emitting NavigateMsg
func Navigate(to Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: to} }
}

// LogoutRequested asks the app to end the session
type LogoutRequested struct{}

// Exporter downloads task CSVs
type Exporter interface {
	ExportCSV(ctx context.Context, token string, q models.ListQuery) ([]byte, error)
}

// Deps is what every view shares
type Deps struct {
	Ctx       context.Context
	Store     *store.Store
	List      *listctl.Controller
	Suggest   *suggest.Pipeline
	Exporter  Exporter
	ExportDir string
	Location  *time.Location
}

func (d *Deps) token() string {
	return d.Store.Token()
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func newSpinner() spinner.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Accent)
	return sp
}

// helpLine renders "key desc • key desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s %s", s.HelpKey.Render(pairs[i]), pairs[i+1]))
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// helpPopup renders a boxed list of "key desc" pairs
func helpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, s.HelpKey.Render(fmt.Sprintf("%-8s", pairs[i]))+pairs[i+1])
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, width, height)
}

// navBar renders the top-level navigation with the active route highlighted
func navBar(s *styles.Styles, active Route) string {
	tabs := []struct {
		route Route
		label string
	}{
		{RouteDashboard, "1 Dashboard"},
		{RouteTasks, "2 Tasks"},
		{RouteInvites, "3 Invites"},
	}
	var out []string
	for _, t := range tabs {
		style := s.Nav
		if t.route == active {
			style = s.NavActive
		}
		out = append(out, style.Render(t.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// opLine renders the state of an op: spinner while loading, error when failed
func opLine(s *styles.Styles, sp spinner.Model, op store.Op, loading string) string {
	switch op.Status {
	case store.Loading:
		return sp.View() + " " + s.TitleMuted.Render(loading)
	case store.Failed:
		return s.Error.Render(op.Err)
	}
	return ""
}

func formatDue(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "none"
	}
	return t.In(loc).Format("Jan 2, 2006 15:04")
}
