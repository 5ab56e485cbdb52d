package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

// DashboardView shows the task summary
type DashboardView struct {
	deps    *Deps
	styles  *styles.Styles
	keys    keys.KeyMap
	spinner spinner.Model

	width  int
	height int

	showHelpPopup bool
}

func NewDashboardView(deps *Deps) *DashboardView {
	return &DashboardView{
		deps:    deps,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		spinner: newSpinner(),
	}
}

func (v *DashboardView) Init() tea.Cmd {
	return tea.Batch(v.deps.Store.Summary.Load(v.deps.token()), v.spinner.Tick)
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
		case key.Matches(msg, v.keys.Reload):
			return v, tea.Batch(v.deps.Store.Summary.Load(v.deps.token()), v.spinner.Tick)
		case key.Matches(msg, v.keys.Tasks), key.Matches(msg, v.keys.Enter):
			return v, Navigate(RouteTasks)
		case key.Matches(msg, v.keys.Invites):
			return v, Navigate(RouteInvites)
		case key.Matches(msg, v.keys.Logout):
			return v, func() tea.Msg { return LogoutRequested{} }
		}
	}
	return v, nil
}

func (v *DashboardView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return helpPopup(s, v.width, v.height,
			"r", "reload summary",
			"↵ / 2", "open tasks",
			"3", "invitations",
			"ctrl+l", "log out",
			"q", "quit",
		)
	}

	summary := v.deps.Store.Summary
	greeting := "Dashboard"
	if sess := v.deps.Store.Auth.Session; sess != nil && (sess.DisplayName != "" || sess.Email != "") {
		name := sess.DisplayName
		if name == "" {
			name = sess.Email
		}
		greeting = "Welcome back, " + name
	}

	var body string
	if summary.Data == nil {
		body = opLine(s, v.spinner, summary.Op, "Loading summary...")
		if body == "" {
			body = s.TitleMuted.Render("No data yet")
		}
	} else {
		body = v.renderSummary(*summary.Data)
		if line := opLine(s, v.spinner, summary.Op, "Refreshing..."); line != "" {
			body += "\n\n" + line
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		navBar(s, RouteDashboard),
		"",
		s.Title.Render(greeting),
		"",
		body,
		"",
		helpLine(s, "r", "reload", "↵", "tasks", "ctrl+l", "log out", "?", "help", "q", "quit"),
	)
	return styles.CenterView(lipgloss.NewStyle().Padding(1, 2).Render(content), v.width, v.height)
}

func (v *DashboardView) card(label string, value int, color lipgloss.Color) string {
	s := v.styles
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.TitleMuted.Render(label),
		s.CardValue.Foreground(color).Render(fmt.Sprintf("%d", value)),
	))
}

func (v *DashboardView) renderSummary(sum models.Summary) string {
	t := styles.Current
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		v.card("Open", sum.OpenCount, t.Accent),
		v.card("Completed", sum.CompletedCount, t.Success),
		v.card("Due today", sum.DueTodayCount, t.Warning),
		v.card("Overdue", sum.OverdueCount, t.Error),
	)
	if styles.ContentWidth(v.width) < 72 {
		top = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top,
				v.card("Open", sum.OpenCount, t.Accent),
				v.card("Completed", sum.CompletedCount, t.Success)),
			lipgloss.JoinHorizontal(lipgloss.Top,
				v.card("Due today", sum.DueTodayCount, t.Warning),
				v.card("Overdue", sum.OverdueCount, t.Error)),
		)
	}

	s := v.styles
	byPriority := lipgloss.JoinHorizontal(lipgloss.Top,
		s.PriorityBadge(models.PriorityHigh), fmt.Sprintf("%d  ", sum.ByPriority.High),
		s.PriorityBadge(models.PriorityMedium), fmt.Sprintf("%d  ", sum.ByPriority.Medium),
		s.PriorityBadge(models.PriorityLow), fmt.Sprintf("%d", sum.ByPriority.Low),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		"",
		s.TitleMuted.Render("Open by priority"),
		byPriority,
		"",
		s.TitleMuted.Render("Completed in the last 7 days: ")+s.CardValue.Render(fmt.Sprintf("%d", sum.Velocity7d)),
	)
}
