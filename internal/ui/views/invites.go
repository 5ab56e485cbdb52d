package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

type inviteItem struct {
	invite models.Invite
}

func (i inviteItem) Title() string {
	if i.invite.Task != nil && i.invite.Task.Title != "" {
		return i.invite.Task.Title
	}
	return "Untitled task"
}

func (i inviteItem) Description() string {
	return fmt.Sprintf("from %s as %s", i.invite.FromUser.DisplayName(), i.invite.Role)
}

func (i inviteItem) FilterValue() string { return i.Title() }

type inviteDelegate struct {
	styles *styles.Styles
	width  int
}

func (d inviteDelegate) Height() int                               { return 2 }
func (d inviteDelegate) Spacing() int                              { return 1 }
func (d inviteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d inviteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(inviteItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	titleStyle := d.styles.ListItem.Width(width)
	descStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if index == m.Index() {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(it.Title()), descStyle.Render(it.Description()))
}

// InvitesView lists the invitations addressed to the user
type InvitesView struct {
	deps     *Deps
	list     list.Model
	delegate *inviteDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	spinner  spinner.Model
	width    int
	height   int

	showHelpPopup bool
}

func NewInvitesView(deps *Deps) *InvitesView {
	s := styles.NewStyles()
	delegate := &inviteDelegate{styles: s, width: styles.MaxWidth}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Invitations"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &InvitesView{
		deps:     deps,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		spinner:  newSpinner(),
	}
}

func (v *InvitesView) Init() tea.Cmd {
	v.syncItems()
	return tea.Batch(v.deps.Store.Collab.FetchInvites(v.deps.token()), v.spinner.Tick)
}

func (v *InvitesView) syncItems() {
	invites := v.deps.Store.Collab.Invites
	items := make([]list.Item, len(invites))
	for i, inv := range invites {
		items[i] = inviteItem{invite: inv}
	}
	v.list.SetItems(items)
}

func (v *InvitesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-8)
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case store.InvitesMsg, store.CollabMsg:
		v.syncItems()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		token := v.deps.token()
		collab := v.deps.Store.Collab
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Dashboard):
			return v, Navigate(RouteDashboard)
		case key.Matches(msg, v.keys.Tasks):
			return v, Navigate(RouteTasks)
		case key.Matches(msg, v.keys.Logout):
			return v, func() tea.Msg { return LogoutRequested{} }
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Reload):
			return v, tea.Batch(collab.FetchInvites(token), v.spinner.Tick)
		case key.Matches(msg, v.keys.Accept):
			if item, ok := v.list.SelectedItem().(inviteItem); ok {
				return v, collab.Accept(token, item.invite.Token)
			}
			return v, nil
		case key.Matches(msg, v.keys.Decline):
			if item, ok := v.list.SelectedItem().(inviteItem); ok {
				return v, collab.Decline(token, item.invite.Token)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders the view
func (v *InvitesView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return helpPopup(s, v.width, v.height,
			"a", "accept invite",
			"x", "decline invite",
			"r", "reload",
			"esc", "dashboard",
			"q", "quit",
		)
	}

	collab := v.deps.Store.Collab
	var body string
	switch {
	case collab.InvitesLoading && len(collab.Invites) == 0:
		body = v.spinner.View() + " " + s.TitleMuted.Render("Loading invitations...")
	case len(collab.Invites) == 0:
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Invitations"),
			"",
			s.TitleMuted.Render("No pending invitations"),
		)
	default:
		body = v.list.View()
	}

	status := ""
	if collab.Err != "" {
		status = s.Error.Render(collab.Err)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		navBar(s, RouteInvites),
		"",
		body,
		status,
		v.renderHelp(),
	)
	return styles.CenterView(lipgloss.NewStyle().Padding(0, 2).Render(content), v.width, v.height)
}

func (v *InvitesView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return helpLine(v.styles, "?", "help")
	}
	return helpLine(v.styles, "a", "accept", "x", "decline", "r", "reload", "esc", "back", "q", "quit")
}
