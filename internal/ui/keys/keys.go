package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by every view
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Enter    key.Binding
	Back     key.Binding
	Quit     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Save     key.Binding
	Help     key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Select key.Binding
	Bulk   key.Binding
	Search key.Binding
	Filter key.Binding
	Export key.Binding
	Reload key.Binding

	Generate key.Binding
	Apply    key.Binding
	Share    key.Binding
	Role     key.Binding
	Remove   key.Binding
	Leave    key.Binding
	Accept   key.Binding
	Decline  key.Binding

	Dashboard key.Binding
	Tasks     key.Binding
	Invites   key.Binding
	Logout    key.Binding
	Switch    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Select: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Bulk:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export csv")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		Generate: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "ai description")),
		Apply:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "apply suggestion")),
		Share:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Role:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "toggle role")),
		Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Leave:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "leave")),
		Accept:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept")),
		Decline:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "decline")),

		Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tasks:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tasks")),
		Invites:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "invites")),
		Logout:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
		Switch:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
	}
}
