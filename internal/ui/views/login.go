package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdesk/internal/store"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
	"github.com/tgienger/taskdesk/internal/validate"
)

const (
	loginEmail = iota
	loginPassword
	loginRemember
	loginSubmit
	loginFields
)

const (
	regName = iota
	regEmail
	regPassword
	regConfirm
	regAccept
	regSubmit
	regFields
)

// LoginView signs in or registers
type LoginView struct {
	deps    *Deps
	styles  *styles.Styles
	keys    keys.KeyMap
	spinner spinner.Model

	width  int
	height int

	registering bool
	focusIdx    int
	email       textinput.Model
	password    textinput.Model
	name        textinput.Model
	confirm     textinput.Model
	accept      bool
	remember    bool
}

func NewLoginView(deps *Deps) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 100

	confirm := textinput.New()
	confirm.Placeholder = "Confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 128

	v := &LoginView{
		deps:     deps,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		spinner:  newSpinner(),
		email:    email,
		password: password,
		name:     name,
		confirm:  confirm,
		remember: true,
	}
	v.updateFocus()
	return v
}

func (v *LoginView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.spinner.Tick)
}

func (v *LoginView) fieldCount() int {
	if v.registering {
		return regFields
	}
	return loginFields
}

func (v *LoginView) submitIdx() int {
	if v.registering {
		return regSubmit
	}
	return loginSubmit
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *LoginView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	auth := v.deps.Store.Auth
	if auth.Op.Loading() {
		if msg.String() == "ctrl+c" {
			return v, tea.Quit
		}
		return v, nil
	}

	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Switch):
		v.registering = !v.registering
		v.focusIdx = 0
		auth.ClearError()
		v.updateFocus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Save):
		return v, v.submit()

	case key.Matches(msg, v.keys.ShiftTab), msg.String() == "up":
		v.focusIdx = (v.focusIdx + v.fieldCount() - 1) % v.fieldCount()
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab), msg.String() == "down":
		v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == v.submitIdx() {
			return v, v.submit()
		}
		if v.toggle() {
			return v, nil
		}
		v.focusIdx++
		v.updateFocus()
		return v, nil

	case msg.String() == " " && v.toggle():
		return v, nil
	}

	var cmd tea.Cmd
	if in := v.focused(); in != nil {
		*in, cmd = in.Update(msg)
	}
	return v, cmd
}

// toggle flips the checkbox under the cursor, if any
func (v *LoginView) toggle() bool {
	switch {
	case v.registering && v.focusIdx == regAccept:
		v.accept = !v.accept
	case !v.registering && v.focusIdx == loginRemember:
		v.remember = !v.remember
	default:
		return false
	}
	return true
}

func (v *LoginView) focused() *textinput.Model {
	if v.registering {
		switch v.focusIdx {
		case regName:
			return &v.name
		case regEmail:
			return &v.email
		case regPassword:
			return &v.password
		case regConfirm:
			return &v.confirm
		}
		return nil
	}
	switch v.focusIdx {
	case loginEmail:
		return &v.email
	case loginPassword:
		return &v.password
	}
	return nil
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	v.name.Blur()
	v.confirm.Blur()
	if in := v.focused(); in != nil {
		in.Focus()
	}
}

func (v *LoginView) submit() tea.Cmd {
	auth := v.deps.Store.Auth
	var cmd tea.Cmd
	if v.registering {
		cmd = auth.Register(validate.RegisterInput{
			Name:            v.name.Value(),
			Email:           v.email.Value(),
			Password:        v.password.Value(),
			ConfirmPassword: v.confirm.Value(),
			Accept:          v.accept,
		})
	} else {
		cmd = auth.Login(validate.LoginInput{
			Email:    v.email.Value(),
			Password: v.password.Value(),
			Remember: v.remember,
		})
	}
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, v.spinner.Tick)
}

// Reset clears the form, e.g. after logout
func (v *LoginView) Reset() {
	v.password.Reset()
	v.confirm.Reset()
	v.accept = false
	v.remember = true
	v.focusIdx = 0
	v.updateFocus()
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	checkbox := func(idx int, on bool, label string) []string {
		box := "[ ]"
		if on {
			box = "[x]"
		}
		style := s.ListItem
		if v.focusIdx == idx {
			style = s.ListSelected
		}
		return []string{style.Render(box + " " + label), ""}
	}

	field := func(idx int, label string, in textinput.Model) []string {
		style := s.Input
		if v.focusIdx == idx {
			style = s.InputFocused
		}
		return []string{label, style.Width(inputWidth).Render(in.View()), ""}
	}

	title := "Sign in"
	var rows []string
	if v.registering {
		title = "Create account"
		rows = append(rows, field(regName, "Name:", v.name)...)
		rows = append(rows, field(regEmail, "Email:", v.email)...)
		rows = append(rows, field(regPassword, "Password:", v.password)...)
		rows = append(rows, field(regConfirm, "Confirm password:", v.confirm)...)
		rows = append(rows, checkbox(regAccept, v.accept, "I accept the terms")...)
	} else {
		rows = append(rows, field(loginEmail, "Email:", v.email)...)
		rows = append(rows, field(loginPassword, "Password:", v.password)...)
		rows = append(rows, checkbox(loginRemember, v.remember, "Remember me")...)
	}

	btnStyle := s.Button
	if v.focusIdx == v.submitIdx() {
		btnStyle = s.ButtonFocused
	}
	label := " Sign in "
	if v.registering {
		label = " Register "
	}
	rows = append(rows, btnStyle.Render(label))

	status := opLine(s, v.spinner, v.deps.Store.Auth.Op, "Signing in...")
	if v.deps.Store.Auth.Op.Status == store.Loading && v.registering {
		status = opLine(s, v.spinner, v.deps.Store.Auth.Op, "Creating account...")
	}

	other := "register"
	if v.registering {
		other = "sign in"
	}
	form := lipgloss.JoinVertical(lipgloss.Left,
		append(append([]string{s.Title.Render("taskdesk · " + title), ""}, rows...),
			"",
			status,
			s.TitleMuted.Render("Tab: next • ↵: submit • Ctrl+R: "+other+" • Ctrl+C: quit"),
		)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
