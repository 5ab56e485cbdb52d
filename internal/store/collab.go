package store

import (
	"context"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/validate"
)

// CollabSlice holds collaborators per task and the user's pending invites.
// All operations share one error slot.
type CollabSlice struct {
	ctx context.Context
	api API

	ByTask         map[string][]models.Collaborator
	LoadingByTask  map[string]bool
	Invites        []models.Invite
	InvitesLoading bool
	Sending        bool
	Err            string
	// Notice is the acknowledgement of the last invite sent
	Notice string
}

type collabAction int

const (
	actionInvite collabAction = iota
	actionUpdateRole
	actionRemove
	actionLeave
	actionAccept
	actionDecline
)

type (
	// CollaboratorsMsg is the result of FetchCollaborators
	CollaboratorsMsg struct {
		TaskID        string
		Collaborators []models.Collaborator
		Err           error
	}
	// InvitesMsg is the result of FetchInvites
	InvitesMsg struct {
		Invites []models.Invite
		Err     error
	}
	// CollabMsg is the result of a collaborator or invite mutation
	CollabMsg struct {
		action      collabAction
		TaskID      string
		UserID      string
		Role        models.Role
		InviteToken string
		Result      api.InviteResult
		Err         error
	}
)

// Invite sends an invitation after checking the address and role locally
func (c *CollabSlice) Invite(token, taskID, toEmail string, role models.Role) tea.Cmd {
	toEmail = strings.TrimSpace(toEmail)
	if err := validate.Invite(toEmail, role); err != nil {
		c.Err = api.Message(err)
		return nil
	}
	c.Err = ""
	c.Notice = ""
	c.Sending = true
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		res, err := client.InviteCollaborator(ctx, token, taskID, toEmail, role)
		return CollabMsg{action: actionInvite, TaskID: taskID, Role: role, Result: res, Err: err}
	}
}

func (c *CollabSlice) FetchCollaborators(token, taskID string) tea.Cmd {
	c.LoadingByTask[taskID] = true
	c.Err = ""
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		list, err := client.ListCollaborators(ctx, token, taskID)
		return CollaboratorsMsg{TaskID: taskID, Collaborators: list, Err: err}
	}
}

// UpdateRole changes a collaborator's role. The cached entry is updated in
// place; a user missing from the cache is left alone.
func (c *CollabSlice) UpdateRole(token, taskID, userID string, role models.Role) tea.Cmd {
	c.Err = ""
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		err := client.UpdateCollaboratorRole(ctx, token, taskID, userID, role)
		return CollabMsg{action: actionUpdateRole, TaskID: taskID, UserID: userID, Role: role, Err: err}
	}
}

func (c *CollabSlice) Remove(token, taskID, userID string) tea.Cmd {
	c.Err = ""
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		err := client.RemoveCollaborator(ctx, token, taskID, userID)
		return CollabMsg{action: actionRemove, TaskID: taskID, UserID: userID, Err: err}
	}
}

// Leave removes the current user from a task and forgets its collaborators
func (c *CollabSlice) Leave(token, taskID string) tea.Cmd {
	c.Err = ""
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		err := client.LeaveTask(ctx, token, taskID)
		return CollabMsg{action: actionLeave, TaskID: taskID, Err: err}
	}
}

func (c *CollabSlice) FetchInvites(token string) tea.Cmd {
	c.InvitesLoading = true
	c.Err = ""
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		list, err := client.ListInvites(ctx, token)
		return InvitesMsg{Invites: list, Err: err}
	}
}

func (c *CollabSlice) Accept(token, inviteToken string) tea.Cmd {
	return c.resolve(token, inviteToken, actionAccept)
}

func (c *CollabSlice) Decline(token, inviteToken string) tea.Cmd {
	return c.resolve(token, inviteToken, actionDecline)
}

func (c *CollabSlice) resolve(token, inviteToken string, action collabAction) tea.Cmd {
	c.Err = ""
	ctx, client := c.ctx, c.api
	return func() tea.Msg {
		var err error
		if action == actionAccept {
			err = client.AcceptInvite(ctx, token, inviteToken)
		} else {
			err = client.DeclineInvite(ctx, token, inviteToken)
		}
		return CollabMsg{action: action, InviteToken: inviteToken, Err: err}
	}
}

func (c *CollabSlice) ClearError() {
	c.Err = ""
}

func (c *CollabSlice) apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case CollaboratorsMsg:
		delete(c.LoadingByTask, msg.TaskID)
		if msg.Err != nil {
			c.Err = api.Message(msg.Err)
			return true
		}
		c.ByTask[msg.TaskID] = uniqueCollaborators(msg.Collaborators)
		return true

	case InvitesMsg:
		c.InvitesLoading = false
		if msg.Err != nil {
			c.Err = api.Message(msg.Err)
			return true
		}
		c.Invites = msg.Invites
		return true

	case CollabMsg:
		if msg.action == actionInvite {
			c.Sending = false
		}
		if msg.Err != nil {
			c.Err = api.Message(msg.Err)
			return true
		}
		c.applyMutation(msg)
		return true
	}
	return false
}

func (c *CollabSlice) applyMutation(msg CollabMsg) {
	switch msg.action {
	case actionInvite:
		c.Notice = msg.Result.Message
		if c.Notice == "" {
			c.Notice = "Invite sent"
		}
	case actionUpdateRole:
		list := c.ByTask[msg.TaskID]
		if i := slices.IndexFunc(list, func(col models.Collaborator) bool { return col.User.ID == msg.UserID }); i >= 0 {
			list[i].Role = msg.Role
		}
	case actionRemove:
		if list, ok := c.ByTask[msg.TaskID]; ok {
			c.ByTask[msg.TaskID] = slices.DeleteFunc(list, func(col models.Collaborator) bool { return col.User.ID == msg.UserID })
		}
	case actionLeave:
		delete(c.ByTask, msg.TaskID)
		delete(c.LoadingByTask, msg.TaskID)
	case actionAccept, actionDecline:
		c.Invites = slices.DeleteFunc(c.Invites, func(inv models.Invite) bool { return inv.Token == msg.InviteToken })
	}
}

// uniqueCollaborators keeps the first entry per user
func uniqueCollaborators(list []models.Collaborator) []models.Collaborator {
	seen := make(map[string]bool, len(list))
	out := make([]models.Collaborator, 0, len(list))
	for _, c := range list {
		if seen[c.User.ID] {
			continue
		}
		seen[c.User.ID] = true
		out = append(out, c)
	}
	return out
}
