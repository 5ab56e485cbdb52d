package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tgienger/taskdesk/internal/models"
)

func collaboratorsPath(taskID string) string {
	return taskPath(taskID) + "/collaborators"
}

func invitePath(inviteToken, action string) string {
	return "/tasks/invites/" + url.PathEscape(inviteToken) + "/" + action
}

// InviteResult is the backend's acknowledgement of an invitation
type InviteResult struct {
	Message  string `json:"message"`
	InviteID string `json:"inviteId,omitempty"`
}

// InviteCollaborator invites toEmail to a task with role
func (c *Client) InviteCollaborator(ctx context.Context, token, taskID, toEmail string, role models.Role) (InviteResult, error) {
	body := struct {
		ToEmail string      `json:"toEmail"`
		Role    models.Role `json:"role"`
	}{ToEmail: toEmail, Role: role}
	r := request{method: http.MethodPost, path: collaboratorsPath(taskID) + "/invite", body: body, token: token}
	raw, err := c.call(ctx, r)
	if err != nil {
		return InviteResult{}, err
	}
	var res InviteResult
	// the acknowledgement is informational; an empty body is fine
	_ = json.Unmarshal(raw, &res)
	return res, nil
}

// ListCollaborators lists who has access to a task
func (c *Client) ListCollaborators(ctx context.Context, token, taskID string) ([]models.Collaborator, error) {
	r := request{method: http.MethodGet, path: collaboratorsPath(taskID), token: token}
	raw, err := c.call(ctx, r)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Collaborators *[]models.Collaborator `json:"collaborators"`
	}
	if err := decodeJSON(r.op(), raw, &resp); err != nil {
		return nil, err
	}
	if resp.Collaborators == nil {
		return nil, &MalformedResponse{Op: r.op(), Reason: "missing collaborators"}
	}
	for _, col := range *resp.Collaborators {
		if err := check(r.op(), col); err != nil {
			return nil, err
		}
	}
	return *resp.Collaborators, nil
}

// UpdateCollaboratorRole changes a collaborator's role on a task
func (c *Client) UpdateCollaboratorRole(ctx context.Context, token, taskID, userID string, role models.Role) error {
	body := struct {
		Role models.Role `json:"role"`
	}{Role: role}
	_, err := c.call(ctx, request{
		method: http.MethodPatch,
		path:   collaboratorsPath(taskID) + "/" + url.PathEscape(userID),
		body:   body,
		token:  token,
	})
	return err
}

// RemoveCollaborator revokes a user's access to a task
func (c *Client) RemoveCollaborator(ctx context.Context, token, taskID, userID string) error {
	_, err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   collaboratorsPath(taskID) + "/" + url.PathEscape(userID),
		token:  token,
	})
	return err
}

// LeaveTask removes the current user from a shared task
func (c *Client) LeaveTask(ctx context.Context, token, taskID string) error {
	_, err := c.call(ctx, request{method: http.MethodPost, path: collaboratorsPath(taskID) + "/leave", token: token})
	return err
}

// ListInvites lists invitations addressed to the current user
func (c *Client) ListInvites(ctx context.Context, token string) ([]models.Invite, error) {
	r := request{method: http.MethodGet, path: "/tasks/invites", token: token}
	raw, err := c.call(ctx, r)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Invites *[]models.Invite `json:"invites"`
	}
	if err := decodeJSON(r.op(), raw, &resp); err != nil {
		return nil, err
	}
	if resp.Invites == nil {
		return nil, &MalformedResponse{Op: r.op(), Reason: "missing invites"}
	}
	for _, inv := range *resp.Invites {
		if err := check(r.op(), inv); err != nil {
			return nil, err
		}
	}
	return *resp.Invites, nil
}

// AcceptInvite accepts the invitation identified by inviteToken
func (c *Client) AcceptInvite(ctx context.Context, token, inviteToken string) error {
	_, err := c.call(ctx, request{method: http.MethodPost, path: invitePath(inviteToken, "accept"), token: token})
	return err
}

// DeclineInvite declines the invitation identified by inviteToken
func (c *Client) DeclineInvite(ctx context.Context, token, inviteToken string) error {
	_, err := c.call(ctx, request{method: http.MethodPost, path: invitePath(inviteToken, "decline"), token: token})
	return err
}
