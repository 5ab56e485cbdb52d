package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Role of a collaborator on a task
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor
}

// InviteStatus tracks an invitation's lifecycle
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

// UserRef is the public part of another user
type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

func (u *UserRef) UnmarshalJSON(data []byte) error {
	type plain UserRef
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = UserRef(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// DisplayName picks the friendliest identifier available
func (u UserRef) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	}
	return u.ID
}

// TaskRef is the minimal task reference embedded in an invite
type TaskRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (t *TaskRef) UnmarshalJSON(data []byte) error {
	type plain TaskRef
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*t = TaskRef(aux.plain)
	if t.ID == "" {
		t.ID = aux.MongoID
	}
	return nil
}

// Collaborator is a user with access to a task
type Collaborator struct {
	User    UserRef   `json:"user"`
	Role    Role      `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

func (c Collaborator) Validate() error {
	if c.User.ID == "" {
		return errors.New("collaborator: missing user id")
	}
	if !c.Role.Valid() {
		return fmt.Errorf("collaborator %s: invalid role %q", c.User.ID, c.Role)
	}
	return nil
}

// Invite is a pending or resolved collaboration invitation
type Invite struct {
	ID        string       `json:"id"`
	FromUser  UserRef      `json:"fromUser"`
	ToEmail   string       `json:"toEmail"`
	Role      Role         `json:"role"`
	Task      *TaskRef     `json:"task,omitempty"`
	Status    InviteStatus `json:"status"`
	Token     string       `json:"token"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (i *Invite) UnmarshalJSON(data []byte) error {
	type plain Invite
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = Invite(aux.plain)
	if i.ID == "" {
		i.ID = aux.MongoID
	}
	return nil
}

func (i Invite) Validate() error {
	if i.Token == "" {
		return errors.New("invite: missing token")
	}
	if !i.Role.Valid() {
		return fmt.Errorf("invite %s: invalid role %q", i.ID, i.Role)
	}
	return nil
}
