package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/validate"
)

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Token string `json:"token,omitempty"`
}

func (u *userDTO) UnmarshalJSON(data []byte) error {
	type plain userDTO
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = userDTO(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, in validate.LoginInput) (models.Session, error) {
	return c.authenticate(ctx, request{method: http.MethodPost, path: "/auth/login", body: in})
}

// Register creates an account and returns its session
func (c *Client) Register(ctx context.Context, in validate.RegisterInput) (models.Session, error) {
	return c.authenticate(ctx, request{method: http.MethodPost, path: "/auth/register", body: in})
}

func (c *Client) authenticate(ctx context.Context, r request) (models.Session, error) {
	env, err := c.callEnvelope(ctx, r)
	if err != nil {
		return models.Session{}, err
	}

	var u userDTO
	switch {
	case len(env.Data) > 0 && string(env.Data) != "null":
		if err := decodeJSON(r.op(), env.Data, &u); err != nil {
			return models.Session{}, err
		}
	case len(env.User) > 0:
		if err := decodeJSON(r.op(), env.User, &u); err != nil {
			return models.Session{}, err
		}
	}
	if u.Token == "" {
		u.Token = env.Token
	}

	s := models.Session{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.Name,
		Role:        u.Role,
		Token:       u.Token,
	}
	if err := check(r.op(), s); err != nil {
		return models.Session{}, err
	}
	return s, nil
}

// Logout ends the server-side session
func (c *Client) Logout(ctx context.Context, token string) (string, error) {
	env, err := c.callEnvelope(ctx, request{
		method: http.MethodPost,
		path:   "/auth/logout",
		body:   struct{}{},
		token:  token,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
