package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tgienger/taskdesk/internal/models"
)

// Suggest asks for priority/due-date metadata for a draft. The response
// is the bare suggestion object, not an envelope.
func (c *Client) Suggest(ctx context.Context, token string, req models.SuggestionRequest) (models.Suggestion, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	r := request{method: http.MethodPost, path: "/suggestions/task-meta", body: req, token: token}
	raw, err := c.call(ctx, r)
	if err != nil {
		return models.Suggestion{}, err
	}
	var s models.Suggestion
	if err := decodeJSON(r.op(), raw, &s); err != nil {
		return models.Suggestion{}, err
	}
	if err := check(r.op(), s); err != nil {
		return models.Suggestion{}, err
	}
	return s, nil
}

// GenerateDescription asks the AI endpoint to draft a task description.
// Both {text} and {data:{text}} are accepted.
func (c *Client) GenerateDescription(ctx context.Context, token, title, hint string) (string, error) {
	body := struct {
		Title   string `json:"title"`
		Context string `json:"context,omitempty"`
	}{Title: title, Context: hint}
	r := request{method: http.MethodPost, path: "/ai/generate", body: body, token: token}
	raw, err := c.call(ctx, r)
	if err != nil {
		return "", err
	}

	var resp struct {
		Text string `json:"text"`
		Data *struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &MalformedResponse{Op: r.op(), Reason: "expected { text }"}
	}
	switch {
	case strings.TrimSpace(resp.Text) != "":
		return resp.Text, nil
	case resp.Data != nil && strings.TrimSpace(resp.Data.Text) != "":
		return resp.Data.Text, nil
	}
	return "", &MalformedResponse{Op: r.op(), Reason: "expected { text }"}
}
