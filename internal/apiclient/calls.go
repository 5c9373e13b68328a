package apiclient

import (
	"context"
	"net/http"

	"github.com/mcoot/bvzombies/internal/endpoints"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

// Login checks credentials. The caller decides whether to persist the token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthEnvelope, error) {
	resp, err := c.Fetch(ctx, c.endpoints.Endpoint(endpoints.Login), Options{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Login failed")
	}

	var envelope model.AuthEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthEnvelope, error) {
	resp, err := c.Fetch(ctx, c.endpoints.Endpoint(endpoints.Register), Options{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Registration failed")
	}

	var envelope model.AuthEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Profile fetches the current user's profile
func (c *Client) Profile(ctx context.Context, tokens tokenstore.Store) (*model.User, error) {
	resp, err := c.Authorized(ctx, tokens, c.endpoints.Endpoint(endpoints.Profile), Options{})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Failed to fetch user profile")
	}

	var envelope model.UserEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	if envelope.User == nil {
		return nil, &APIError{Status: resp.StatusCode, Msg: "Failed to fetch user profile"}
	}
	return envelope.User, nil
}

// UpdateProfile changes the display name
func (c *Client) UpdateProfile(ctx context.Context, tokens tokenstore.Store, displayName string) (*model.User, error) {
	resp, err := c.Authorized(ctx, tokens, c.endpoints.Endpoint(endpoints.Profile), Options{
		Method: http.MethodPut,
		Body:   model.UpdateProfileRequest{DisplayName: displayName},
	})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Failed to update profile")
	}

	var envelope model.UserEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return envelope.User, nil
}

// GameAccess asks whether the current user may play
func (c *Client) GameAccess(ctx context.Context, tokens tokenstore.Store) (*model.GameEnvelope, error) {
	resp, err := c.Authorized(ctx, tokens, c.endpoints.Endpoint(endpoints.Game), Options{})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Game access denied")
	}

	var envelope model.GameEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Stats fetches statistics for a user
func (c *Client) Stats(ctx context.Context, tokens tokenstore.Store, userID model.UserID) (*model.GameStats, error) {
	resp, err := c.Authorized(ctx, tokens, c.endpoints.Stats(string(userID)), Options{})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Failed to fetch statistics")
	}

	var envelope model.StatsEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Stats, nil
}

// List fetches one of the public listings (leaderboard, game stats, scores)
func (c *Client) List(ctx context.Context, key endpoints.Key) (*model.ListEnvelope, error) {
	resp, err := c.Fetch(ctx, c.endpoints.Endpoint(key), Options{})
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp, "Request failed")
	}

	var envelope model.ListEnvelope
	if err := decodeJSON(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Health reports the status string of the API's health check
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.Fetch(ctx, c.endpoints.BaseURL()+"/health", Options{})
	if err != nil {
		return "", err
	}
	if !ok(resp) {
		return "", errorFromResponse(resp, "Health check failed")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(resp, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}
