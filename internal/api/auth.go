package api

import (
	"context"
	"fmt"

	"github.com/tvnguyen/homeland/internal/model"
)

// LoginResult holds the credential and profile returned by a successful
// login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// loginRequest is the POST body for the login endpoint.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST body for end-user registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Login exchanges an email/password pair for a bearer token. On success
// the token is installed on the client for subsequent requests.
func (c *Client) Login(
	ctx context.Context,
	email, password string,
) (*LoginResult, error) {
	var result LoginResult
	err := c.post(ctx, "/api/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	c.SetToken(result.Token)
	return &result, nil
}

// Register creates a new end-user account. The caller still needs to log
// in afterwards; the backend does not return a token on registration.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.post(ctx, "/api/auth/register/user", req, nil); err != nil {
		return fmt.Errorf("registering account: %w", err)
	}
	return nil
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/auth/me", &user); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &user, nil
}
