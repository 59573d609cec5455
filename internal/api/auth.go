package api

import (
	"context"
	"net/http"

	"menucli/internal/model"
)

// InvalidCredentialsMessage is the exact server message that distinguishes a
// rejected email/password pair from any other login failure.
const InvalidCredentialsMessage = "Invalid user credentials"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/logout", nil, nil)
}

// Me returns the server's canonical identity for the current bearer token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
