package apiclient

import (
	"context"
	"net/http"

	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/pkg/apperrors"
)

type signupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Impl) Signup(ctx context.Context, name, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/signup", signupPayload{
		Name:     name,
		Email:    email,
		Password: password,
	}, nil)
}

func (c *Impl) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	var out api.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", loginPayload{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data.Token == "" {
		return nil, apperrors.Wrap(apperrors.ErrBadResponse, "login response carries no token")
	}
	return &out, nil
}

func (c *Impl) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *Impl) CurrentUser(ctx context.Context) (*api.UserResponse, error) {
	var out api.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
