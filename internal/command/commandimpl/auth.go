package commandimpl

import (
	"context"
	"fmt"

	"github.com/minhanh2104/snapfeed-cli/internal/router"
	"github.com/minhanh2104/snapfeed-cli/pkg/apperrors"
)

func (c *CommandImpl) logIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		fmt.Fprintln(c.out, "usage: login <email> <password>")
		return nil
	}
	if !c.guard(router.RouteLogin) {
		return nil
	}

	resp, err := c.API.Login(ctx, email, password)
	if err != nil {
		c.Notifier.Error("Login Failed: " + apperrors.GetMessage(err))
		return err
	}
	if err := c.Session.Set(resp.Data.Token); err != nil {
		return err
	}

	c.Notifier.Success("Login Successful")
	c.Router.Navigate(router.RouteRoot)
	return c.Feed.Load(ctx)
}

func (c *CommandImpl) signUp(ctx context.Context, name, email, password string) error {
	if !c.guard(router.RouteSignup) {
		return nil
	}

	if err := c.API.Signup(ctx, name, email, password); err != nil {
		c.Notifier.Error("Signup Failed: " + apperrors.GetMessage(err))
		return err
	}

	c.Notifier.Success("Signup Successful")
	c.Router.Navigate(router.RouteLogin)
	return nil
}

func (c *CommandImpl) logOut(ctx context.Context) error {
	if err := c.API.Logout(ctx); err != nil {
		c.Notifier.Error("Logout failed: " + apperrors.GetMessage(err))
		return err
	}

	if err := c.Session.Clear(); err != nil {
		return err
	}
	c.Notifier.Success("Logged out successfully")
	c.Router.Navigate(router.RouteLogin)
	return nil
}

func (c *CommandImpl) whoAmI(ctx context.Context) error {
	if !c.guard(router.RouteHome) {
		return nil
	}

	resp, err := c.API.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s <%s>\n", resp.Data.User.Name, resp.Data.User.Email)
	return nil
}
