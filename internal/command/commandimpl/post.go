package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minhanh2104/snapfeed-cli/internal/domain"
	"github.com/minhanh2104/snapfeed-cli/internal/feed"
	"github.com/minhanh2104/snapfeed-cli/internal/router"
	"github.com/minhanh2104/snapfeed-cli/pkg/formatter"
)

func (c *CommandImpl) showFeed(ctx context.Context) error {
	if !c.guard(router.RouteHome) {
		return nil
	}

	if err := c.Feed.Load(ctx); err != nil {
		return err
	}

	posts := c.Feed.Posts()
	if len(posts) == 0 {
		fmt.Fprintln(c.out, "no posts yet")
		return nil
	}
	for _, p := range posts {
		heart := " "
		if p.Liked {
			heart = "♥"
		}
		fmt.Fprintf(c.out, "%-10s %s %6s  %s — %s\n",
			p.ID, heart, formatter.FormatNumber(p.LikesCount),
			p.Title, formatter.Truncate(p.Description, 60))
	}
	return nil
}

func (c *CommandImpl) viewPost(id string) error {
	if !c.guard(router.RouteHome) {
		return nil
	}
	if id == "" {
		fmt.Fprintln(c.out, "usage: view <id>")
		return nil
	}

	post, err := c.Feed.View(domain.PostID(id))
	if err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			fmt.Fprintf(c.out, "no post with id %s\n", id)
			return nil
		}
		return err
	}

	fmt.Fprintf(c.out, "%s\n%s\n", post.Title, post.Description)
	if post.Location != "" {
		fmt.Fprintf(c.out, "Location: %s\n", post.Location)
	}
	fmt.Fprintf(c.out, "Likes: %s\nImage: %s\n",
		formatter.FormatNumber(post.LikesCount), formatter.Truncate(post.Image, 80))
	return nil
}

func (c *CommandImpl) toggleLike(ctx context.Context, id string) error {
	if !c.guard(router.RouteHome) {
		return nil
	}
	if id == "" {
		fmt.Fprintln(c.out, "usage: like <id>")
		return nil
	}

	err := c.Feed.ToggleLike(ctx, domain.PostID(id))
	if errors.Is(err, feed.ErrPostNotFound) {
		fmt.Fprintf(c.out, "no post with id %s\n", id)
		return nil
	}
	return err
}

func (c *CommandImpl) createPost(ctx context.Context, rest string) error {
	if !c.guard(router.RouteHome) {
		return nil
	}

	input, err := c.parsePostInput(rest)
	if err != nil {
		fmt.Fprintln(c.out, err.Error())
		return nil
	}
	return c.Feed.Create(ctx, input)
}

func (c *CommandImpl) editPost(ctx context.Context, id, rest string) error {
	if !c.guard(router.RouteHome) {
		return nil
	}
	if id == "" {
		fmt.Fprintln(c.out, "usage: edit <id> <title> | <description> | [location] | [image path]")
		return nil
	}

	input, err := c.parsePostInput(rest)
	if err != nil {
		fmt.Fprintln(c.out, err.Error())
		return nil
	}
	return c.Feed.Edit(ctx, domain.PostID(id), input)
}

func (c *CommandImpl) deletePost(ctx context.Context, id string) error {
	if !c.guard(router.RouteHome) {
		return nil
	}
	if id == "" {
		fmt.Fprintln(c.out, "usage: delete <id>")
		return nil
	}
	return c.Feed.Delete(ctx, domain.PostID(id))
}

// parsePostInput parses "title | description | [location] | [image path]",
// reading the image file when a path is given.
func (c *CommandImpl) parsePostInput(rest string) (domain.PostInput, error) {
	parts := strings.Split(rest, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return domain.PostInput{}, errors.New("expected: <title> | <description> | [location] | [image path]")
	}

	input := domain.PostInput{
		Title:       parts[0],
		Description: parts[1],
	}
	if len(parts) > 2 {
		input.Location = parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		data, err := os.ReadFile(parts[3])
		if err != nil {
			return domain.PostInput{}, fmt.Errorf("cannot read image %s: %w", parts[3], err)
		}
		input.Image = &domain.ImageAttachment{
			FileName: filepath.Base(parts[3]),
			Data:     data,
		}
	}
	return input, nil
}
