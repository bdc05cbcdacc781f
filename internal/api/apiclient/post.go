package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/internal/domain"
)

func (c *Impl) FetchPosts(ctx context.Context) (*api.PostsResponse, error) {
	var out api.PostsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/user/posts/1", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Impl) FetchPostByID(ctx context.Context, id domain.PostID) (*api.PostResponse, error) {
	var out api.PostResponse
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Impl) CreatePost(ctx context.Context, input domain.PostInput) error {
	return c.doMultipart(ctx, http.MethodPost, "/posts", input, nil)
}

func (c *Impl) UpdatePost(ctx context.Context, id domain.PostID, input domain.PostInput) (*api.PostResponse, error) {
	var out api.PostResponse
	err := c.doMultipart(ctx, http.MethodPost, "/posts-update/"+escape(id), input, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Impl) DeletePost(ctx context.Context, id domain.PostID) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts-delete/"+escape(id), nil, nil)
}

func (c *Impl) LikePost(ctx context.Context, id domain.PostID) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/like", escape(id)), nil, nil)
}

func (c *Impl) DislikePost(ctx context.Context, id domain.PostID) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/dislike", escape(id)), nil, nil)
}

func escape(id domain.PostID) string {
	return url.PathEscape(string(id))
}
