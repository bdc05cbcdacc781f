package api

import (
	"context"

	"github.com/minhanh2104/snapfeed-cli/internal/domain"
)

// Client exposes one operation per backend endpoint. Every call attaches the
// stored bearer token when present, classifies failures uniformly and always
// re-signals the classified error to the caller.
//
//go:generate go run go.uber.org/mock/mockgen -source=api.go -destination=mocks/mock.go -package=mocks
type Client interface {
	Signup(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*UserResponse, error)

	FetchPosts(ctx context.Context) (*PostsResponse, error)
	FetchPostByID(ctx context.Context, id domain.PostID) (*PostResponse, error)
	CreatePost(ctx context.Context, input domain.PostInput) error
	UpdatePost(ctx context.Context, id domain.PostID, input domain.PostInput) (*PostResponse, error)
	DeletePost(ctx context.Context, id domain.PostID) error
	LikePost(ctx context.Context, id domain.PostID) error
	DislikePost(ctx context.Context, id domain.PostID) error
}

// LoginResponse is the POST /login success body.
type LoginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// PostsResponse is the GET /user/posts/1 success body.
type PostsResponse struct {
	Data struct {
		Posts []domain.Post `json:"posts"`
	} `json:"data"`
}

// PostResponse is the body of endpoints returning a single post. The post is
// a patch: fields the server omits stay nil.
type PostResponse struct {
	Data struct {
		Post domain.PostPatch `json:"post"`
	} `json:"data"`
}

// UserResponse is the GET /user success body.
type UserResponse struct {
	Data struct {
		User domain.User `json:"user"`
	} `json:"data"`
}
