package feed

import (
	"context"
	"errors"

	"github.com/minhanh2104/snapfeed-cli/internal/domain"
)

var ErrPostNotFound = errors.New("post not found in feed")

// Client orchestrates the in-memory post store against the backend. The
// rendered list only ever holds server-confirmed posts; the local fallback
// list written on create is backup storage and is never read back into view.
type Client interface {
	// Load replaces the list with the first page of the user's posts
	Load(ctx context.Context) error

	// Posts returns a snapshot of the current list
	Posts() []domain.Post

	// ToggleLike flips the liked flag of the matching post, moving
	// likes_count in lock-step
	ToggleLike(ctx context.Context, id domain.PostID) error

	// Create submits a new post and always appends a local fallback record
	Create(ctx context.Context, input domain.PostInput) error

	// Edit updates a post and merges the server-returned fields in place
	Edit(ctx context.Context, id domain.PostID, input domain.PostInput) error

	// Delete removes the matching post after server confirmation
	Delete(ctx context.Context, id domain.PostID) error

	// View returns the matching post without a network call
	View(id domain.PostID) (domain.Post, error)
}
