package feedimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/internal/domain"
	"github.com/minhanh2104/snapfeed-cli/internal/feed"
	"github.com/minhanh2104/snapfeed-cli/internal/notify"
	"github.com/minhanh2104/snapfeed-cli/internal/ratelimit"
	"github.com/minhanh2104/snapfeed-cli/internal/storage"
	"github.com/minhanh2104/snapfeed-cli/pkg/apperrors"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	API      api.Client
	Storage  storage.Repository
	Notifier notify.Notifier
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
}

type FeedImpl struct {
	API      api.Client
	Storage  storage.Repository
	Notifier notify.Notifier
	Limiter  ratelimit.Limiter
	Logger   logger.Logger

	validate *validator.Validate

	mu    sync.Mutex
	posts []domain.Post
}

func New(opts Opts) *FeedImpl {
	return &FeedImpl{
		API:      opts.API,
		Storage:  opts.Storage,
		Notifier: opts.Notifier,
		Limiter:  opts.Limiter,
		Logger:   opts.Logger.WithComponent("Feed"),
		validate: validator.New(),
	}
}

var _ feed.Client = (*FeedImpl)(nil)

// Load replaces the list with the first page of the user's posts
func (f *FeedImpl) Load(ctx context.Context) error {
	resp, err := f.API.FetchPosts(ctx)
	if err != nil {
		f.Notifier.Error("Failed to fetch posts")
		f.mu.Lock()
		f.posts = nil
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.posts = resp.Data.Posts
	f.mu.Unlock()
	return nil
}

// Posts returns a snapshot of the current list
func (f *FeedImpl) Posts() []domain.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]domain.Post, len(f.posts))
	copy(snapshot, f.posts)
	return snapshot
}

// ToggleLike flips the liked flag of the matching post, moving likes_count
// in lock-step
func (f *FeedImpl) ToggleLike(ctx context.Context, id domain.PostID) error {
	f.mu.Lock()
	liked, found := false, false
	for i := range f.posts {
		if f.posts[i].ID == id {
			liked = f.posts[i].Liked
			found = true
			break
		}
	}
	f.mu.Unlock()

	if !found {
		return feed.ErrPostNotFound
	}

	// Rapid repeated toggles would double-submit; excess ones are dropped.
	if !f.Limiter.Allow(string(id)) {
		f.Logger.Debug("Toggle dropped by limiter", "post_id", id)
		return nil
	}

	var err error
	if liked {
		err = f.API.DislikePost(ctx, id)
	} else {
		err = f.API.LikePost(ctx, id)
	}
	if err != nil {
		f.Notifier.Error("Failed to toggle like/dislike")
		return err
	}

	f.mu.Lock()
	for i := range f.posts {
		if f.posts[i].ID != id {
			continue
		}
		// The delta is derived from the element's own pre-mutation flag.
		if f.posts[i].Liked {
			f.posts[i].LikesCount--
		} else {
			f.posts[i].LikesCount++
		}
		f.posts[i].Liked = !liked
	}
	f.mu.Unlock()
	return nil
}

// Create submits a new post and always appends a local fallback record
func (f *FeedImpl) Create(ctx context.Context, input domain.PostInput) error {
	if err := f.validate.Struct(input); err != nil {
		f.Notifier.Error("Title and description are required")
		return apperrors.Wrap(err, "invalid post input")
	}

	var apiErr error
	if input.Image != nil {
		apiErr = f.API.CreatePost(ctx, input)
	}

	local := domain.LocalPost{
		ID:           fmt.Sprintf("local_%d", time.Now().UnixMilli()),
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		ImagePreview: input.Image.DataURI(),
	}
	if err := f.Storage.AppendLocalPost(ctx, local); err != nil {
		f.Logger.Error("Failed to append local fallback record", "error", err)
	}

	if apiErr != nil {
		// The local record exists, so a server failure is only a warning.
		f.Notifier.Warning("Could not create post via server. Saved locally.")
		return nil
	}

	f.Notifier.Success("Post created successfully")
	go func() {
		if err := f.Load(context.Background()); err != nil {
			f.Logger.Warn("Post-create reload failed", "error", err)
		}
	}()
	return nil
}

// Edit updates a post and merges the server-returned fields in place
func (f *FeedImpl) Edit(ctx context.Context, id domain.PostID, input domain.PostInput) error {
	if err := f.validate.Struct(input); err != nil {
		f.Notifier.Error("Title and description are required")
		return apperrors.Wrap(err, "invalid post input")
	}

	resp, err := f.API.UpdatePost(ctx, id, input)
	if err != nil {
		f.Notifier.Error("Failed to update post")
		return err
	}

	f.mu.Lock()
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].Apply(resp.Data.Post)
		}
	}
	f.mu.Unlock()

	f.Notifier.Success("Post updated successfully")
	return nil
}

// Delete removes the matching post after server confirmation
func (f *FeedImpl) Delete(ctx context.Context, id domain.PostID) error {
	if err := f.API.DeletePost(ctx, id); err != nil {
		// The interceptor already produced its notice; the call site adds
		// a more specific second one.
		switch {
		case apperrors.IsForbidden(err):
			f.Notifier.Error("You are not authorized to delete this post.")
		case apperrors.IsAuthExpired(err):
			f.Notifier.Error("Your session has expired. Please log in again.")
		default:
			f.Notifier.Error("Failed to delete post")
		}
		return err
	}

	f.mu.Lock()
	kept := f.posts[:0]
	for _, p := range f.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.posts = kept
	f.mu.Unlock()

	f.Notifier.Success("Post deleted successfully")
	return nil
}

// View returns the matching post without a network call
func (f *FeedImpl) View(id domain.PostID) (domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Post{}, feed.ErrPostNotFound
}
