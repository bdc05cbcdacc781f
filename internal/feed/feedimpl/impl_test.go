package feedimpl

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/internal/api/mocks"
	"github.com/minhanh2104/snapfeed-cli/internal/domain"
	"github.com/minhanh2104/snapfeed-cli/internal/feed"
	"github.com/minhanh2104/snapfeed-cli/internal/storage"
	"github.com/minhanh2104/snapfeed-cli/pkg/apperrors"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/mock/gomock"
)

type memRepo struct {
	mu     sync.Mutex
	values map[string]string
	local  []domain.LocalPost
}

func newMemRepo() *memRepo {
	return &memRepo{values: map[string]string{}}
}

func (r *memRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (r *memRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *memRepo) AppendLocalPost(_ context.Context, post domain.LocalPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local = append(r.local, post)
	return nil
}

func (r *memRepo) LocalPosts(context.Context) ([]domain.LocalPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.LocalPost, len(r.local))
	copy(out, r.local)
	return out, nil
}

func (r *memRepo) ClearLocalPosts(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local = nil
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) Success(msg string) { n.record("success: " + msg) }
func (n *recordingNotifier) Warning(msg string) { n.record("warning: " + msg) }
func (n *recordingNotifier) Error(msg string)   { n.record("error: " + msg) }

func (n *recordingNotifier) record(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, msg)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.notices))
	copy(out, n.notices)
	return out
}

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type fixture struct {
	feed     *FeedImpl
	api      *mocks.MockClient
	repo     *memRepo
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	apiMock := mocks.NewMockClient(ctrl)
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	f := New(Opts{
		API:      apiMock,
		Storage:  repo,
		Notifier: notifier,
		Limiter:  allowAll{},
		Logger:   logger.New(logger.Opts{}),
	})
	return &fixture{feed: f, api: apiMock, repo: repo, notifier: notifier}
}

func postsResponse(posts ...domain.Post) *api.PostsResponse {
	resp := &api.PostsResponse{}
	resp.Data.Posts = posts
	return resp
}

func TestLoadReplacesListWholesale(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "old"}}

	fx.api.EXPECT().FetchPosts(gomock.Any()).Return(postsResponse(
		domain.Post{ID: "1", Title: "a"},
		domain.Post{ID: "2", Title: "b"},
	), nil)

	if err := fx.feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	posts := fx.feed.Posts()
	if len(posts) != 2 || posts[0].ID != "1" || posts[1].ID != "2" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestLoadFailureLeavesListEmpty(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "old"}}

	fx.api.EXPECT().FetchPosts(gomock.Any()).Return(nil, apperrors.ErrServerFault)

	if err := fx.feed.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := fx.feed.Posts(); len(got) != 0 {
		t.Errorf("posts = %+v, want empty", got)
	}
	notices := fx.notifier.all()
	if len(notices) != 1 || notices[0] != "error: Failed to fetch posts" {
		t.Errorf("notices = %v", notices)
	}
}

func TestToggleLikeRoundTrip(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "1", Liked: false, LikesCount: 3}}

	fx.api.EXPECT().LikePost(gomock.Any(), domain.PostID("1")).Return(nil)
	if err := fx.feed.ToggleLike(context.Background(), "1"); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	got := fx.feed.Posts()[0]
	if !got.Liked || got.LikesCount != 4 {
		t.Errorf("after like: liked=%v count=%d, want true/4", got.Liked, got.LikesCount)
	}

	fx.api.EXPECT().DislikePost(gomock.Any(), domain.PostID("1")).Return(nil)
	if err := fx.feed.ToggleLike(context.Background(), "1"); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	got = fx.feed.Posts()[0]
	if got.Liked || got.LikesCount != 3 {
		t.Errorf("after dislike: liked=%v count=%d, want false/3", got.Liked, got.LikesCount)
	}
	if got.LikesCount < 0 {
		t.Error("likes_count went negative")
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "1"}}

	err := fx.feed.ToggleLike(context.Background(), "404")
	if !errors.Is(err, feed.ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

func TestToggleLikeFailureLeavesStateUntouched(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "1", Liked: false, LikesCount: 3}}

	fx.api.EXPECT().LikePost(gomock.Any(), domain.PostID("1")).Return(apperrors.ErrServerFault)

	if err := fx.feed.ToggleLike(context.Background(), "1"); err == nil {
		t.Fatal("expected error")
	}
	got := fx.feed.Posts()[0]
	if got.Liked || got.LikesCount != 3 {
		t.Errorf("state mutated on failure: %+v", got)
	}
}

func TestToggleLikeDroppedByLimiter(t *testing.T) {
	fx := newFixture(t)
	fx.feed.Limiter = denyAll{}
	fx.feed.posts = []domain.Post{{ID: "1", LikesCount: 3}}

	// No API expectation: a dropped toggle must not reach the backend.
	if err := fx.feed.ToggleLike(context.Background(), "1"); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if got := fx.feed.Posts()[0]; got.Liked || got.LikesCount != 3 {
		t.Errorf("dropped toggle mutated state: %+v", got)
	}
}

var localIDPattern = regexp.MustCompile(`^local_\d+$`)

func TestCreateWithFailingServerStillWritesFallback(t *testing.T) {
	fx := newFixture(t)

	fx.api.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(apperrors.ErrServerFault)

	input := domain.PostInput{
		Title:       "Sunset",
		Description: "Over the bay",
		Image:       &domain.ImageAttachment{FileName: "s.png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	}
	if err := fx.feed.Create(context.Background(), input); err != nil {
		t.Fatalf("Create must downgrade server failure, got %v", err)
	}

	local, err := fx.repo.LocalPosts(context.Background())
	if err != nil {
		t.Fatalf("LocalPosts: %v", err)
	}
	if len(local) != 1 {
		t.Fatalf("local records = %d, want 1", len(local))
	}
	if !localIDPattern.MatchString(local[0].ID) {
		t.Errorf("local id = %q, want local_<timestamp>", local[0].ID)
	}
	if local[0].ImagePreview == "" {
		t.Error("local record has no data-URI preview")
	}
	if local[0].Liked || local[0].LikesCount != 0 {
		t.Errorf("fresh local record = %+v", local[0])
	}

	notices := fx.notifier.all()
	if len(notices) != 1 || notices[0] != "warning: Could not create post via server. Saved locally." {
		t.Errorf("notices = %v", notices)
	}
}

func TestCreateSuccessReloadsAsynchronously(t *testing.T) {
	fx := newFixture(t)

	fx.api.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(nil)

	reloaded := make(chan struct{})
	fx.api.EXPECT().FetchPosts(gomock.Any()).DoAndReturn(func(context.Context) (*api.PostsResponse, error) {
		close(reloaded)
		return postsResponse(), nil
	})

	input := domain.PostInput{
		Title:       "Sunset",
		Description: "Over the bay",
		Image:       &domain.ImageAttachment{FileName: "s.png", Data: []byte{1}},
	}
	if err := fx.feed.Create(context.Background(), input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("authoritative reload never happened")
	}

	local, _ := fx.repo.LocalPosts(context.Background())
	if len(local) != 1 {
		t.Errorf("local records = %d, want 1 on success too", len(local))
	}
}

func TestCreateWithoutImageSkipsServer(t *testing.T) {
	fx := newFixture(t)

	reloaded := make(chan struct{})
	fx.api.EXPECT().FetchPosts(gomock.Any()).DoAndReturn(func(context.Context) (*api.PostsResponse, error) {
		close(reloaded)
		return postsResponse(), nil
	})

	// No CreatePost expectation: the multipart call only happens with an image.
	if err := fx.feed.Create(context.Background(), domain.PostInput{Title: "t", Description: "d"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload never happened")
	}

	local, _ := fx.repo.LocalPosts(context.Background())
	if len(local) != 1 || local[0].ImagePreview != "" {
		t.Errorf("local records = %+v", local)
	}
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	fx := newFixture(t)

	if err := fx.feed.Create(context.Background(), domain.PostInput{Description: "d"}); err == nil {
		t.Fatal("expected validation error")
	}
	local, _ := fx.repo.LocalPosts(context.Background())
	if len(local) != 0 {
		t.Errorf("invalid input still wrote %d local records", len(local))
	}
}

func strPtr(s string) *string { return &s }

func TestEditMergesOnlyReturnedFields(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{
		{ID: "7", Title: "old", Description: "keep me", Location: "keep too", LikesCount: 5, Liked: true},
		{ID: "8", Title: "other"},
	}

	resp := &api.PostResponse{}
	resp.Data.Post = domain.PostPatch{Title: strPtr("new title")}
	fx.api.EXPECT().UpdatePost(gomock.Any(), domain.PostID("7"), gomock.Any()).Return(resp, nil)

	err := fx.feed.Edit(context.Background(), "7", domain.PostInput{Title: "new title", Description: "keep me"})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	got := fx.feed.Posts()[0]
	if got.Title != "new title" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description != "keep me" || got.Location != "keep too" || got.LikesCount != 5 || !got.Liked {
		t.Errorf("fields absent from the response were clobbered: %+v", got)
	}
	if other := fx.feed.Posts()[1]; other.Title != "other" {
		t.Errorf("unrelated post touched: %+v", other)
	}
}

func TestEditFailureLeavesPriorState(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "7", Title: "old"}}

	fx.api.EXPECT().UpdatePost(gomock.Any(), domain.PostID("7"), gomock.Any()).Return(nil, apperrors.ErrServerFault)

	if err := fx.feed.Edit(context.Background(), "7", domain.PostInput{Title: "x", Description: "y"}); err == nil {
		t.Fatal("expected error")
	}
	if got := fx.feed.Posts()[0]; got.Title != "old" {
		t.Errorf("state mutated on failure: %+v", got)
	}
	notices := fx.notifier.all()
	if len(notices) != 1 || notices[0] != "error: Failed to update post" {
		t.Errorf("notices = %v", notices)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	fx.api.EXPECT().DeletePost(gomock.Any(), domain.PostID("2")).Return(nil)

	if err := fx.feed.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	posts := fx.feed.Posts()
	if len(posts) != 2 || posts[0].ID != "1" || posts[1].ID != "3" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestDeleteFailureNotices(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNotice string
	}{
		{
			name:       "forbidden",
			err:        apperrors.WrapWithCode(apperrors.ErrForbidden, "403", "forbidden"),
			wantNotice: "error: You are not authorized to delete this post.",
		},
		{
			name:       "session expired",
			err:        apperrors.WrapWithCode(apperrors.ErrAuthExpired, "401", "unauthorized"),
			wantNotice: "error: Your session has expired. Please log in again.",
		},
		{
			name:       "not found",
			err:        apperrors.WrapWithCode(apperrors.ErrNotFound, "404", "missing"),
			wantNotice: "error: Failed to delete post",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t)
			fx.feed.posts = []domain.Post{{ID: "1"}, {ID: "2"}}

			fx.api.EXPECT().DeletePost(gomock.Any(), domain.PostID("9")).Return(tc.err)

			if err := fx.feed.Delete(context.Background(), "9"); err == nil {
				t.Fatal("expected error")
			}
			if got := fx.feed.Posts(); len(got) != 2 {
				t.Errorf("list changed on failed delete: %+v", got)
			}
			notices := fx.notifier.all()
			if len(notices) != 1 || notices[0] != tc.wantNotice {
				t.Errorf("notices = %v, want [%s]", notices, tc.wantNotice)
			}
		})
	}
}

func TestViewIsLocalOnly(t *testing.T) {
	fx := newFixture(t)
	fx.feed.posts = []domain.Post{{ID: "1", Title: "t"}}

	post, err := fx.feed.View("1")
	if err != nil || post.Title != "t" {
		t.Errorf("View = %+v, %v", post, err)
	}
	if _, err := fx.feed.View("404"); !errors.Is(err, feed.ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}
