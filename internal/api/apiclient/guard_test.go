package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/minhanh2104/snapfeed-cli/internal/domain"
	"github.com/minhanh2104/snapfeed-cli/internal/router"
	"github.com/minhanh2104/snapfeed-cli/internal/session/sessionimpl"
	"github.com/minhanh2104/snapfeed-cli/internal/storage"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
)

type memRepo struct {
	mu     sync.Mutex
	values map[string]string
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

func (r *memRepo) AppendLocalPost(context.Context, domain.LocalPost) error { return nil }
func (r *memRepo) LocalPosts(context.Context) ([]domain.LocalPost, error) { return nil, nil }
func (r *memRepo) ClearLocalPosts(context.Context) error                  { return nil }

// A 401 from any endpoint must clear the stored token and leave the guard
// redirecting every subsequent navigation to the login route.
func TestExpiredSessionRedirectsGuard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	log := logger.New(logger.Opts{})
	repo := newMemRepo()
	sess := sessionimpl.New(sessionimpl.Opts{Storage: repo, Logger: log})
	if err := sess.Set("stale-token"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	nav := router.New(router.Opts{Session: sess, Logger: log})
	if got := nav.Navigate(router.RouteHome); got != router.RouteHome {
		t.Fatalf("authenticated /home resolved to %s", got)
	}

	client := newTestClient(t, srv.URL, sess, &fakeNotifier{})
	if _, err := client.FetchPosts(context.Background()); err == nil {
		t.Fatal("expected 401 error")
	}

	if _, ok := sess.Token(); ok {
		t.Error("token survived the 401")
	}
	if nav.Current() != router.RouteLogin {
		t.Errorf("current route = %s, want %s after expiry event", nav.Current(), router.RouteLogin)
	}
	if got := nav.Navigate(router.RouteHome); got != router.RouteLogin {
		t.Errorf("post-expiry /home resolved to %s, want %s", got, router.RouteLogin)
	}
}
