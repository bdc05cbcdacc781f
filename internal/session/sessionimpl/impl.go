package sessionimpl

import (
	"context"
	"errors"
	"sync"

	"github.com/minhanh2104/snapfeed-cli/internal/session"
	"github.com/minhanh2104/snapfeed-cli/internal/storage"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Storage storage.Repository
	Logger  logger.Logger
}

type SessionImpl struct {
	storage storage.Repository
	logger  logger.Logger

	mu          sync.Mutex
	subscribers []func(session.Event)
}

func New(opts Opts) *SessionImpl {
	return &SessionImpl{
		storage: opts.Storage,
		logger:  opts.Logger.WithComponent("Session"),
	}
}

var _ session.Service = (*SessionImpl)(nil)

// Token returns the stored token and whether one is present
func (s *SessionImpl) Token() (string, bool) {
	value, err := s.storage.Get(context.Background(), storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("Failed to read session token", "error", err)
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// Set stores the token and broadcasts EventSet
func (s *SessionImpl) Set(token string) error {
	if err := s.storage.Set(context.Background(), storage.KeyToken, token); err != nil {
		return err
	}
	s.broadcast(session.Event{Kind: session.EventSet})
	return nil
}

// Clear removes the token and broadcasts EventCleared
func (s *SessionImpl) Clear() error {
	if err := s.storage.Delete(context.Background(), storage.KeyToken); err != nil {
		return err
	}
	s.broadcast(session.Event{Kind: session.EventCleared})
	return nil
}

// Expire removes the token and broadcasts EventExpired with reason
func (s *SessionImpl) Expire(reason string) error {
	if err := s.storage.Delete(context.Background(), storage.KeyToken); err != nil {
		return err
	}
	s.logger.Warn("Session expired", "reason", reason)
	s.broadcast(session.Event{Kind: session.EventExpired, Reason: reason})
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored
func (s *SessionImpl) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Subscribe registers fn to be called on every session event
func (s *SessionImpl) Subscribe(fn func(session.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *SessionImpl) broadcast(ev session.Event) {
	s.mu.Lock()
	subs := make([]func(session.Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
