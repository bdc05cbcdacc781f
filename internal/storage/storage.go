package storage

import (
	"context"
	"errors"

	"github.com/minhanh2104/snapfeed-cli/internal/domain"
)

// Durable key names shared with the backend-facing layers.
const (
	KeyToken      = "token"
	KeyLocalPosts = "localPosts"
)

var ErrNotFound = errors.New("storage: key not found")

type Repository interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// AppendLocalPost appends a record to the JSON array under KeyLocalPosts
	AppendLocalPost(ctx context.Context, post domain.LocalPost) error

	// LocalPosts returns the fallback records, oldest first
	LocalPosts(ctx context.Context) ([]domain.LocalPost, error)

	// ClearLocalPosts drops the fallback list
	ClearLocalPosts(ctx context.Context) error
}
