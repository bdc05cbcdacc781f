package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/minhanh2104/snapfeed-cli/internal/domain"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (entry) TableName() string { return "entries" }

type Gorm struct {
	db     *gorm.DB
	logger logger.Logger

	// guards the read-modify-write cycle on the localPosts array
	mu sync.Mutex
}

func NewGorm(db *gorm.DB, logger logger.Logger) *Gorm {
	return &Gorm{
		db:     db,
		logger: logger.WithComponent("StorageRepo"),
	}
}

var _ Repository = (*Gorm)(nil)

// Get returns the value stored under key, or ErrNotFound
func (g *Gorm) Get(ctx context.Context, key string) (string, error) {
	var e entry
	err := g.db.WithContext(ctx).Where("key = ?", key).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return e.Value, nil
}

// Set stores value under key, overwriting any previous value
func (g *Gorm) Set(ctx context.Context, key, value string) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry{Key: key, Value: value}).Error
}

// Delete removes key; deleting an absent key is not an error
func (g *Gorm) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("key = ?", key).Delete(&entry{}).Error
}

// AppendLocalPost appends a record to the JSON array under KeyLocalPosts
func (g *Gorm) AppendLocalPost(ctx context.Context, post domain.LocalPost) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	posts, err := g.localPosts(ctx)
	if err != nil {
		return err
	}
	posts = append(posts, post)

	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return g.Set(ctx, KeyLocalPosts, string(raw))
}

// LocalPosts returns the fallback records, oldest first
func (g *Gorm) LocalPosts(ctx context.Context) ([]domain.LocalPost, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.localPosts(ctx)
}

func (g *Gorm) localPosts(ctx context.Context) ([]domain.LocalPost, error) {
	raw, err := g.Get(ctx, KeyLocalPosts)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var posts []domain.LocalPost
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ClearLocalPosts drops the fallback list
func (g *Gorm) ClearLocalPosts(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Delete(ctx, KeyLocalPosts)
}
