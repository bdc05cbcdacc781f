package storage

import (
	"context"

	"github.com/glebarez/sqlite"
	"github.com/minhanh2104/snapfeed-cli/pkg/config"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DBOpts struct {
	fx.In
	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// NewDB opens the local SQLite file backing the durable key/value store and
// manages its lifecycle.
func NewDB(opts DBOpts) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(opts.Config.Storage.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}

	opts.LC.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				opts.Logger.Info("Opened local storage", "path", opts.Config.Storage.Path)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)

	return db, nil
}

var Module = fx.Module("storage",
	fx.Provide(
		NewDB,
		fx.Annotate(
			NewGorm,
			fx.As(new(Repository)),
		),
	),
)
