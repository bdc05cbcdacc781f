package refresher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/minhanh2104/snapfeed-cli/internal/feed"
	"github.com/minhanh2104/snapfeed-cli/internal/session"
	"github.com/minhanh2104/snapfeed-cli/pkg/config"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC      fx.Lifecycle
	Feed    feed.Client
	Session session.Service
	Config  *config.Config
	Logger  logger.Logger
}

// Register schedules a periodic reload of the authoritative feed. Off by
// default; the reload only runs while a session token is present.
func Register(opts Opts) error {
	if !opts.Config.Refresher.Enabled {
		return nil
	}

	log := opts.Logger.WithComponent("Refresher")

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	interval := time.Duration(opts.Config.Refresher.Minutes) * time.Minute
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if !opts.Session.IsAuthenticated() {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := opts.Feed.Load(ctx); err != nil {
				log.Warn("Scheduled feed reload failed", "error", err)
				return
			}
			log.Debug("Feed reloaded")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed reload: %w", err)
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			log.Info("Feed refresher started", "interval", interval.String())
			return nil
		},
		OnStop: func(context.Context) error {
			return scheduler.Shutdown()
		},
	})

	return nil
}
