package app

import (
	"context"

	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/internal/api/apiclient"
	"github.com/minhanh2104/snapfeed-cli/internal/command"
	"github.com/minhanh2104/snapfeed-cli/internal/command/commandimpl"
	"github.com/minhanh2104/snapfeed-cli/internal/feed"
	"github.com/minhanh2104/snapfeed-cli/internal/feed/feedimpl"
	"github.com/minhanh2104/snapfeed-cli/internal/notify"
	"github.com/minhanh2104/snapfeed-cli/internal/notify/notifyimpl"
	"github.com/minhanh2104/snapfeed-cli/internal/ratelimit"
	"github.com/minhanh2104/snapfeed-cli/internal/refresher"
	"github.com/minhanh2104/snapfeed-cli/internal/router"
	"github.com/minhanh2104/snapfeed-cli/internal/session"
	"github.com/minhanh2104/snapfeed-cli/internal/session/sessionimpl"
	"github.com/minhanh2104/snapfeed-cli/internal/storage"
	"github.com/minhanh2104/snapfeed-cli/pkg/config"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
	),
	storage.Module,
	fx.Provide(
		fx.Annotate(
			sessionimpl.New,
			fx.As(new(session.Service)),
		),
		fx.Annotate(
			notifyimpl.New,
			fx.As(new(notify.Notifier)),
		),
		fx.Annotate(
			apiclient.New,
			fx.As(new(api.Client)),
		),
		fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		fx.Annotate(
			router.New,
			fx.As(new(router.Navigator)),
		),
		func(cfg *config.Config) ratelimit.Limiter {
			return ratelimit.NewInMemoryLimiter(cfg.Toggle.Requests, cfg.Toggle.Per, cfg.Toggle.Burst)
		},
	),
	fx.Invoke(refresher.Register),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, cmdClient command.Client, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := cmdClient.Run(context.Background()); err != nil {
					log.Error("Command loop stopped", "error", err)
				}
				if err := shutdowner.Shutdown(); err != nil {
					log.Error("Failed to shut down", "error", err)
				}
			}()
			return nil
		},
	})
}
