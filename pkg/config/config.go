package config

import (
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	API struct {
		BaseURL string        `env:"API_BASE_URL" env-default:"https://apphere.in/demo-post/public/api"`
		Timeout time.Duration `env:"API_TIMEOUT" env-default:"0s"`
	}
	Storage struct {
		Path string `env:"STORAGE_PATH" env-default:"snapfeed.db"`
	}
	Refresher struct {
		Enabled bool `env:"REFRESHER_ENABLED" env-default:"false"`
		Minutes int  `env:"REFRESHER_MINUTES" env-default:"5"`
	}
	Toggle struct {
		Requests int           `env:"TOGGLE_REQUESTS" env-default:"1"`
		Per      time.Duration `env:"TOGGLE_PER" env-default:"1s"`
		Burst    int           `env:"TOGGLE_BURST" env-default:"2"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
