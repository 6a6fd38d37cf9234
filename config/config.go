package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"error"`
	LogFile  string `env:"LOG_FILE"`
	Currency string `env:"CURRENCY" envDefault:"USD"`
	Store    Store
	API      API
	Jobs     Jobs
}

type Store struct {
	Driver          string `env:"STORE_DRIVER" envDefault:"sqlite3"`
	DSN             string `env:"STORE_DSN" envDefault:"portfolio.db"`
	ConnAttempts    int    `env:"STORE_CONN_ATTEMPTS" envDefault:"1"`
	MaxOpenConns    int    `env:"STORE_MAX_OPEN_CONNS" envDefault:"0"`
	ConnMaxLifetime int    `env:"STORE_CONN_MAX_LIFETIME" envDefault:"0"`
}

type API struct {
	Debug    bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout  time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	YahooApi YahooApi
}

type YahooApi struct {
	Url       string `env:"YAHOO_API_URL" envDefault:"https://query1.finance.yahoo.com"`
	UserAgent string `env:"YAHOO_USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
}

type Jobs struct {
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"1m"`
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
