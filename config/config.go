package config

import (
	"errors"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"8080"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"25"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"BookBuddy <no-reply@bookbuddy.example.com>"`
	} `yaml:"smtp"`
	GoogleBooks struct {
		BaseURL  string `yaml:"base_url" env:"GOOGLEBOOKSBASEURL" env-default:"https://www.googleapis.com/books/v1"`
		APIKey   string `yaml:"api_key" env:"GOOGLEBOOKSAPIKEY"`
		CacheTTL string `yaml:"cache_ttl" env:"GOOGLEBOOKSCACHETTL" env-default:"30m"`
	} `yaml:"googlebooks"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"2"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"4"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED" env-default:"false"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
}

// Decode reads the app configuration from the yaml config file, with
// environment variables taking precedence over file values. The config
// file path defaults to ./config.yml and can be overridden with the
// BOOKBUDDY_CONFIG environment variable; a missing file is not an error,
// in which case the configuration comes from the environment alone.
func Decode() (Config, error) {
	var cfg Config
	path := os.Getenv("BOOKBUDDY_CONFIG")
	if path == "" {
		path = "config.yml"
	}
	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		err = cleanenv.ReadEnv(&cfg)
		if err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
