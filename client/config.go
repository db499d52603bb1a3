package client

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"campusclub/client/api"
	"campusclub/client/session"
	"campusclub/widget"
)

// LoadConfig reads the TOML file at cfgPath over the defaults and then
// applies environment overrides on top; the environment wins.
func LoadConfig(cfgPath string) (Config, error) {
	cfg := defaultConfig()

	if cfgPath != "" {
		file, err := os.Open(cfgPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config file: %w", err)
		}
		defer func() {
			_ = file.Close()
		}()
		if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from env: %w", err)
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		API: api.DefaultConfig(),
		Session: session.Config{
			Path: "campusclub.db",
		},
		Widget: widget.DefaultConfig(),
	}
}

type Config struct {
	Log     LogConfig      `toml:"log"`
	API     api.Config     `toml:"api"`
	Session session.Config `toml:"session"`
	Widget  widget.Config  `toml:"widget"`
}

func (c Config) String() string {
	return fmt.Sprintf("Log: %s\nAPI: %s\nSession: %s\nWidget: %s",
		c.Log,
		c.API,
		c.Session,
		c.Widget,
	)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"CAMPUSCLUB_LOG_LEVEL"`
	Format    LogFormat  `toml:"format" env:"CAMPUSCLUB_LOG_FORMAT"`
	AddSource bool       `toml:"add_source" env:"CAMPUSCLUB_LOG_ADD_SOURCE"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t",
		c.Level,
		c.Format,
		c.AddSource,
	)
}

// SetupLogger installs the default slog handler per the log config.
func SetupLogger(cfg LogConfig) {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	if cfg.Format == LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
