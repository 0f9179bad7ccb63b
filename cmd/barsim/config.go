package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type sourceConfig struct {
	// Driver selects the bar source: "duckdb" or "binary".
	Driver string `mapstructure:"driver"`

	// Database is the duckdb file path.
	Database string `mapstructure:"database"`

	// Files maps symbols to binary bar files for the "binary" driver.
	Files map[string]string `mapstructure:"files"`
}

type strategyConfig struct {
	ShortWindow int `mapstructure:"short_window"`
	LongWindow  int `mapstructure:"long_window"`
}

type config struct {
	Symbols        []string       `mapstructure:"symbols"`
	InitialCapital float64        `mapstructure:"initial_capital"`
	Annualization  string         `mapstructure:"annualization"`
	Source         sourceConfig   `mapstructure:"source"`
	Strategy       strategyConfig `mapstructure:"strategy"`
	QueueCapacity  int            `mapstructure:"queue_capacity"`
	Heartbeat      time.Duration  `mapstructure:"heartbeat"`
	MonitorEvents  bool           `mapstructure:"monitor_events"`
	Output         string         `mapstructure:"output"`
}

func loadConfig(path string) (*config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("initial_capital", 100000.0)
	v.SetDefault("annualization", "daily")
	v.SetDefault("source.driver", "duckdb")
	v.SetDefault("strategy.short_window", 100)
	v.SetDefault("strategy.long_window", 400)
	v.SetDefault("queue_capacity", 512)
	v.SetDefault("heartbeat", time.Duration(0))
	v.SetDefault("output", "equity.csv")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config %q: %w", path, err)
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("config %q lists no symbols", path)
	}
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %v", cfg.InitialCapital)
	}
	return &cfg, nil
}
