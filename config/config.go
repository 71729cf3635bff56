// Package config reads host settings from ATMOS_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/timeofday"
)

const (
	DefaultDayLength = 240.0
	DefaultPrefabDir = "prefabs"
	DefaultLogLevel  = "warn"
)

type Config struct {
	Seed         int64   `env:"ATMOS_SEED"          envDefault:"1"`
	MasterVolume float64 `env:"ATMOS_MASTER_VOLUME" envDefault:"0.8"`
	// DayLength is the real-time seconds of one full day cycle.
	DayLength     float64 `env:"ATMOS_DAY_LENGTH"     envDefault:"240"`
	StartProgress float64 `env:"ATMOS_START_PROGRESS" envDefault:"30"`
	AutoWeather   bool    `env:"ATMOS_AUTO_WEATHER"   envDefault:"true"`
	PrefabDir     string  `env:"ATMOS_PREFAB_DIR"     envDefault:"prefabs"`
	HotReload     bool    `env:"ATMOS_HOT_RELOAD"`
	LogLevel      string  `env:"ATMOS_LOG_LEVEL"      envDefault:"warn"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	cfg.MasterVolume = common.Clamp01(cfg.MasterVolume)
	if !(cfg.DayLength > 0) {
		cfg.DayLength = DefaultDayLength
	}
	cfg.StartProgress = common.Wrap(cfg.StartProgress, timeofday.CycleLength)
	cfg.PrefabDir = strings.TrimSpace(cfg.PrefabDir)
	if cfg.PrefabDir == "" {
		cfg.PrefabDir = DefaultPrefabDir
	}
	cfg.LogLevel = strings.TrimSpace(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg
}
