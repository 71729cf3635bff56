package weather

import (
	"github.com/milk9111/atmosphere/common"
)

const (
	DefaultPeakDuration       = 60.0
	DefaultAutoChangeInterval = 120.0
)

// Config holds the tuning constants for one weather type. Durations are in
// seconds. PeakMinDuration is informational; the controller-wide
// Settings.PeakDuration decides how long Peak lasts.
type Config struct {
	ApproachDuration  float64
	ArriveDuration    float64
	PeakMinDuration   float64
	DepartDuration    float64
	PeakRainIntensity float64
	StormMultiplier   float64
}

// Settings configures a Controller.
type Settings struct {
	Configs            map[Type]Config
	PeakDuration       float64
	AutoChange         bool
	AutoChangeInterval float64
	Seed               int64
}

// DefaultConfigs returns the built-in tuning table.
func DefaultConfigs() map[Type]Config {
	return map[Type]Config{
		Clear: {
			DepartDuration: 20,
		},
		Rain: {
			ApproachDuration:  20,
			ArriveDuration:    15,
			PeakMinDuration:   60,
			DepartDuration:    20,
			PeakRainIntensity: 0.6,
			StormMultiplier:   0.1,
		},
		Storm: {
			ApproachDuration:  15,
			ArriveDuration:    12,
			PeakMinDuration:   45,
			DepartDuration:    25,
			PeakRainIntensity: 1.0,
			StormMultiplier:   1.0,
		},
	}
}

// DefaultSettings returns settings with the built-in table and auto change off.
func DefaultSettings() Settings {
	return Settings{
		Configs:            DefaultConfigs(),
		PeakDuration:       DefaultPeakDuration,
		AutoChangeInterval: DefaultAutoChangeInterval,
		Seed:               1,
	}
}

func applyDefaults(s Settings) Settings {
	configs := make(map[Type]Config, len(Types))
	defaults := DefaultConfigs()
	for _, t := range Types {
		cfg, ok := s.Configs[t]
		if !ok {
			cfg = defaults[t]
		}
		configs[t] = normalizeConfig(cfg)
	}
	s.Configs = configs

	if s.PeakDuration < 0 {
		s.PeakDuration = 0
	}
	if s.AutoChangeInterval <= 0 {
		s.AutoChangeInterval = DefaultAutoChangeInterval
	}
	return s
}

func normalizeConfig(cfg Config) Config {
	cfg.ApproachDuration = nonNegative(cfg.ApproachDuration)
	cfg.ArriveDuration = nonNegative(cfg.ArriveDuration)
	cfg.PeakMinDuration = nonNegative(cfg.PeakMinDuration)
	cfg.DepartDuration = nonNegative(cfg.DepartDuration)
	cfg.PeakRainIntensity = common.Clamp01(cfg.PeakRainIntensity)
	cfg.StormMultiplier = common.Clamp01(cfg.StormMultiplier)
	return cfg
}

func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
