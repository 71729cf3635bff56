package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Seed:          1,
		MasterVolume:  0.8,
		DayLength:     240,
		StartProgress: 30,
		AutoWeather:   true,
		PrefabDir:     "prefabs",
		LogLevel:      "warn",
	}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	cases := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "overrides",
			env: map[string]string{
				"ATMOS_SEED":          "99",
				"ATMOS_AUTO_WEATHER":  "false",
				"ATMOS_HOT_RELOAD":    "true",
				"ATMOS_LOG_LEVEL":     "debug",
				"ATMOS_PREFAB_DIR":    "/tmp/prefabs",
				"ATMOS_MASTER_VOLUME": "0.3",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.Seed != 99 || cfg.AutoWeather || !cfg.HotReload || cfg.LogLevel != "debug" ||
					cfg.PrefabDir != "/tmp/prefabs" || cfg.MasterVolume != 0.3 {
					t.Fatalf("overrides not applied: %+v", cfg)
				}
			},
		},
		{
			name: "normalised",
			env: map[string]string{
				"ATMOS_MASTER_VOLUME":  "4",
				"ATMOS_DAY_LENGTH":     "-5",
				"ATMOS_START_PROGRESS": "130",
				"ATMOS_PREFAB_DIR":     "  ",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.MasterVolume != 1 || cfg.DayLength != DefaultDayLength || cfg.StartProgress != 30 || cfg.PrefabDir != DefaultPrefabDir {
					t.Fatalf("expected normalised values, got %+v", cfg)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			c.check(t, cfg)
		})
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("ATMOS_SEED", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
