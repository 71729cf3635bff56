package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
)

func writePrefab(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestEmbeddedWeatherMatchesDefaults(t *testing.T) {
	settings, err := LoadWeatherSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadWeatherSettings: %v", err)
	}
	want := weather.DefaultSettings()
	if settings.PeakDuration != want.PeakDuration || settings.AutoChangeInterval != want.AutoChangeInterval {
		t.Fatalf("unexpected timers %+v", settings)
	}
	for _, typ := range weather.Types {
		if settings.Configs[typ] != want.Configs[typ] {
			t.Fatalf("%s: got %+v, want %+v", typ, settings.Configs[typ], want.Configs[typ])
		}
	}
}

func TestEmbeddedAmbienceLayers(t *testing.T) {
	layers, err := LoadAmbienceLayers("")
	if err != nil {
		t.Fatalf("LoadAmbienceLayers: %v", err)
	}
	if len(layers) == 0 {
		t.Fatalf("expected layers")
	}

	ids := map[string]ambience.Layer{}
	for _, l := range layers {
		ids[l.ID] = l
	}
	thunder, ok := ids["thunder"]
	if !ok || thunder.Mode != ambience.RandomInterval || len(thunder.Weather) != 1 || thunder.Weather[0] != weather.Storm {
		t.Fatalf("unexpected thunder layer %+v", thunder)
	}
	if !ids["rain_bed"].Eligible(timeofday.Dusk, weather.Rain) {
		t.Fatalf("rain bed should play at dusk in the rain")
	}

	if _, err := ambience.NewScheduler(ambience.Backend(nil), layers, 1); err != nil {
		t.Fatalf("embedded catalog should validate: %v", err)
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	writePrefab(t, dir, WeatherFile, `
peak_duration: 5
auto_change: true
types:
  storm:
    approach_duration: 1
    arrive_duration: 2
    depart_duration: 3
    peak_rain_intensity: 0.9
    storm_multiplier: 0.8
`)

	settings, err := LoadWeatherSettings(dir)
	if err != nil {
		t.Fatalf("LoadWeatherSettings: %v", err)
	}
	if settings.PeakDuration != 5 || !settings.AutoChange {
		t.Fatalf("disk values ignored: %+v", settings)
	}
	if settings.AutoChangeInterval != weather.DefaultAutoChangeInterval {
		t.Fatalf("absent interval should keep default, got %v", settings.AutoChangeInterval)
	}
	if got := settings.Configs[weather.Storm]; got.ArriveDuration != 2 || got.StormMultiplier != 0.8 {
		t.Fatalf("storm config not applied: %+v", got)
	}
	if settings.Configs[weather.Rain] != weather.DefaultConfigs()[weather.Rain] {
		t.Fatalf("rain should keep its built-in config")
	}

	if _, ok := ModTime(dir, WeatherFile); !ok {
		t.Fatalf("expected a disk mod time")
	}
	if _, ok := ModTime(dir, AmbienceFile); ok {
		t.Fatalf("ambience has no disk copy")
	}
}

func TestDirectoriesAreIndependent(t *testing.T) {
	edited := t.TempDir()
	writePrefab(t, edited, WeatherFile, "peak_duration: 7\n")
	pristine := t.TempDir()

	got, err := LoadWeatherSettings(edited)
	if err != nil {
		t.Fatalf("LoadWeatherSettings(edited): %v", err)
	}
	if got.PeakDuration != 7 {
		t.Fatalf("expected the edited peak, got %v", got.PeakDuration)
	}

	for _, dir := range []string{pristine, ""} {
		got, err := LoadWeatherSettings(dir)
		if err != nil {
			t.Fatalf("LoadWeatherSettings(%q): %v", dir, err)
		}
		if got.PeakDuration != weather.DefaultSettings().PeakDuration {
			t.Fatalf("dir %q picked up another directory's prefab: %v", dir, got.PeakDuration)
		}
	}
	if _, ok := ModTime("", WeatherFile); ok {
		t.Fatalf("embedded-only lookups have no mod time")
	}
}

func TestAmbienceSpecErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"time_of_day", "layers:\n  - {id: a, assets: [x.wav], time_of_day: [noon], base_volume: 0.5}\n", "noon"},
		{"weather", "layers:\n  - {id: a, assets: [x.wav], time_of_day: [day], weather: [snow], base_volume: 0.5}\n", "snow"},
		{"mode", "layers:\n  - {id: a, assets: [x.wav], time_of_day: [day], base_volume: 0.5, mode: shuffle}\n", "shuffle"},
		{"invalid", "layers:\n  - {id: a, time_of_day: [day], base_volume: 0.5}\n", "no assets"},
		{"yaml", "layers: [", "unmarshal"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writePrefab(t, dir, AmbienceFile, c.body)

			_, err := LoadAmbienceLayers(dir)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestWeatherSpecUnknownType(t *testing.T) {
	spec := WeatherSpec{Types: map[string]WeatherConfigSpec{"hail": {}}}
	if _, err := spec.Settings(); !errors.Is(err, weather.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

type silentBackend struct{}

func (silentBackend) Initialized() bool { return true }
func (silentBackend) Play(string, ambience.PlayOptions) (ambience.Handle, error) {
	return 1, nil
}
func (silentBackend) Stop(ambience.Handle)               {}
func (silentBackend) SetVolume(ambience.Handle, float64) {}

func TestReload(t *testing.T) {
	dir := t.TempDir()

	layers, err := LoadAmbienceLayers(dir)
	if err != nil {
		t.Fatalf("LoadAmbienceLayers: %v", err)
	}
	s, err := ambience.NewScheduler(silentBackend{}, layers, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	settings := weather.DefaultSettings()
	settings.AutoChange = true
	c := weather.NewController(settings, nil, nil)

	writePrefab(t, dir, AmbienceFile, "layers:\n  - {id: only, assets: [wind_day.wav], time_of_day: [day], base_volume: 0.2}\n")
	writePrefab(t, dir, WeatherFile, "peak_duration: 9\nauto_change: false\n")

	if err := Reload(dir, filepath.Join(dir, AmbienceFile), c, s); err != nil {
		t.Fatalf("Reload ambience: %v", err)
	}
	if got := s.Layers(); len(got) != 1 || got[0].ID != "only" {
		t.Fatalf("expected reloaded catalog, got %+v", got)
	}

	if err := Reload(dir, filepath.Join(dir, WeatherFile), c, s); err != nil {
		t.Fatalf("Reload weather: %v", err)
	}
	if got := c.Settings(); got.PeakDuration != 9 || !got.AutoChange {
		t.Fatalf("expected peak 9 with the runtime auto toggle kept, got %+v", got)
	}

	writePrefab(t, dir, AmbienceFile, "layers: [")
	if err := Reload(dir, filepath.Join(dir, AmbienceFile), c, s); err == nil {
		t.Fatalf("expected error for broken file")
	}
	if got := s.Layers(); len(got) != 1 {
		t.Fatalf("broken file must keep the running catalog")
	}

	if err := Reload(dir, filepath.Join(dir, "notes.yaml"), c, s); err != nil {
		t.Fatalf("unknown files are ignored, got %v", err)
	}
}

func TestWatcherReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	writePrefab(t, dir, "readme.txt", "ignored")
	writePrefab(t, dir, AmbienceFile, "layers: []\n")

	select {
	case path := <-w.Events:
		if filepath.Base(path) != AmbienceFile {
			t.Fatalf("unexpected event for %s", path)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
