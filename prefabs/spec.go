package prefabs

import (
	"fmt"

	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
	"gopkg.in/yaml.v3"
)

const (
	WeatherFile  = "weather.yaml"
	AmbienceFile = "ambience.yaml"
)

func LoadSpec[T any](dir, filename string) (T, error) {
	var zero T
	data, err := Load(dir, filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// WeatherSpec is the on-disk form of weather.Settings. Absent scalars keep
// their built-in defaults.
type WeatherSpec struct {
	PeakDuration       *float64                     `yaml:"peak_duration"`
	AutoChange         *bool                        `yaml:"auto_change"`
	AutoChangeInterval *float64                     `yaml:"auto_change_interval"`
	Types              map[string]WeatherConfigSpec `yaml:"types"`
}

type WeatherConfigSpec struct {
	ApproachDuration  float64 `yaml:"approach_duration"`
	ArriveDuration    float64 `yaml:"arrive_duration"`
	PeakMinDuration   float64 `yaml:"peak_min_duration"`
	DepartDuration    float64 `yaml:"depart_duration"`
	PeakRainIntensity float64 `yaml:"peak_rain_intensity"`
	StormMultiplier   float64 `yaml:"storm_multiplier"`
}

// Settings converts the spec. Types missing from the file keep the built-in
// table entry.
func (s WeatherSpec) Settings() (weather.Settings, error) {
	settings := weather.DefaultSettings()
	if s.PeakDuration != nil {
		settings.PeakDuration = *s.PeakDuration
	}
	if s.AutoChange != nil {
		settings.AutoChange = *s.AutoChange
	}
	if s.AutoChangeInterval != nil {
		settings.AutoChangeInterval = *s.AutoChangeInterval
	}

	for name, c := range s.Types {
		t, err := weather.ParseType(name)
		if err != nil {
			return weather.Settings{}, fmt.Errorf("prefabs: weather types: %w", err)
		}
		settings.Configs[t] = weather.Config{
			ApproachDuration:  c.ApproachDuration,
			ArriveDuration:    c.ArriveDuration,
			PeakMinDuration:   c.PeakMinDuration,
			DepartDuration:    c.DepartDuration,
			PeakRainIntensity: c.PeakRainIntensity,
			StormMultiplier:   c.StormMultiplier,
		}
	}
	return settings, nil
}

type AmbienceSpec struct {
	Layers []LayerSpec `yaml:"layers"`
}

type LayerSpec struct {
	ID          string   `yaml:"id"`
	Assets      []string `yaml:"assets"`
	TimeOfDay   []string `yaml:"time_of_day"`
	Weather     []string `yaml:"weather"`
	BaseVolume  float64  `yaml:"base_volume"`
	FadeIn      float64  `yaml:"fade_in"`
	FadeOut     float64  `yaml:"fade_out"`
	Mode        string   `yaml:"mode"`
	MinInterval float64  `yaml:"min_interval"`
	MaxInterval float64  `yaml:"max_interval"`
}

// ToLayers converts and validates every layer in file order.
func (s AmbienceSpec) ToLayers() ([]ambience.Layer, error) {
	out := make([]ambience.Layer, 0, len(s.Layers))
	for i, ls := range s.Layers {
		l, err := ls.layer()
		if err != nil {
			return nil, fmt.Errorf("prefabs: layer %d (%s): %w", i, ls.ID, err)
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("prefabs: layer %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (ls LayerSpec) layer() (ambience.Layer, error) {
	mode, err := ambience.ParseMode(ls.Mode)
	if err != nil {
		return ambience.Layer{}, err
	}

	tods := make([]timeofday.TimeOfDay, 0, len(ls.TimeOfDay))
	for _, name := range ls.TimeOfDay {
		tod, err := timeofday.Parse(name)
		if err != nil {
			return ambience.Layer{}, err
		}
		tods = append(tods, tod)
	}

	var types []weather.Type
	for _, name := range ls.Weather {
		t, err := weather.ParseType(name)
		if err != nil {
			return ambience.Layer{}, err
		}
		types = append(types, t)
	}

	return ambience.Layer{
		ID:          ls.ID,
		Assets:      append([]string(nil), ls.Assets...),
		TimeOfDay:   tods,
		Weather:     types,
		BaseVolume:  ls.BaseVolume,
		FadeIn:      ls.FadeIn,
		FadeOut:     ls.FadeOut,
		Mode:        mode,
		MinInterval: ls.MinInterval,
		MaxInterval: ls.MaxInterval,
	}, nil
}

func LoadWeatherSettings(dir string) (weather.Settings, error) {
	spec, err := LoadSpec[WeatherSpec](dir, WeatherFile)
	if err != nil {
		return weather.Settings{}, err
	}
	return spec.Settings()
}

func LoadAmbienceLayers(dir string) ([]ambience.Layer, error) {
	spec, err := LoadSpec[AmbienceSpec](dir, AmbienceFile)
	if err != nil {
		return nil, err
	}
	return spec.ToLayers()
}
