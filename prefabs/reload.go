package prefabs

import (
	"path/filepath"

	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/logging"
	"github.com/milk9111/atmosphere/weather"
)

// Reload re-reads the prefab at path, resolved against dir, and pushes it
// into the running controller or scheduler. Files it does not know are
// ignored. A bad file leaves the running configuration untouched.
func Reload(dir, path string, c *weather.Controller, s *ambience.Scheduler) error {
	switch filepath.Base(path) {
	case WeatherFile:
		if c == nil {
			return nil
		}
		settings, err := LoadWeatherSettings(dir)
		if err != nil {
			return err
		}
		// The host owns the auto-change toggle at runtime.
		settings.AutoChange = c.Settings().AutoChange
		c.SetSettings(settings)
		logging.Infof("prefabs: reloaded %s", WeatherFile)
	case AmbienceFile:
		if s == nil {
			return nil
		}
		layers, err := LoadAmbienceLayers(dir)
		if err != nil {
			return err
		}
		if err := s.ReplaceLayers(layers); err != nil {
			return err
		}
		logging.Infof("prefabs: reloaded %s (%d layers)", AmbienceFile, len(layers))
	}
	return nil
}
