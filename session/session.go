// Package session wires the day clock, weather controller and ambience
// scheduler into one frame step shared by the game and the CLI.
package session

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/config"
	"github.com/milk9111/atmosphere/logging"
	"github.com/milk9111/atmosphere/prefabs"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
)

// Backend is an ambience backend that delivers completions when pumped.
type Backend interface {
	ambience.Backend
	Pump()
}

type Options struct {
	Config  config.Config
	Backend Backend
	// Wind and Rain are optional weather collaborators.
	Wind weather.Wind
	Rain weather.RainEffect
}

type Session struct {
	Clock    *timeofday.Clock
	Weather  *weather.Controller
	Ambience *ambience.Scheduler

	backend   Backend
	prefabDir string
	watcher   *prefabs.Watcher
	closed    bool
}

// LoadCatalogs reads the weather and ambience prefabs from cfg.PrefabDir,
// falling back to the embedded copies, and applies the host overrides.
func LoadCatalogs(cfg config.Config) (weather.Settings, []ambience.Layer, error) {
	settings, err := prefabs.LoadWeatherSettings(cfg.PrefabDir)
	if err != nil {
		return weather.Settings{}, nil, err
	}
	settings.Seed = cfg.Seed
	settings.AutoChange = cfg.AutoWeather

	layers, err := prefabs.LoadAmbienceLayers(cfg.PrefabDir)
	if err != nil {
		return weather.Settings{}, nil, err
	}
	return settings, layers, nil
}

func New(opts Options) (*Session, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("session: no audio backend")
	}

	settings, layers, err := LoadCatalogs(opts.Config)
	if err != nil {
		return nil, err
	}

	sched, err := ambience.NewScheduler(opts.Backend, layers, opts.Config.Seed)
	if err != nil {
		return nil, fmt.Errorf("session: ambience: %w", err)
	}
	sched.SetMasterVolume(opts.Config.MasterVolume)

	s := &Session{
		Clock:     timeofday.NewClock(opts.Config.DayLength, opts.Config.StartProgress),
		Weather:   weather.NewController(settings, opts.Wind, opts.Rain),
		Ambience:  sched,
		backend:   opts.Backend,
		prefabDir: opts.Config.PrefabDir,
	}

	if opts.Config.HotReload {
		if err := s.watch(); err != nil {
			logging.Warnf("session: hot reload disabled: %v", err)
		}
	}
	return s, nil
}

func (s *Session) watch() error {
	w, err := prefabs.NewWatcher(s.prefabDir)
	if err != nil {
		return err
	}
	s.watcher = w
	logging.Infof("session: watching %s", s.prefabDir)
	return nil
}

// Step runs one frame: completions first, then the clock, the weather and
// finally the ambience with the weather's current type.
func (s *Session) Step(dt float64, spawnCenter *cp.Vector) {
	if s.closed {
		return
	}
	s.pollReloads()
	s.backend.Pump()

	progress := s.Clock.Advance(dt)
	s.Weather.Update(dt, spawnCenter)
	s.Ambience.Update(progress, s.Weather.CurrentType(), dt)
}

func (s *Session) pollReloads() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			if err := prefabs.Reload(s.prefabDir, path, s.Weather, s.Ambience); err != nil {
				logging.Errorf("session: reload %s: %v", path, err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			logging.Warnf("session: watcher: %v", err)
		default:
			return
		}
	}
}

// Close disposes both controllers and stops watching prefabs.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.Ambience.Dispose()
	s.Weather.Dispose()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			logging.Warnf("session: close watcher: %v", err)
		}
		s.watcher = nil
	}
}
