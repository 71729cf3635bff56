// Package wind is a small gusting wind model driven by weather intensity.
package wind

import (
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/weather"
)

type Config struct {
	// BaseSpeed is the calm-weather speed, MaxSpeed the speed at intensity 1.
	BaseSpeed float64
	MaxSpeed  float64
	// Angle is the prevailing direction in radians; the wind veers at most
	// MaxVeer away from it at VeerRate radians per second.
	Angle    float64
	MaxVeer  float64
	VeerRate float64
	// GustInterval is the mean time between gust changes. Gusts add up to
	// GustStrength times the speed, scaled by intensity.
	GustInterval float64
	GustStrength float64
}

func DefaultConfig() Config {
	return Config{
		BaseSpeed:    20,
		MaxSpeed:     160,
		Angle:        0,
		MaxVeer:      math.Pi / 8,
		VeerRate:     0.15,
		GustInterval: 3,
		GustStrength: 0.6,
	}
}

var _ weather.Wind = (*System)(nil)

// System implements weather.Wind.
type System struct {
	cfg Config
	rng *rand.Rand

	angle      float64
	veerTarget float64

	gust       float64
	gustTarget float64
	gustTimer  float64

	state    weather.WindState
	disposed bool
}

func New(cfg Config, seed int64) *System {
	if cfg.MaxSpeed < cfg.BaseSpeed {
		cfg.MaxSpeed = cfg.BaseSpeed
	}
	if cfg.GustInterval <= 0 {
		cfg.GustInterval = DefaultConfig().GustInterval
	}
	s := &System{
		cfg:        cfg,
		rng:        common.SeededRand(seed, "wind"),
		angle:      cfg.Angle,
		veerTarget: cfg.Angle,
	}
	s.state = weather.WindState{
		Direction:      cp.ForAngle(cfg.Angle),
		Speed:          cfg.BaseSpeed,
		EffectiveSpeed: cfg.BaseSpeed,
	}
	return s
}

func (s *System) Update(dt, intensity float64) {
	if s.disposed || !(dt > 0) {
		return
	}
	intensity = common.Clamp01(intensity)

	s.gustTimer -= dt
	if s.gustTimer <= 0 {
		s.gustTimer = common.Uniform(s.rng, 0.5*s.cfg.GustInterval, 1.5*s.cfg.GustInterval)
		s.gustTarget = s.rng.Float64() * s.cfg.GustStrength * intensity
		s.veerTarget = s.cfg.Angle + common.Uniform(s.rng, -s.cfg.MaxVeer, s.cfg.MaxVeer)
	}
	s.gust = common.Approach(s.gust, s.gustTarget, dt)
	s.angle = common.Approach(s.angle, s.veerTarget, s.cfg.VeerRate*dt)

	speed := common.Lerp(s.cfg.BaseSpeed, s.cfg.MaxSpeed, intensity)
	s.state = weather.WindState{
		Direction:      cp.ForAngle(s.angle),
		Speed:          speed,
		EffectiveSpeed: speed * (1 + s.gust),
	}
}

func (s *System) State() weather.WindState {
	return s.state
}

// Dispose freezes the wind at calm.
func (s *System) Dispose() {
	s.disposed = true
	s.gust = 0
	s.state.Speed = s.cfg.BaseSpeed
	s.state.EffectiveSpeed = s.cfg.BaseSpeed
}
