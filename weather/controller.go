package weather

import (
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/logging"
)

// rainThreshold is the rain intensity above which the rain effect runs.
const rainThreshold = 0.1

type listener struct {
	id int
	fn func(State)
}

// Controller turns a discrete weather target into per-frame intensity
// signals by walking Clear -> Approaching -> Arriving -> Peak -> Departing.
//
// A Controller is owned by the host loop and must only be used from that
// goroutine.
type Controller struct {
	settings Settings
	wind     Wind
	rain     RainEffect
	rng      *rand.Rand

	currentType Type
	targetType  Type
	phase       Phase

	phaseElapsed    float64
	phaseProgress   float64
	autoChangeTimer float64

	state       State
	rainEnabled bool

	listeners    []listener
	nextListener int
	disposed     bool
}

// NewController creates a controller in the Clear phase. wind and rain may be
// nil when the host has no such effect.
func NewController(settings Settings, wind Wind, rain RainEffect) *Controller {
	settings = applyDefaults(settings)
	c := &Controller{
		settings: settings,
		wind:     wind,
		rain:     rain,
		rng:      common.SeededRand(settings.Seed, "weather"),
	}
	c.computeState()
	return c
}

// TransitionTo requests a gradual change toward t.
//
// A request made mid-transition only redirects the target: the running phase
// keeps its elapsed time and finishes against the new target's durations.
func (c *Controller) TransitionTo(t Type) {
	if c.disposed || t == c.targetType {
		return
	}

	switch {
	case c.phase == PhasePeak && t == Clear:
		c.targetType = Clear
		c.enter(PhaseDeparting)
	case c.phase == PhaseClear:
		c.targetType = t
		c.enter(PhaseApproaching)
	default:
		c.targetType = t
	}

	logging.Infof("weather: target %s (current %s, phase %s)", c.targetType, c.currentType, c.phase)
}

// SetWeather jumps straight to t, skipping the transition phases.
func (c *Controller) SetWeather(t Type) {
	if c.disposed {
		return
	}

	c.currentType = t
	c.targetType = t
	if t == Clear {
		c.enter(PhaseClear)
	} else {
		c.enter(PhasePeak)
	}
	c.computeState()
	c.notify()
}

// TriggerRandomWeather transitions to one of the two types other than the
// current one, chosen uniformly.
func (c *Controller) TriggerRandomWeather() {
	if c.disposed {
		return
	}

	options := make([]Type, 0, len(Types)-1)
	for _, t := range Types {
		if t != c.currentType {
			options = append(options, t)
		}
	}
	c.TransitionTo(options[c.rng.IntN(len(options))])
}

// ClearWeather is TransitionTo(Clear).
func (c *Controller) ClearWeather() {
	c.TransitionTo(Clear)
}

// Update advances the controller by dt seconds. spawnCenter is forwarded to
// the rain effect and may be nil.
func (c *Controller) Update(dt float64, spawnCenter *cp.Vector) {
	if c.disposed {
		return
	}
	if !(dt > 0) {
		dt = 0
	}

	if c.wind != nil {
		c.wind.Update(dt, c.state.Intensity)
	}

	if c.settings.AutoChange && (c.phase == PhaseClear || c.phase == PhasePeak) {
		c.autoChangeTimer += dt
		if c.autoChangeTimer >= c.settings.AutoChangeInterval {
			c.autoChangeTimer = 0
			c.TriggerRandomWeather()
		}
	}

	if !(c.phase == PhaseClear && c.targetType == Clear) {
		c.advance(dt)
	}

	c.computeState()
	c.applyEffects(dt, spawnCenter)
	c.notify()
}

func (c *Controller) advance(dt float64) {
	c.phaseElapsed += dt

	duration := c.phaseDuration()
	if duration <= 0 {
		c.phaseProgress = 1
	} else {
		c.phaseProgress = math.Min(1, c.phaseElapsed/duration)
	}

	if c.phaseProgress < 1 {
		return
	}

	switch c.phase {
	case PhaseClear:
		if c.targetType != Clear {
			c.enter(PhaseApproaching)
		}
	case PhaseApproaching:
		c.enter(PhaseArriving)
	case PhaseArriving:
		c.currentType = c.targetType
		c.enter(PhasePeak)
	case PhasePeak:
		// Peak holds until something asks for clear skies.
		if c.targetType == Clear {
			c.enter(PhaseDeparting)
		}
	case PhaseDeparting:
		c.currentType = Clear
		c.targetType = Clear
		c.enter(PhaseClear)
	}
}

func (c *Controller) enter(p Phase) {
	if p != c.phase {
		logging.Debugf("weather: %s -> %s (target %s)", c.phase, p, c.targetType)
	}
	c.phase = p
	c.phaseElapsed = 0
	c.phaseProgress = 0
}

func (c *Controller) phaseDuration() float64 {
	cfg := c.settings.Configs[c.targetType]
	switch c.phase {
	case PhaseApproaching:
		return cfg.ApproachDuration
	case PhaseArriving:
		return cfg.ArriveDuration
	case PhasePeak:
		return c.settings.PeakDuration
	case PhaseDeparting:
		return cfg.DepartDuration
	default:
		return 0
	}
}

func (c *Controller) computeState() {
	s := State{
		Type:            c.currentType,
		Target:          c.targetType,
		Phase:           c.phase,
		IsTransitioning: c.phase.Transitioning(),
		PhaseProgress:   c.phaseProgress,
	}

	eased := common.EaseInOutQuad(c.phaseProgress)

	switch c.phase {
	case PhaseApproaching:
		s.Intensity = eased * 0.3
		s.FogDensity = eased * 0.4
		s.SkyDarkness = eased * 0.5
	case PhaseArriving:
		cfg := c.settings.Configs[c.targetType]
		s.Intensity = 0.3 + eased*0.5
		s.RainIntensity = eased * cfg.PeakRainIntensity * 0.7
		s.StormIntensity = eased * cfg.StormMultiplier * 0.5
		s.FogDensity = 0.4 + eased*0.3
		s.SkyDarkness = 0.5 + eased*0.3
	case PhasePeak:
		cfg := c.settings.Configs[c.currentType]
		s.Intensity = 0.8 + math.Sin(c.phaseElapsed*0.5)*0.1
		s.RainIntensity = cfg.PeakRainIntensity
		s.StormIntensity = cfg.StormMultiplier
		s.FogDensity = 0.7 + math.Sin(c.phaseElapsed*0.3)*0.1
		s.SkyDarkness = 0.8
	case PhaseDeparting:
		cfg := c.settings.Configs[c.currentType]
		fadeOut := 1 - eased
		s.Intensity = 0.8 * fadeOut
		s.RainIntensity = cfg.PeakRainIntensity * fadeOut
		s.StormIntensity = cfg.StormMultiplier * fadeOut
		s.FogDensity = 0.7 * fadeOut
		s.SkyDarkness = 0.8 * fadeOut
	}

	c.state = s
}

func (c *Controller) applyEffects(dt float64, spawnCenter *cp.Vector) {
	if c.rain == nil {
		return
	}

	enabled := c.state.RainIntensity > rainThreshold
	if enabled != c.rainEnabled {
		c.rain.SetEnabled(enabled)
		c.rainEnabled = enabled
	}
	if !enabled {
		return
	}

	if c.wind != nil {
		ws := c.wind.State()
		c.rain.SetWindFromSystem(ws.Direction, ws.EffectiveSpeed)
	}
	c.rain.SetIntensity(c.state.RainIntensity)
	c.rain.Update(dt, spawnCenter)
}

func (c *Controller) notify() {
	for _, l := range c.listeners {
		l.fn(c.state)
	}
}

// Subscribe registers fn to receive the state after every update. The
// returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil || c.disposed {
		return func() {}
	}
	c.nextListener++
	id := c.nextListener
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	return func() {
		kept := make([]listener, 0, len(c.listeners))
		for _, l := range c.listeners {
			if l.id != id {
				kept = append(kept, l)
			}
		}
		c.listeners = kept
	}
}

// State returns the latest snapshot.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) CurrentType() Type {
	return c.currentType
}

func (c *Controller) TargetType() Type {
	return c.targetType
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// SetSettings swaps the tuning table and timers without touching the current
// phase. The random stream is kept.
func (c *Controller) SetSettings(settings Settings) {
	seed := c.settings.Seed
	c.settings = applyDefaults(settings)
	c.settings.Seed = seed
}

func (c *Controller) Settings() Settings {
	return c.settings
}

func (c *Controller) SetAutoChange(enabled bool) {
	c.settings.AutoChange = enabled
	if !enabled {
		c.autoChangeTimer = 0
	}
}

func (c *Controller) SetAutoChangeInterval(seconds float64) {
	if seconds <= 0 {
		seconds = DefaultAutoChangeInterval
	}
	c.settings.AutoChangeInterval = seconds
}

func (c *Controller) SetPeakDuration(seconds float64) {
	c.settings.PeakDuration = nonNegative(seconds)
}

// Debug returns the controller's timers for overlays and tooling.
func (c *Controller) Debug() Debug {
	return Debug{
		Current:            c.currentType,
		Target:             c.targetType,
		Phase:              c.phase,
		PhaseElapsed:       c.phaseElapsed,
		PhaseDuration:      c.phaseDuration(),
		PhaseProgress:      c.phaseProgress,
		AutoChange:         c.settings.AutoChange,
		AutoChangeTimer:    c.autoChangeTimer,
		AutoChangeInterval: c.settings.AutoChangeInterval,
		RainEnabled:        c.rainEnabled,
		Listeners:          len(c.listeners),
	}
}

// Dispose turns the rain effect off, disposes the wind when it supports it and
// drops all listeners. Calling it again does nothing.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true

	if c.rain != nil && c.rainEnabled {
		c.rain.SetEnabled(false)
		c.rainEnabled = false
	}
	if d, ok := c.wind.(disposer); ok {
		d.Dispose()
	}
	c.listeners = nil
}
