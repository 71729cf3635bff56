// Package rain draws slanted rain streaks around a spawn centre.
package rain

import (
	"image/color"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/weather"
)

var _ weather.RainEffect = (*Effect)(nil)

type Config struct {
	// Width and Height size the spawn box centred on the spawn centre.
	Width, Height float64
	MaxDrops      int
	FallSpeed     float64
	StreakLength  float64
	// WindInfluence scales how much horizontal wind speed slants the rain.
	WindInfluence float64
	Color         color.NRGBA
}

func DefaultConfig() Config {
	return Config{
		Width:         960,
		Height:        540,
		MaxDrops:      600,
		FallSpeed:     700,
		StreakLength:  14,
		WindInfluence: 1.5,
		Color:         color.NRGBA{R: 170, G: 190, B: 220, A: 200},
	}
}

type drop struct {
	pos   cp.Vector
	speed float64
}

// Effect implements weather.RainEffect.
type Effect struct {
	cfg Config
	rng *rand.Rand

	enabled   bool
	intensity float64
	wind      cp.Vector
	center    cp.Vector

	drops []drop
}

func New(cfg Config, seed int64) *Effect {
	if cfg.MaxDrops < 0 {
		cfg.MaxDrops = 0
	}
	return &Effect{
		cfg:   cfg,
		rng:   common.SeededRand(seed, "rain"),
		drops: make([]drop, 0, cfg.MaxDrops),
	}
}

func (e *Effect) SetEnabled(enabled bool) {
	e.enabled = enabled
	if !enabled {
		e.drops = e.drops[:0]
	}
}

func (e *Effect) SetWindFromSystem(direction cp.Vector, speed float64) {
	e.wind = direction.Mult(speed * e.cfg.WindInfluence)
}

func (e *Effect) SetIntensity(intensity float64) {
	e.intensity = common.Clamp01(intensity)
}

// Update moves the drops and keeps their count proportional to intensity.
// A nil spawnCenter keeps the previous centre.
func (e *Effect) Update(dt float64, spawnCenter *cp.Vector) {
	if !e.enabled {
		return
	}
	if spawnCenter != nil {
		e.center = *spawnCenter
	}

	want := int(e.intensity * float64(e.cfg.MaxDrops))
	if len(e.drops) > want {
		e.drops = e.drops[:want]
	}
	for len(e.drops) < want {
		e.drops = append(e.drops, e.spawn(true))
	}

	bottom := e.center.Y + e.cfg.Height/2
	halfW := e.cfg.Width / 2
	for i := range e.drops {
		d := &e.drops[i]
		d.pos = d.pos.Add(e.velocity(d.speed).Mult(dt))
		if d.pos.Y > bottom || d.pos.X < e.center.X-halfW || d.pos.X > e.center.X+halfW {
			*d = e.spawn(false)
		}
	}
}

func (e *Effect) velocity(fall float64) cp.Vector {
	return cp.Vector{X: e.wind.X, Y: fall + e.wind.Y}
}

// spawn places a drop anywhere in the box, or along its top edge when
// recycling.
func (e *Effect) spawn(anywhere bool) drop {
	top := e.center.Y - e.cfg.Height/2
	y := top
	if anywhere {
		y = common.Uniform(e.rng, top, top+e.cfg.Height)
	}
	return drop{
		pos: cp.Vector{
			X: common.Uniform(e.rng, e.center.X-e.cfg.Width/2, e.center.X+e.cfg.Width/2),
			Y: y,
		},
		speed: e.cfg.FallSpeed * common.Uniform(e.rng, 0.8, 1.2),
	}
}

// Drops reports how many streaks are alive.
func (e *Effect) Drops() int {
	return len(e.drops)
}

func (e *Effect) Enabled() bool {
	return e.enabled
}

// Draw renders the streaks with camera at the top-left of the screen.
func (e *Effect) Draw(screen *ebiten.Image, camera cp.Vector) {
	if !e.enabled || len(e.drops) == 0 {
		return
	}

	c := e.streakColor()
	for _, d := range e.drops {
		tail := d.pos.Sub(e.velocity(d.speed).Normalize().Mult(e.cfg.StreakLength))
		vector.StrokeLine(screen,
			float32(tail.X-camera.X), float32(tail.Y-camera.Y),
			float32(d.pos.X-camera.X), float32(d.pos.Y-camera.Y),
			1, c, true)
	}
}

// streakColor fades the configured colour with intensity. It is
// non-premultiplied so lowering alpha keeps the hue.
func (e *Effect) streakColor() color.NRGBA {
	c := e.cfg.Color
	c.A = uint8(float64(c.A) * (0.4 + 0.6*e.intensity))
	return c
}
