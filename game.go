package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/config"
	"github.com/milk9111/atmosphere/rain"
	"github.com/milk9111/atmosphere/session"
	"github.com/milk9111/atmosphere/sound"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
	"github.com/milk9111/atmosphere/wind"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	volumeStep = 0.1
	scrubStep  = 5.0
)

var skyPalette = map[timeofday.TimeOfDay]color.RGBA{
	timeofday.Night:   colornames.Midnightblue,
	timeofday.Dawn:    colornames.Lightsalmon,
	timeofday.Day:     colornames.Skyblue,
	timeofday.Dusk:    colornames.Coral,
	timeofday.Evening: colornames.Darkslateblue,
}

var weatherKeys = map[ebiten.Key]weather.Type{
	ebiten.Key1: weather.Clear,
	ebiten.Key2: weather.Rain,
	ebiten.Key3: weather.Storm,
}

type Game struct {
	frames    int
	showDebug bool

	session *session.Session
	backend *sound.Backend
	rain    *rain.Effect
	camera  cp.Vector
}

func NewGame(cfg config.Config) (*Game, error) {
	rainCfg := rain.DefaultConfig()
	rainCfg.Width, rainCfg.Height = baseWidth, baseHeight
	r := rain.New(rainCfg, cfg.Seed)
	backend := sound.NewBackend(sound.Context(sound.DefaultSampleRate), nil)

	s, err := session.New(session.Options{
		Config:  cfg,
		Backend: backend,
		Wind:    wind.New(wind.DefaultConfig(), cfg.Seed),
		Rain:    r,
	})
	if err != nil {
		return nil, err
	}

	return &Game{
		showDebug: true,
		session:   s,
		backend:   backend,
		rain:      r,
	}, nil
}

func (g *Game) Update() error {
	g.frames++
	g.handleInput()

	center := g.camera.Add(cp.Vector{X: baseWidth / 2, Y: baseHeight / 2})
	g.session.Step(1/float64(ebiten.TPS()), &center)
	return nil
}

func (g *Game) handleInput() {
	w := g.session.Weather
	for key, t := range weatherKeys {
		if inpututil.IsKeyJustPressed(key) {
			w.TransitionTo(t)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		w.TriggerRandomWeather()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		w.SetWeather(w.TargetType())
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		w.SetAutoChange(!w.Settings().AutoChange)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.showDebug = !g.showDebug
	}

	amb := g.session.Ambience
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		amb.SetMasterVolume(amb.MasterVolume() - volumeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		amb.SetMasterVolume(amb.MasterVolume() + volumeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.session.Clock.Scrub(-scrubStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.session.Clock.Scrub(scrubStep)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	state := g.session.Weather.State()

	screen.Fill(skyColor(g.session.Clock.TimeOfDay(), state.SkyDarkness))
	g.rain.Draw(screen, g.camera)
	if state.FogDensity > 0 {
		vector.FillRect(screen, 0, 0, baseWidth, baseHeight, fogColor(state.FogDensity), false)
	}

	if g.showDebug {
		ebitenutil.DebugPrint(screen, g.debugText(state))
	}
}

// fogColor is light grey whose opacity follows density.
func fogColor(density float64) color.NRGBA {
	c := colornames.Lightgray
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(common.Clamp01(density) * 140)}
}

// skyColor blends the period's sky toward storm grey by darkness.
func skyColor(tod timeofday.TimeOfDay, darkness float64) color.RGBA {
	base := skyPalette[tod]
	storm := colornames.Darkslategray
	t := common.Clamp01(darkness) * 0.85
	mix := func(a, b uint8) uint8 {
		return uint8(common.Lerp(float64(a), float64(b), t))
	}
	return color.RGBA{R: mix(base.R, storm.R), G: mix(base.G, storm.G), B: mix(base.B, storm.B), A: 255}
}

func (g *Game) debugText(state weather.State) string {
	wd := g.session.Weather.Debug()
	ad := g.session.Ambience.Debug()

	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  time: %.1f (%s)\n", ebiten.ActualFPS(), g.session.Clock.Progress(), g.session.Clock.TimeOfDay())
	fmt.Fprintf(&b, "weather: %s -> %s  phase: %s %.0f%%  (%.1f/%.1fs)\n",
		state.Type, state.Target, state.Phase, state.PhaseProgress*100, wd.PhaseElapsed, wd.PhaseDuration)
	fmt.Fprintf(&b, "intensity %.2f  rain %.2f  storm %.2f  fog %.2f  sky %.2f\n",
		state.Intensity, state.RainIntensity, state.StormIntensity, state.FogDensity, state.SkyDarkness)
	fmt.Fprintf(&b, "auto: %v (%.0f/%.0fs)  drops: %d\n", wd.AutoChange, wd.AutoChangeTimer, wd.AutoChangeInterval, g.rain.Drops())
	fmt.Fprintf(&b, "master volume: %.1f  clips: %d\n", ad.MasterVolume, g.backend.Playing())
	for _, s := range ad.Sounds {
		fade := ""
		if s.FadingOut {
			fade = " fading"
		}
		next := ""
		if s.NextPlayIn >= 0 {
			next = fmt.Sprintf(" next %.1fs", s.NextPlayIn)
		}
		fmt.Fprintf(&b, "  %-15s %.2f/%.2f x%d%s%s\n", s.LayerID, s.CurrentVolume, s.TargetVolume, s.Handles, fade, next)
	}
	b.WriteString("\n1/2/3 weather  R random  S snap  A auto  -/= volume  [/] time  Tab hud")
	return b.String()
}

func (g *Game) Close() {
	g.session.Close()
	g.backend.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
