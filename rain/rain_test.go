package rain

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestDisabledRainIsInert(t *testing.T) {
	e := New(DefaultConfig(), 1)
	e.SetIntensity(1)
	e.Update(0.1, &cp.Vector{})
	if e.Drops() != 0 {
		t.Fatalf("disabled rain spawned %d drops", e.Drops())
	}
}

func TestDropCountFollowsIntensity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrops = 100

	cases := []struct {
		intensity float64
		want      int
	}{
		{1, 100},
		{0.5, 50},
		{0.25, 25},
		{2, 100},
	}

	e := New(cfg, 1)
	e.SetEnabled(true)
	for _, c := range cases {
		e.SetIntensity(c.intensity)
		e.Update(1.0/60, &cp.Vector{X: 10, Y: 10})
		if e.Drops() != c.want {
			t.Fatalf("intensity %v: expected %d drops, got %d", c.intensity, c.want, e.Drops())
		}
	}

	e.SetEnabled(false)
	if e.Drops() != 0 || e.Enabled() {
		t.Fatalf("disabling should clear drops")
	}
}

func TestDropsStayInsideSpawnBox(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrops = 200
	e := New(cfg, 3)
	e.SetEnabled(true)
	e.SetIntensity(1)
	e.SetWindFromSystem(cp.Vector{X: 1}, 100)

	center := cp.Vector{X: 500, Y: -200}
	for i := 0; i < 240; i++ {
		e.Update(1.0/60, &center)
	}
	for _, d := range e.drops {
		if d.pos.X < center.X-cfg.Width/2 || d.pos.X > center.X+cfg.Width/2 {
			t.Fatalf("drop x %v escaped the box", d.pos.X)
		}
		if d.pos.Y < center.Y-cfg.Height/2 || d.pos.Y > center.Y+cfg.Height/2 {
			t.Fatalf("drop y %v escaped the box", d.pos.Y)
		}
	}
}

func TestWindSlantsRain(t *testing.T) {
	e := New(DefaultConfig(), 1)
	e.SetWindFromSystem(cp.Vector{X: 1}, 50)
	v := e.velocity(700)
	if v.X != 50*DefaultConfig().WindInfluence || v.Y != 700 {
		t.Fatalf("unexpected velocity %v", v)
	}
}

func TestStreakColorKeepsHue(t *testing.T) {
	e := New(DefaultConfig(), 1)

	cases := []struct {
		intensity float64
		alpha     uint8
	}{
		{0, 80},
		{0.5, 140},
		{1, 200},
	}
	for _, c := range cases {
		e.SetIntensity(c.intensity)
		got := e.streakColor()
		if got.A != c.alpha {
			t.Fatalf("intensity %v: expected alpha %d, got %d", c.intensity, c.alpha, got.A)
		}
		if got.R != 170 || got.G != 190 || got.B != 220 {
			t.Fatalf("intensity %v: hue changed to %+v", c.intensity, got)
		}
		r, g, b, a := got.RGBA()
		if r > a || g > a || b > a {
			t.Fatalf("intensity %v: premultiplied channels exceed alpha: %d %d %d %d", c.intensity, r, g, b, a)
		}
	}
}
