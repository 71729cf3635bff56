package main

import "testing"

func TestFogColor(t *testing.T) {
	cases := []struct {
		density float64
		alpha   uint8
	}{
		{0, 0},
		{0.5, 70},
		{1, 140},
		{3, 140},
	}
	for _, c := range cases {
		got := fogColor(c.density)
		if got.A != c.alpha {
			t.Fatalf("density %v: expected alpha %d, got %d", c.density, c.alpha, got.A)
		}
		r, g, b, a := got.RGBA()
		if r > a || g > a || b > a {
			t.Fatalf("density %v: premultiplied channels exceed alpha: %d %d %d %d", c.density, r, g, b, a)
		}
	}
}
