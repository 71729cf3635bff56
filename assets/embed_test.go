package assets

import (
	"bytes"
	"slices"
	"testing"
)

func TestLoadAudio(t *testing.T) {
	for _, path := range []string{"rain_loop.wav", "ambience/rain_loop.wav", "assets/ambience/rain_loop.wav"} {
		t.Run(path, func(t *testing.T) {
			b, err := LoadAudio(path)
			if err != nil {
				t.Fatalf("LoadAudio: %v", err)
			}
			if !bytes.HasPrefix(b, []byte("RIFF")) {
				t.Fatalf("expected a RIFF header")
			}
		})
	}

	if _, err := LoadAudio("missing.wav"); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}

func TestAudioNames(t *testing.T) {
	names := AudioNames()
	for _, want := range []string{"owl_01.wav", "rain_loop.wav", "wind_day.wav"} {
		if !slices.Contains(names, want) {
			t.Fatalf("expected %q in %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Fatalf("names should be sorted: %v", names)
	}
}

func TestCleanAssetPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"assets/ambience/owl_01.wav", "ambience/owl_01.wav"},
		{"/home/me/game/assets/ambience/owl_01.wav", "ambience/owl_01.wav"},
		{"/tmp/owl_01.wav", "owl_01.wav"},
		{"ambience/owl_01.wav", "ambience/owl_01.wav"},
	}
	for _, c := range cases {
		if got := cleanAssetPath(c.in); got != c.want {
			t.Fatalf("cleanAssetPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
