package sound

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
)

// pcmLoader serves one second of silence in ebiten's native format.
func pcmLoader(asset string) ([]byte, error) {
	if asset != "tone.pcm" {
		return nil, errors.New("not found")
	}
	return make([]byte, DefaultSampleRate*bytesPerFrame), nil
}

func TestHeadlessOneShotCompletes(t *testing.T) {
	h := NewHeadless(pcmLoader)

	var completed []ambience.Handle
	handle, err := h.Play("tone.pcm", ambience.PlayOptions{
		Volume:     0.5,
		OnComplete: func(done ambience.Handle) { completed = append(completed, done) },
	})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("completion must not fire inside Play")
	}

	h.Advance(0.75)
	h.Pump()
	if len(completed) != 0 {
		t.Fatalf("clip ended early")
	}

	h.Advance(0.25)
	h.Pump()
	h.Pump()
	if len(completed) != 1 || completed[0] != handle {
		t.Fatalf("expected exactly one completion for %d, got %v", handle, completed)
	}
	if len(h.Voices()) != 0 {
		t.Fatalf("finished clip should be released")
	}
}

func TestHeadlessStopSuppressesCompletion(t *testing.T) {
	h := NewHeadless(pcmLoader)

	fired := false
	handle, err := h.Play("tone.pcm", ambience.PlayOptions{OnComplete: func(ambience.Handle) { fired = true }})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	h.Stop(handle)
	h.Stop(handle)
	h.Advance(5)
	h.Pump()
	if fired {
		t.Fatalf("stopped clip must not complete")
	}
}

func TestHeadlessLoopNeverCompletes(t *testing.T) {
	h := NewHeadless(pcmLoader)

	fired := false
	handle, err := h.Play("tone.pcm", ambience.PlayOptions{Loop: true, Volume: 2, OnComplete: func(ambience.Handle) { fired = true }})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	h.Advance(60)
	h.Pump()
	if fired {
		t.Fatalf("loop must not complete")
	}

	voices := h.Voices()
	if len(voices) != 1 || voices[0].Handle != handle || !math.IsInf(voices[0].Remaining, 1) {
		t.Fatalf("unexpected voices %+v", voices)
	}
	if voices[0].Volume != 1 {
		t.Fatalf("volume should clamp to 1, got %v", voices[0].Volume)
	}

	h.SetVolume(handle, 0.25)
	if got := h.Voices()[0].Volume; got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}

func TestHeadlessPlayErrors(t *testing.T) {
	h := NewHeadless(pcmLoader)
	if _, err := h.Play("missing.wav", ambience.PlayOptions{}); err == nil {
		t.Fatalf("expected load error")
	}
	if len(h.Voices()) != 0 {
		t.Fatalf("failed play must not leave a voice")
	}
}

func TestHeadlessReady(t *testing.T) {
	h := NewHeadless(nil)
	if !h.Initialized() {
		t.Fatalf("headless backend starts ready")
	}
	h.SetReady(false)
	if h.Initialized() {
		t.Fatalf("expected not ready")
	}
}

func TestEmbeddedClipDecodes(t *testing.T) {
	c := newClipCache(nil, DefaultSampleRate)

	pcm, err := c.get("owl_01.wav")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := c.seconds(pcm); math.Abs(got-0.4) > 0.01 {
		t.Fatalf("expected about 0.4s, got %v", got)
	}

	again, err := c.get("owl_01.wav")
	if err != nil || &again[0] != &pcm[0] {
		t.Fatalf("expected cached slice")
	}
}

func TestHeadlessDrivesScheduler(t *testing.T) {
	h := NewHeadless(nil)
	s, err := ambience.NewScheduler(h, []ambience.Layer{{
		ID:          "owl",
		Assets:      []string{"owl_01.wav"},
		TimeOfDay:   []timeofday.TimeOfDay{timeofday.Night},
		BaseVolume:  0.5,
		Mode:        ambience.RandomInterval,
		MinInterval: 1,
		MaxInterval: 1,
	}}, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	const dt = 0.05
	for i := 0; i < 60; i++ {
		h.Advance(dt)
		h.Pump()
		s.Update(5, weather.Clear, dt)
	}

	if h.next < 2 {
		t.Fatalf("expected the owl to retrigger after completions, got %d plays", h.next)
	}
	if n := len(h.Voices()); n > 1 {
		t.Fatalf("short clips should not pile up, got %d voices", n)
	}

	s.Dispose()
	if len(h.Voices()) != 0 {
		t.Fatalf("dispose should stop every clip")
	}
}
