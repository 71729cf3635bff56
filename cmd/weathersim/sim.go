package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/config"
	"github.com/milk9111/atmosphere/session"
	"github.com/milk9111/atmosphere/sound"
)

// tracingBackend prints every audio command the scheduler issues.
type tracingBackend struct {
	*sound.Headless
	out   io.Writer
	clock *float64
}

func (b *tracingBackend) Play(asset string, opts ambience.PlayOptions) (ambience.Handle, error) {
	done := opts.OnComplete
	opts.OnComplete = func(h ambience.Handle) {
		fmt.Fprintf(b.out, "%8.2fs  done  #%d\n", *b.clock, h)
		if done != nil {
			done(h)
		}
	}

	h, err := b.Headless.Play(asset, opts)
	if err != nil {
		fmt.Fprintf(b.out, "%8.2fs  play  %s failed: %v\n", *b.clock, asset, err)
		return 0, err
	}
	mode := "once"
	if opts.Loop {
		mode = "loop"
	}
	fmt.Fprintf(b.out, "%8.2fs  play  #%d %s (%s, vol %.2f)\n", *b.clock, h, asset, mode, opts.Volume)
	return h, nil
}

func (b *tracingBackend) Stop(h ambience.Handle) {
	b.Headless.Stop(h)
	fmt.Fprintf(b.out, "%8.2fs  stop  #%d\n", *b.clock, h)
}

// sim runs a session against the headless backend at a fixed frame rate.
type sim struct {
	sess    *session.Session
	audio   *tracingBackend
	out     io.Writer
	fps     float64
	elapsed float64
}

func newSim(cfg config.Config, out io.Writer, fps float64, traceAudio bool) (*sim, error) {
	if !(fps > 0) {
		fps = 60
	}
	s := &sim{out: out, fps: fps}

	audioOut := io.Discard
	if traceAudio {
		audioOut = out
	}
	s.audio = &tracingBackend{Headless: sound.NewHeadless(nil), out: audioOut, clock: &s.elapsed}

	sess, err := session.New(session.Options{Config: cfg, Backend: s.audio})
	if err != nil {
		return nil, err
	}
	s.sess = sess
	return s, nil
}

// frames runs n frames, calling each after every frame when non-nil.
func (s *sim) frames(n int, each func(frame int)) {
	dt := 1 / s.fps
	for i := 1; i <= n; i++ {
		s.elapsed += dt
		s.audio.Advance(dt)
		s.sess.Step(dt, nil)
		if each != nil {
			each(i)
		}
	}
}

func (s *sim) step(seconds float64) int {
	n := int(math.Ceil(seconds * s.fps))
	s.frames(n, nil)
	return n
}

func (s *sim) printState() {
	st := s.sess.Weather.State()
	fmt.Fprintf(s.out, "%8.2fs  time %5.1f %-7s  %s -> %s  %-11s %3.0f%%  int %.2f rain %.2f storm %.2f fog %.2f sky %.2f\n",
		s.elapsed, s.sess.Clock.Progress(), s.sess.Clock.TimeOfDay(),
		st.Type, st.Target, st.Phase, st.PhaseProgress*100,
		st.Intensity, st.RainIntensity, st.StormIntensity, st.FogDensity, st.SkyDarkness)
}

func (s *sim) printLayers() {
	d := s.sess.Ambience.Debug()
	if len(d.Sounds) == 0 {
		fmt.Fprintln(s.out, "  (no active layers)")
		return
	}
	for _, snd := range d.Sounds {
		var flags []string
		if snd.FadingOut {
			flags = append(flags, "fading")
		}
		if snd.NextPlayIn >= 0 {
			flags = append(flags, fmt.Sprintf("next %.1fs", snd.NextPlayIn))
		}
		fmt.Fprintf(s.out, "  %-16s %.2f/%.2f  x%d  %s\n",
			snd.LayerID, snd.CurrentVolume, snd.TargetVolume, snd.Handles, strings.Join(flags, " "))
	}
}

func (s *sim) close() {
	s.sess.Close()
}
