package sound

import (
	"cmp"
	"math"
	"slices"

	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/logging"
)

type headlessVoice struct {
	asset      string
	loop       bool
	volume     float64
	endsAt     float64
	onComplete func(ambience.Handle)
}

// Headless decodes clips like Backend but plays nothing. Clips end when the
// clock passed to Advance reaches their decoded length.
type Headless struct {
	clips  *clipCache
	voices map[ambience.Handle]*headlessVoice
	next   ambience.Handle
	now    float64
	ready  bool
}

// NewHeadless reads clips from load, or the embedded assets when load is nil.
func NewHeadless(load Loader) *Headless {
	return &Headless{
		clips:  newClipCache(load, DefaultSampleRate),
		voices: make(map[ambience.Handle]*headlessVoice),
		ready:  true,
	}
}

// SetReady controls what Initialized reports.
func (h *Headless) SetReady(ready bool) {
	h.ready = ready
}

func (h *Headless) Initialized() bool {
	return h.ready
}

func (h *Headless) Play(asset string, opts ambience.PlayOptions) (ambience.Handle, error) {
	pcm, err := h.clips.get(asset)
	if err != nil {
		return 0, err
	}

	h.next++
	v := &headlessVoice{
		asset:      asset,
		loop:       opts.Loop,
		volume:     common.Clamp01(opts.Volume),
		endsAt:     math.Inf(1),
		onComplete: opts.OnComplete,
	}
	if !opts.Loop {
		v.endsAt = h.now + h.clips.seconds(pcm)
	}
	h.voices[h.next] = v
	logging.Tracef("sound: headless play %d %q loop=%v", h.next, asset, opts.Loop)
	return h.next, nil
}

func (h *Headless) Stop(handle ambience.Handle) {
	delete(h.voices, handle)
}

func (h *Headless) SetVolume(handle ambience.Handle, volume float64) {
	if v, ok := h.voices[handle]; ok {
		v.volume = common.Clamp01(volume)
	}
}

// Advance moves the playback clock forward by dt seconds.
func (h *Headless) Advance(dt float64) {
	if dt > 0 {
		h.now += dt
	}
}

// Pump fires completion callbacks for clips whose end has passed.
func (h *Headless) Pump() {
	var done []ambience.Handle
	for handle, v := range h.voices {
		if h.now >= v.endsAt {
			done = append(done, handle)
		}
	}
	slices.Sort(done)

	for _, handle := range done {
		v, ok := h.voices[handle]
		if !ok {
			continue
		}
		delete(h.voices, handle)
		if v.onComplete != nil {
			v.onComplete(handle)
		}
	}
}

// Voice describes one clip the headless backend considers playing.
type Voice struct {
	Handle ambience.Handle
	Asset  string
	Loop   bool
	Volume float64
	// Remaining is the time left for one-shots and +Inf for loops.
	Remaining float64
}

// Voices lists the playing clips ordered by handle.
func (h *Headless) Voices() []Voice {
	out := make([]Voice, 0, len(h.voices))
	for handle, v := range h.voices {
		out = append(out, Voice{
			Handle:    handle,
			Asset:     v.asset,
			Loop:      v.loop,
			Volume:    v.volume,
			Remaining: v.endsAt - h.now,
		})
	}
	slices.SortFunc(out, func(a, b Voice) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return out
}
