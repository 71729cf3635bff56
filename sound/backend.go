package sound

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/atmosphere/ambience"
	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/logging"
)

var (
	_ ambience.Backend = (*Backend)(nil)
	_ ambience.Backend = (*Headless)(nil)
)

type voice struct {
	asset      string
	player     *audio.Player
	loop       bool
	onComplete func(ambience.Handle)
}

// Backend plays ambience clips on an ebiten audio context.
type Backend struct {
	ctx    *audio.Context
	clips  *clipCache
	voices map[ambience.Handle]*voice
	next   ambience.Handle
}

// Context returns the process audio context, creating it at sampleRate if
// none exists yet. ebiten allows only one per process.
func Context(sampleRate int) *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return audio.NewContext(sampleRate)
}

// NewBackend plays clips from load on ctx. A nil load reads the embedded
// assets.
func NewBackend(ctx *audio.Context, load Loader) *Backend {
	return &Backend{
		ctx:    ctx,
		clips:  newClipCache(load, ctx.SampleRate()),
		voices: make(map[ambience.Handle]*voice),
	}
}

func (b *Backend) Initialized() bool {
	return b.ctx != nil && b.ctx.IsReady()
}

func (b *Backend) Play(asset string, opts ambience.PlayOptions) (ambience.Handle, error) {
	pcm, err := b.clips.get(asset)
	if err != nil {
		return 0, err
	}

	var p *audio.Player
	if opts.Loop {
		p, err = b.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
		if err != nil {
			return 0, fmt.Errorf("sound: player %q: %w", asset, err)
		}
	} else {
		p = b.ctx.NewPlayerFromBytes(pcm)
	}
	p.SetVolume(common.Clamp01(opts.Volume))
	p.Play()

	b.next++
	h := b.next
	b.voices[h] = &voice{asset: asset, player: p, loop: opts.Loop, onComplete: opts.OnComplete}
	logging.Tracef("sound: play %d %q loop=%v", h, asset, opts.Loop)
	return h, nil
}

func (b *Backend) Stop(h ambience.Handle) {
	v, ok := b.voices[h]
	if !ok {
		return
	}
	delete(b.voices, h)
	b.release(h, v)
}

func (b *Backend) SetVolume(h ambience.Handle, volume float64) {
	if v, ok := b.voices[h]; ok {
		v.player.SetVolume(common.Clamp01(volume))
	}
}

// Pump releases one-shot clips that finished and fires their completion
// callbacks. Call it once per frame from the game loop.
func (b *Backend) Pump() {
	var done []ambience.Handle
	for h, v := range b.voices {
		if !v.loop && !v.player.IsPlaying() {
			done = append(done, h)
		}
	}
	slices.Sort(done)

	for _, h := range done {
		v, ok := b.voices[h]
		if !ok {
			continue
		}
		delete(b.voices, h)
		b.release(h, v)
		if v.onComplete != nil {
			v.onComplete(h)
		}
	}
}

// Playing reports how many clips are alive.
func (b *Backend) Playing() int {
	return len(b.voices)
}

// Close stops every clip.
func (b *Backend) Close() {
	for h, v := range b.voices {
		delete(b.voices, h)
		b.release(h, v)
	}
}

func (b *Backend) release(h ambience.Handle, v *voice) {
	v.player.Pause()
	if err := v.player.Close(); err != nil {
		logging.Warnf("sound: close %d %q: %v", h, v.asset, err)
	}
}
