// Package ambience schedules looping and intermittent sound layers from the
// time of day and the current weather.
package ambience

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/milk9111/atmosphere/common"
	"github.com/milk9111/atmosphere/logging"
	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
)

// activeSound is the runtime state of a layer that is playing or fading out.
type activeSound struct {
	layer   Layer
	asset   string
	handles map[Handle]struct{}

	targetVolume  float64
	currentVolume float64
	fadeSpeed     float64
	fadingOut     bool

	nextPlayTime float64
	hasNextPlay  bool
}

// Scheduler reconciles the set of playing layers against the current
// conditions. Starts and stops caused by condition changes are only issued
// when the (time of day, weather) pair changes; fades and random re-triggers
// advance every frame.
//
// A Scheduler is owned by the host loop and must only be used from that
// goroutine, the same one that pumps the backend's completion callbacks.
type Scheduler struct {
	backend Backend
	rng     *rand.Rand

	layers []Layer
	index  map[string]int

	active      map[string]*activeSound
	activeOrder []string
	// retired entries were replaced by a reload and only fade out.
	retired []*activeSound

	master float64
	now    float64

	primed      bool
	lastTOD     timeofday.TimeOfDay
	lastWeather weather.Type
	disposed    bool
}

// NewScheduler validates layers and returns a scheduler playing through
// backend at full master volume.
func NewScheduler(backend Backend, layers []Layer, seed int64) (*Scheduler, error) {
	if err := validateLayers(layers); err != nil {
		return nil, err
	}

	s := &Scheduler{
		backend: backend,
		rng:     common.SeededRand(seed, "ambience"),
		active:  make(map[string]*activeSound),
		master:  1,
	}
	s.setLayers(layers)
	return s, nil
}

func (s *Scheduler) setLayers(layers []Layer) {
	s.layers = slices.Clone(layers)
	s.index = make(map[string]int, len(layers))
	for i, l := range s.layers {
		s.index[l.ID] = i
	}
}

// Update classifies cycleProgress, reconciles layers if the conditions
// changed, then advances fades and random triggers by dt seconds. Nothing
// happens until the backend reports it is initialised.
func (s *Scheduler) Update(cycleProgress float64, w weather.Type, dt float64) {
	if s.disposed || s.backend == nil || !s.backend.Initialized() {
		return
	}
	if !(dt > 0) {
		dt = 0
	}
	s.now += dt

	tod := timeofday.Classify(cycleProgress)
	if !s.primed || tod != s.lastTOD || w != s.lastWeather {
		s.primed = true
		s.lastTOD = tod
		s.lastWeather = w
		s.reconcile(tod, w)
	}

	s.tick(dt)
}

func (s *Scheduler) reconcile(tod timeofday.TimeOfDay, w weather.Type) {
	logging.Debugf("ambience: reconcile %s/%s", tod, w)

	for _, layer := range s.layers {
		shouldPlay := layer.Eligible(tod, w)
		a, tracked := s.active[layer.ID]

		switch {
		case shouldPlay && !tracked:
			s.startSound(layer)
		case shouldPlay && a.fadingOut:
			s.revive(a)
		case !shouldPlay && tracked:
			s.stopSound(layer.ID)
		}
	}
}

func (s *Scheduler) startSound(layer Layer) {
	asset := s.pickAsset(layer)
	volume := layer.BaseVolume * s.master

	h, err := s.play(layer, asset, volume)
	if err != nil {
		logging.Warnf("ambience: start %s (%q): %v", layer.ID, asset, err)
		return
	}

	a := &activeSound{
		layer:         layer,
		asset:         asset,
		handles:       map[Handle]struct{}{h: {}},
		targetVolume:  volume,
		currentVolume: volume,
		fadeSpeed:     fadeRate(layer.BaseVolume, layer.FadeIn),
	}
	if layer.Mode == RandomInterval {
		s.scheduleNext(a)
	}

	s.active[layer.ID] = a
	s.activeOrder = append(s.activeOrder, layer.ID)
	logging.Infof("ambience: start %s (%q) at %.2f", layer.ID, asset, volume)
}

// stopSound starts the fade out; the handles are stopped once it is silent.
func (s *Scheduler) stopSound(id string) {
	a, ok := s.active[id]
	if !ok || a.fadingOut {
		return
	}
	a.fadingOut = true
	a.fadeSpeed = fadeRate(a.currentVolume, a.layer.FadeOut)
	logging.Infof("ambience: fade out %s over %.1fs", id, a.layer.FadeOut)
}

// revive cancels a fade out for a layer that became desired again.
func (s *Scheduler) revive(a *activeSound) {
	a.fadingOut = false
	a.targetVolume = a.layer.BaseVolume * s.master
	a.fadeSpeed = fadeRate(a.layer.BaseVolume, a.layer.FadeIn)
	if a.layer.Mode == RandomInterval && !a.hasNextPlay {
		s.scheduleNext(a)
	}
	logging.Infof("ambience: revive %s", a.layer.ID)
}

func (s *Scheduler) tick(dt float64) {
	kept := s.activeOrder[:0]
	for _, id := range s.activeOrder {
		a := s.active[id]
		if s.tickSound(a, dt) {
			kept = append(kept, id)
			continue
		}
		delete(s.active, id)
	}
	clear(s.activeOrder[len(kept):])
	s.activeOrder = kept

	s.retired = slices.DeleteFunc(s.retired, func(a *activeSound) bool {
		return !s.tickSound(a, dt)
	})
}

// tickSound advances one layer and reports whether it is still tracked.
func (s *Scheduler) tickSound(a *activeSound, dt float64) bool {
	if a.fadingOut {
		a.currentVolume -= fadeStep(a.fadeSpeed, dt)
		if a.currentVolume <= 0 {
			for _, h := range sortedHandles(a.handles) {
				s.backend.Stop(h)
			}
			logging.Infof("ambience: stopped %s", a.layer.ID)
			return false
		}
		s.applyVolume(a)
		return true
	}

	if a.currentVolume != a.targetVolume {
		a.currentVolume = common.Approach(a.currentVolume, a.targetVolume, fadeStep(a.fadeSpeed, dt))
		s.applyVolume(a)
	}

	if a.hasNextPlay && s.now >= a.nextPlayTime {
		a.hasNextPlay = false
		s.retrigger(a)
	}
	return true
}

// retrigger starts another instance of a random-interval layer. The earlier
// clip may still be sounding, so the new handle joins the set instead of
// replacing it.
func (s *Scheduler) retrigger(a *activeSound) {
	asset := s.pickAsset(a.layer)
	h, err := s.play(a.layer, asset, a.currentVolume)
	if err != nil {
		logging.Warnf("ambience: trigger %s (%q): %v", a.layer.ID, asset, err)
		s.scheduleNext(a)
		return
	}
	a.asset = asset
	a.handles[h] = struct{}{}
	logging.Debugf("ambience: trigger %s (%q), %d sounding", a.layer.ID, asset, len(a.handles))
}

func (s *Scheduler) play(layer Layer, asset string, volume float64) (Handle, error) {
	id := layer.ID
	return s.backend.Play(asset, PlayOptions{
		Loop:   layer.Mode == Loop,
		Volume: volume,
		OnComplete: func(h Handle) {
			s.onComplete(id, h)
		},
	})
}

// onComplete may run long after the layer was stopped, replaced or disposed.
func (s *Scheduler) onComplete(id string, h Handle) {
	if s.disposed {
		return
	}
	a, ok := s.active[id]
	if !ok {
		return
	}
	if _, ok := a.handles[h]; !ok {
		return
	}
	delete(a.handles, h)

	if a.layer.Mode == RandomInterval && !a.fadingOut {
		s.scheduleNext(a)
	}
}

func (s *Scheduler) scheduleNext(a *activeSound) {
	a.nextPlayTime = s.now + common.Uniform(s.rng, a.layer.MinInterval, a.layer.MaxInterval)
	a.hasNextPlay = true
}

func (s *Scheduler) pickAsset(layer Layer) string {
	if len(layer.Assets) == 1 {
		return layer.Assets[0]
	}
	return layer.Assets[s.rng.IntN(len(layer.Assets))]
}

func (s *Scheduler) applyVolume(a *activeSound) {
	v := common.Clamp01(a.currentVolume)
	for h := range a.handles {
		s.backend.SetVolume(h, v)
	}
}

// SetMasterVolume clamps v to [0,1] and retargets every tracked layer
// without restarting playback.
func (s *Scheduler) SetMasterVolume(v float64) {
	s.master = common.Clamp01(v)
	for _, a := range s.active {
		a.targetVolume = a.layer.BaseVolume * s.master
	}
}

func (s *Scheduler) MasterVolume() float64 {
	return s.master
}

// ReplaceLayers swaps the catalog. Tracked layers that no longer exist fade
// out, the rest keep playing with their new settings, and the next Update
// reconciles against the new catalog. A layer whose mode or assets changed
// fades out and is started again from the new definition.
func (s *Scheduler) ReplaceLayers(layers []Layer) error {
	if err := validateLayers(layers); err != nil {
		return err
	}
	s.setLayers(layers)

	var changed []string
	for _, id := range s.activeOrder {
		a := s.active[id]
		if i, ok := s.index[id]; ok {
			next := s.layers[i]
			if next.Mode != a.layer.Mode || !slices.Equal(next.Assets, a.layer.Assets) {
				changed = append(changed, id)
				continue
			}
			a.layer = next
			if !a.fadingOut {
				a.targetVolume = a.layer.BaseVolume * s.master
				a.fadeSpeed = fadeRate(a.layer.BaseVolume, a.layer.FadeIn)
			}
			continue
		}
		s.stopSound(id)
	}
	for _, id := range changed {
		s.retire(id)
	}
	s.primed = false
	return nil
}

// retire untracks a layer so a fresh instance can start under the same id,
// while the old handles fade out on their own.
func (s *Scheduler) retire(id string) {
	a := s.active[id]
	delete(s.active, id)
	s.activeOrder = slices.DeleteFunc(s.activeOrder, func(v string) bool { return v == id })

	a.hasNextPlay = false
	if !a.fadingOut {
		a.fadingOut = true
		a.fadeSpeed = fadeRate(a.currentVolume, a.layer.FadeOut)
	}
	s.retired = append(s.retired, a)
	logging.Infof("ambience: restart %s after reload", id)
}

// Layers returns a copy of the catalog.
func (s *Scheduler) Layers() []Layer {
	return slices.Clone(s.layers)
}

// ActiveLayers returns the ids of tracked layers in start order.
func (s *Scheduler) ActiveLayers() []string {
	return slices.Clone(s.activeOrder)
}

// Dispose stops every handle of every tracked layer and forgets them.
// Calling it again does nothing.
func (s *Scheduler) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	for _, id := range s.activeOrder {
		for _, h := range sortedHandles(s.active[id].handles) {
			s.backend.Stop(h)
		}
	}
	for _, a := range s.retired {
		for _, h := range sortedHandles(a.handles) {
			s.backend.Stop(h)
		}
	}
	clear(s.active)
	s.activeOrder = nil
	s.retired = nil
}

// SoundDebug describes one tracked layer.
type SoundDebug struct {
	LayerID       string
	Asset         string
	Handles       int
	CurrentVolume float64
	TargetVolume  float64
	FadingOut     bool
	// NextPlayIn is the time until the next random trigger, or -1.
	NextPlayIn float64
}

// Debug is a read-only view of the scheduler for overlays and tooling.
type Debug struct {
	Primed       bool
	TimeOfDay    timeofday.TimeOfDay
	Weather      weather.Type
	MasterVolume float64
	Clock        float64
	Sounds       []SoundDebug
}

func (s *Scheduler) Debug() Debug {
	d := Debug{
		Primed:       s.primed,
		TimeOfDay:    s.lastTOD,
		Weather:      s.lastWeather,
		MasterVolume: s.master,
		Clock:        s.now,
		Sounds:       make([]SoundDebug, 0, len(s.activeOrder)),
	}
	for _, id := range s.activeOrder {
		d.Sounds = append(d.Sounds, s.soundDebug(s.active[id]))
	}
	for _, a := range s.retired {
		d.Sounds = append(d.Sounds, s.soundDebug(a))
	}
	return d
}

func (s *Scheduler) soundDebug(a *activeSound) SoundDebug {
	next := -1.0
	if a.hasNextPlay {
		next = math.Max(0, a.nextPlayTime-s.now)
	}
	return SoundDebug{
		LayerID:       a.layer.ID,
		Asset:         a.asset,
		Handles:       len(a.handles),
		CurrentVolume: a.currentVolume,
		TargetVolume:  a.targetVolume,
		FadingOut:     a.fadingOut,
		NextPlayIn:    next,
	}
}

func sortedHandles(set map[Handle]struct{}) []Handle {
	out := make([]Handle, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

func fadeRate(amount, duration float64) float64 {
	if duration <= 0 {
		return math.Inf(1)
	}
	return amount / duration
}

func fadeStep(rate, dt float64) float64 {
	if math.IsInf(rate, 1) {
		return rate
	}
	return rate * dt
}
