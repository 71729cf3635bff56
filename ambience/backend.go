package ambience

// Handle identifies one playing clip instance.
type Handle uint64

// PlayOptions configures a single Play request.
type PlayOptions struct {
	Loop   bool
	Volume float64
	// OnComplete fires at most once when a non-looping clip finishes on its
	// own. It is called later from the goroutine that drives the backend,
	// never from inside Play and never after Stop.
	OnComplete func(Handle)
}

// Backend is the audio engine the scheduler plays through.
type Backend interface {
	// Initialized reports whether the backend can accept Play calls yet.
	Initialized() bool
	Play(asset string, opts PlayOptions) (Handle, error)
	Stop(h Handle)
	SetVolume(h Handle, volume float64)
}
