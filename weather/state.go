package weather

import "github.com/jakecoffman/cp"

// State is a read-only snapshot of the weather after an update. It is a plain
// value; holding on to it never observes later frames.
type State struct {
	Type            Type
	Target          Type
	Phase           Phase
	Intensity       float64
	RainIntensity   float64
	StormIntensity  float64
	FogDensity      float64
	SkyDarkness     float64
	IsTransitioning bool
	PhaseProgress   float64
}

// WindState is what a wind collaborator reports back each frame.
type WindState struct {
	Direction      cp.Vector
	Speed          float64
	EffectiveSpeed float64
}

// Wind is the external wind simulation. It is advanced with the previous
// frame's weather intensity.
type Wind interface {
	Update(dt, intensity float64)
	State() WindState
}

// RainEffect is the external rain effect.
type RainEffect interface {
	SetEnabled(enabled bool)
	SetWindFromSystem(direction cp.Vector, speed float64)
	SetIntensity(intensity float64)
	Update(dt float64, spawnCenter *cp.Vector)
}

type disposer interface {
	Dispose()
}

// Debug exposes the controller's internal timers.
type Debug struct {
	Current            Type
	Target             Type
	Phase              Phase
	PhaseElapsed       float64
	PhaseDuration      float64
	PhaseProgress      float64
	AutoChange         bool
	AutoChangeTimer    float64
	AutoChangeInterval float64
	RainEnabled        bool
	Listeners          int
}
