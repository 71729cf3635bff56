package ambience

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/milk9111/atmosphere/timeofday"
	"github.com/milk9111/atmosphere/weather"
)

// Mode decides how a layer's clips are played.
type Mode int

const (
	// Loop plays one clip on repeat for as long as the layer is active.
	Loop Mode = iota
	// RandomInterval plays one-shot clips separated by a random pause.
	RandomInterval
)

var (
	ErrNoAssets    = errors.New("ambience: layer has no assets")
	ErrUnknownMode = errors.New("ambience: unknown playback mode")
)

func (m Mode) String() string {
	switch m {
	case Loop:
		return "loop"
	case RandomInterval:
		return "random_interval"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "loop" and "random_interval".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loop", "":
		return Loop, nil
	case "random_interval":
		return RandomInterval, nil
	default:
		return Loop, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Layer is one configured ambience sound. It plays while the time of day is
// in TimeOfDay and, when Weather is non-empty, the weather is in Weather.
type Layer struct {
	ID          string
	Assets      []string
	TimeOfDay   []timeofday.TimeOfDay
	Weather     []weather.Type
	BaseVolume  float64
	FadeIn      float64
	FadeOut     float64
	Mode        Mode
	MinInterval float64
	MaxInterval float64
}

// Eligible reports whether the layer should be audible under tod and w.
func (l Layer) Eligible(tod timeofday.TimeOfDay, w weather.Type) bool {
	if !slices.Contains(l.TimeOfDay, tod) {
		return false
	}
	return len(l.Weather) == 0 || slices.Contains(l.Weather, w)
}

// Validate checks the layer can be scheduled.
func (l Layer) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("ambience: layer id is empty")
	}
	if len(l.Assets) == 0 {
		return fmt.Errorf("%w: %s", ErrNoAssets, l.ID)
	}
	if l.BaseVolume < 0 || l.BaseVolume > 1 {
		return fmt.Errorf("ambience: layer %s: base volume %v outside [0,1]", l.ID, l.BaseVolume)
	}
	if l.FadeIn < 0 || l.FadeOut < 0 {
		return fmt.Errorf("ambience: layer %s: negative fade", l.ID)
	}
	switch l.Mode {
	case Loop:
	case RandomInterval:
		if l.MinInterval <= 0 || l.MaxInterval < l.MinInterval {
			return fmt.Errorf("ambience: layer %s: interval [%v,%v] must be positive and ordered", l.ID, l.MinInterval, l.MaxInterval)
		}
	default:
		return fmt.Errorf("%w: layer %s", ErrUnknownMode, l.ID)
	}
	return nil
}

func validateLayers(layers []Layer) error {
	seen := make(map[string]struct{}, len(layers))
	for _, l := range layers {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("ambience: duplicate layer id %q", l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}
