// Package timeofday buckets a day-cycle progress value into coarse periods.
package timeofday

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/atmosphere/common"
)

type TimeOfDay int

const (
	Night TimeOfDay = iota
	Dawn
	Day
	Dusk
	Evening
)

// CycleLength is the span of a full day cycle in progress units.
const CycleLength = 100.0

var ErrUnknown = errors.New("timeofday: unknown time of day")

// All lists every period in cycle order starting at midnight.
var All = []TimeOfDay{Night, Dawn, Day, Dusk, Evening}

// Classify maps cycle progress (0-100, wrapping) to a period.
// Boundaries are half-open: [0,12.5) Night, [12.5,25) Dawn, [25,62.5) Day,
// [62.5,75) Dusk, [75,87.5) Evening, [87.5,100] Night.
func Classify(progress float64) TimeOfDay {
	if progress != CycleLength {
		progress = common.Wrap(progress, CycleLength)
	}
	switch {
	case progress < 12.5:
		return Night
	case progress < 25:
		return Dawn
	case progress < 62.5:
		return Day
	case progress < 75:
		return Dusk
	case progress < 87.5:
		return Evening
	default:
		return Night
	}
}

func (t TimeOfDay) String() string {
	switch t {
	case Night:
		return "night"
	case Dawn:
		return "dawn"
	case Day:
		return "day"
	case Dusk:
		return "dusk"
	case Evening:
		return "evening"
	default:
		return fmt.Sprintf("timeofday(%d)", int(t))
	}
}

// Parse accepts the lower-case names produced by String.
func Parse(s string) (TimeOfDay, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range All {
		if t.String() == name {
			return t, nil
		}
	}
	return Night, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Names returns the names of every period, in cycle order.
func Names() []string {
	names := make([]string, 0, len(All))
	for _, t := range All {
		names = append(names, t.String())
	}
	return names
}

// Midpoint returns the progress value in the middle of t's first interval.
func Midpoint(t TimeOfDay) float64 {
	switch t {
	case Dawn:
		return 18.75
	case Day:
		return 43.75
	case Dusk:
		return 68.75
	case Evening:
		return 81.25
	default:
		return 6.25
	}
}
