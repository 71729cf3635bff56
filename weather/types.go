package weather

import (
	"errors"
	"fmt"
	"strings"
)

// Type is a discrete weather target.
type Type int

const (
	Clear Type = iota
	Rain
	Storm
)

// Types lists every weather type in declaration order.
var Types = []Type{Clear, Rain, Storm}

var ErrUnknownType = errors.New("weather: unknown type")

func (t Type) String() string {
	switch t {
	case Clear:
		return "clear"
	case Rain:
		return "rain"
	case Storm:
		return "storm"
	default:
		return fmt.Sprintf("weather(%d)", int(t))
	}
}

// ParseType accepts the lower-case names produced by String.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types {
		if t.String() == name {
			return t, nil
		}
	}
	return Clear, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// TypeNames returns the names of every weather type.
func TypeNames() []string {
	names := make([]string, 0, len(Types))
	for _, t := range Types {
		names = append(names, t.String())
	}
	return names
}

// Phase is the lifecycle stage of a weather transition.
type Phase int

const (
	PhaseClear Phase = iota
	PhaseApproaching
	PhaseArriving
	PhasePeak
	PhaseDeparting
)

func (p Phase) String() string {
	switch p {
	case PhaseClear:
		return "clear"
	case PhaseApproaching:
		return "approaching"
	case PhaseArriving:
		return "arriving"
	case PhasePeak:
		return "peak"
	case PhaseDeparting:
		return "departing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Transitioning reports whether p is one of the moving phases.
func (p Phase) Transitioning() bool {
	return p != PhaseClear && p != PhasePeak
}
