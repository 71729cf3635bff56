package timeofday

import "github.com/milk9111/atmosphere/common"

// Clock advances cycle progress in real time. DayLength is the number of
// seconds one full cycle takes; a non-positive length freezes the clock.
type Clock struct {
	DayLength float64
	progress  float64
}

func NewClock(dayLength, start float64) *Clock {
	return &Clock{DayLength: dayLength, progress: common.Wrap(start, CycleLength)}
}

// Advance moves the clock forward by dt seconds and returns the progress.
func (c *Clock) Advance(dt float64) float64 {
	if c.DayLength > 0 && dt > 0 {
		c.progress = common.Wrap(c.progress+dt*CycleLength/c.DayLength, CycleLength)
	}
	return c.progress
}

// Scrub shifts progress by delta cycle units, wrapping.
func (c *Clock) Scrub(delta float64) float64 {
	c.progress = common.Wrap(c.progress+delta, CycleLength)
	return c.progress
}

func (c *Clock) Set(progress float64) {
	c.progress = common.Wrap(progress, CycleLength)
}

func (c *Clock) Progress() float64 {
	return c.progress
}

func (c *Clock) TimeOfDay() TimeOfDay {
	return Classify(c.progress)
}
