package importer

import "math"

// DefaultTicksPerBar is the project tick resolution of one 4/4 bar.
const DefaultTicksPerBar = 192

// beatsPerBar is fixed at 4. Tick conversion ignores mid-file
// time-signature changes; the changes are still recorded as curves.
const beatsPerBar = 4.0

// Timebase converts beat-relative times to project tick positions.
type Timebase struct {
	TicksPerBar int
}

// DefaultTimebase returns a Timebase at the default tick resolution.
func DefaultTimebase() Timebase {
	return Timebase{TicksPerBar: DefaultTicksPerBar}
}

// TicksPerBeat returns the tick count of one beat.
func (tb Timebase) TicksPerBeat() float64 {
	return float64(tb.TicksPerBar) / beatsPerBar
}

// Ticks converts a beat time to the nearest tick position. Monotonic
// non-decreasing in beats.
func (tb Timebase) Ticks(beats float64) int {
	return int(math.Round(beats * tb.TicksPerBeat()))
}

// BarStart returns the bar boundary at or before tick.
func (tb Timebase) BarStart(tick int) int {
	return tick - tick%tb.TicksPerBar
}
