package osc

import (
	"math"
	"time"
)

// Timetag is the raw 64-bit NTP-format value used by bundles: the high 32
// bits are whole seconds since the NTP epoch (1900-01-01), the low 32 bits
// are a binary fraction of a second.
type Timetag uint64

// Immediately is the reserved Timetag value meaning "process this bundle's
// contents as soon as possible", per the OSC 1.0 spec.
const Immediately Timetag = 1

// epoch is the NTP epoch that Timetag seconds are counted from.
var epoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimetagFromTime converts a time.Time to a Timetag. Times at or before the
// NTP epoch encode as the zero Timetag, since the format has no sign bit.
func TimetagFromTime(t time.Time) Timetag {
	seconds := t.Sub(epoch).Seconds()
	if seconds <= 0 {
		return 0
	}
	const stepsPerSecond = float64(int64(1) << 32)
	base, frac := math.Modf(seconds)
	return Timetag((uint64(base) << 32) + uint64(frac*stepsPerSecond))
}

// ToTime converts a Timetag back to a time.Time, assuming UTC.
func (t Timetag) ToTime() time.Time {
	seconds := float64(uint64(t) >> 32)
	seconds += float64(uint64(t)&0xffffffff) / float64(uint64(1)<<32)
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}
