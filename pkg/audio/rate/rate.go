// ABOUTME: Sample rate quantization for timer-driven and fixed-rate sinks
// ABOUTME: Maps a requested rate to the nearest rate the hardware can produce
package rate

import "math"

const (
	// AudioShieldExactRate is the I2S frame rate of the SGTL5000 audio shield
	AudioShieldExactRate = 44117.64706

	// AudioShieldRate is AudioShieldExactRate rounded to whole Hz
	AudioShieldRate uint32 = 44118
)

// Quantizer maps a requested sample rate to the rate a sink actually plays at
type Quantizer interface {
	Quantize(requested uint32) uint32
}

// Timer quantizes rates for a countdown timer clocked from the bus clock.
// The timer fires every Period+1 bus cycles.
type Timer struct {
	BusClock uint32

	// MaxPeriod bounds the reload value. Zero means the full 32-bit range.
	MaxPeriod uint32
}

// Period returns the timer reload value (divisor-1) whose callback rate is
// closest to requested. A request of zero is treated as 1Hz and requests
// above the bus clock clamp to a divisor of one.
func (t Timer) Period(requested uint32) uint32 {
	return t.divisor(requested) - 1
}

// Quantize returns the rate produced by Period(requested), rounded to whole Hz
func (t Timer) Quantize(requested uint32) uint32 {
	return t.RateFor(t.Period(requested))
}

// RateFor returns the rounded callback rate for a given reload value
func (t Timer) RateFor(period uint32) uint32 {
	d := uint64(period) + 1
	return uint32((uint64(t.BusClock) + d/2) / d)
}

func (t Timer) divisor(requested uint32) uint32 {
	if t.BusClock == 0 {
		return 1
	}
	if requested == 0 {
		requested = 1
	}

	maxDiv := uint64(math.MaxUint32)
	if t.MaxPeriod != 0 {
		maxDiv = uint64(t.MaxPeriod) + 1
	}

	// f(d) = bus/d is convex, so the best divisor is floor or ceil of bus/requested
	lo := uint64(t.BusClock) / uint64(requested)
	hi := lo + 1
	best := hi
	if lo >= 1 && errorFor(t.BusClock, requested, lo) <= errorFor(t.BusClock, requested, hi) {
		best = lo
	}

	if best < 1 {
		best = 1
	}
	if best > maxDiv {
		best = maxDiv
	}
	return uint32(best)
}

func errorFor(bus, requested uint32, d uint64) float64 {
	return math.Abs(float64(bus)/float64(d) - float64(requested))
}

// Fixed is the quantizer for sinks clocked by their own hardware: every
// request maps to Rate.
type Fixed struct {
	Rate uint32
}

// Quantize returns the fixed hardware rate regardless of requested
func (f Fixed) Quantize(uint32) uint32 {
	return f.Rate
}
