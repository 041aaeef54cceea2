// ABOUTME: Audio type definitions and bit-depth conversion
// ABOUTME: Maps mixer PCM onto the unsigned and signed ranges hardware sinks expect
package audio

const (
	// DefaultSampleBits is the bit depth the mixer output is quantized to
	// before it reaches a sink (12-bit DAC).
	DefaultSampleBits = 12

	// MaxSampleBits is the widest unsigned sample a sink can request.
	MaxSampleBits = 16
)

// Quantize converts a signed 16-bit mixer sample to an unsigned value of
// the given width. Mid-scale (silence) maps to 1<<(bits-1).
func Quantize(sample int16, bits uint) uint16 {
	bits = clampBits(bits)
	return uint16(int32(sample)+32768) >> (MaxSampleBits - bits)
}

// Rescale widens or narrows an unsigned sample from one bit width to another
func Rescale(v uint16, from, to uint) uint16 {
	from, to = clampBits(from), clampBits(to)
	switch {
	case to > from:
		return v << (to - from)
	case to < from:
		return v >> (from - to)
	}
	return v
}

// ToSigned16 expands an unsigned sample of the given width to the signed
// 16-bit range. For 12-bit input this is (v<<4)-32768.
func ToSigned16(v uint16, bits uint) int16 {
	bits = clampBits(bits)
	return int16(int32(v)<<(MaxSampleBits-bits) - 32768)
}

// Silence returns the unsigned mid-scale value for the given width
func Silence(bits uint) uint16 {
	return Quantize(0, bits)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}

// SampleFromInt16 converts int16 sample to int32 for resampling
func SampleFromInt16(sample int16) int32 {
	return int32(sample)
}

func clampBits(bits uint) uint {
	if bits == 0 {
		return 1
	}
	if bits > MaxSampleBits {
		return MaxSampleBits
	}
	return bits
}
