// ABOUTME: Audio fundamentals package providing sample conversion utilities
// ABOUTME: Defines the bit-depth glue between mixer and sinks
// Package audio provides the sample-format conversions used between the
// software mixer and the hardware sinks.
//
// The mixer writes signed 16-bit PCM. Sinks read it back as unsigned values
// of a configured width (12 bits for the on-chip DAC) and, for codec sinks,
// expand it again to signed 16-bit:
//
//	v := audio.Quantize(sample, 12)  // 0..4095, 2048 is silence
//	d := audio.Rescale(v, 12, 16)    // widen for a 16-bit DAC
//	s := audio.ToSigned16(v, 12)     // (v<<4)-32768 for an I2S codec
package audio
