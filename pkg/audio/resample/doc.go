// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Corrects mixer output from the requested to the quantized rate
// Package resample provides audio sample rate conversion.
//
// The output drivers can only play at a quantized rate; a mixer rendering at
// the nominal rate resamples to that rate so pitch stays correct.
//
// Example:
//
//	r := resample.New(44100, 44077, 1)
//	n := r.Resample(input, output)
//	next := input[r.Consumed():]
package resample
