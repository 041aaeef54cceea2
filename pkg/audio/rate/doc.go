// ABOUTME: Sample rate quantization package
// ABOUTME: Computes achievable timer rates for the output drivers
// Package rate computes the sample rate a sink will really play at.
//
// A timer-driven DAC can only divide its bus clock by an integer, so a
// request of 44100Hz on a 16MHz bus becomes 16000000/363 = 44077Hz. The
// mixer must resample to the returned rate, not the requested one.
//
// Example:
//
//	q := rate.Timer{BusClock: 16000000}
//	actual := q.Quantize(44100) // 44077
package rate
