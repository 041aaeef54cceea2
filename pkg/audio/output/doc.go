// ABOUTME: Audio output package for the real-time sample feed
// ABOUTME: Provides the Driver interface, both hardware strategies and host stand-ins
// Package output moves samples from the ring buffer to a hardware sink.
//
// Two strategies satisfy the same Driver contract:
//   - InterruptDAC reads one sample per timer interrupt and writes it to a DAC
//   - BlockStream fills a block per audio-graph callback and transmits it
//
// On a host without the hardware, SoftTimer, DACStream and StreamGraph stand
// in for the timer, DAC and audio graph. OtoDAC/OtoGraph make the result
// audible through oto, PulseDAC/PulseGraph through a PulseAudio server.
//
// Example:
//
//	buf := ringbuf.New(2048)
//	drv := output.NewInterruptDAC(buf, dac, timer, output.DACConfig{BusClock: 48000000})
//	err := drv.Start(44100)
package output
