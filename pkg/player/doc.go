// ABOUTME: Playback controller package
// ABOUTME: Exposes start/stop, the quantized rate and the mixer hand-off
// Package player controls the real-time audio output.
//
// A Player ties one ring buffer to one output driver. The application asks
// for the playable rate, starts playback, and then keeps the buffer full
// from its own loop while the driver drains it from interrupt context:
//
//	actual := p.SamplingFreq(44100)
//	err := p.StartPlayback(44100)
//	for playing {
//	    buf := p.MixerBuffer()
//	    p.MixBuffer(buf, buf.Len())
//	}
//	p.StopPlayback()
package player
