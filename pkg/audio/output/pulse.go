// ABOUTME: PulseAudio-backed host sinks for the DAC and block-streaming drivers
// ABOUTME: Alternative to oto on Linux desktops, talking the native pulse protocol
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/jfreymuth/pulse"
)

// PulseSink plays 16-bit little-endian PCM from an io.Reader on the default
// PulseAudio sink.
type PulseSink struct {
	client *pulse.Client
	stream *pulse.PlaybackStream
}

// NewPulseSink connects to the PulseAudio server and creates a corked
// playback stream. Call Start to begin pulling from src.
func NewPulseSink(src io.Reader, sampleRate, channels int) (*PulseSink, error) {
	var layout pulse.PlaybackOption
	switch channels {
	case 1:
		layout = pulse.PlaybackMono
	case 2:
		layout = pulse.PlaybackStereo
	default:
		return nil, fmt.Errorf("pulse sink: unsupported channel count %d", channels)
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("pmf-player"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pulseaudio: %w", err)
	}

	stream, err := client.NewPlayback(pulse.Int16Reader(pcmReader(src)),
		layout,
		pulse.PlaybackSampleRate(sampleRate),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create pulse playback stream: %w", err)
	}

	return &PulseSink{client: client, stream: stream}, nil
}

// Start uncorks the stream
func (s *PulseSink) Start() {
	if !s.stream.Running() {
		s.stream.Start()
	}
}

// Close stops the stream and disconnects
func (s *PulseSink) Close() error {
	s.stream.Stop()
	s.stream.Close()
	s.client.Close()
	return nil
}

// pcmReader decodes little-endian 16-bit PCM from src into the sample slices
// pulse asks for
func pcmReader(src io.Reader) func([]int16) (int, error) {
	var scratch []byte
	return func(out []int16) (int, error) {
		if cap(scratch) < len(out)*2 {
			scratch = make([]byte, len(out)*2)
		}
		b := scratch[:len(out)*2]
		n, err := io.ReadFull(src, b)
		for i := 0; i < n/2; i++ {
			out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
		}
		return n / 2, err
	}
}

// PulseDAC is a DAC whose writes are played through PulseAudio as mono PCM
type PulseDAC struct {
	*DACStream
	sink *PulseSink
}

// NewPulseDAC opens a mono pulse stream at sampleRate and starts playing the
// staged DAC values
func NewPulseDAC(sampleRate int, bits uint, capacity int) (*PulseDAC, error) {
	stream := NewDACStream(bits, capacity)

	sink, err := NewPulseSink(stream, sampleRate, 1)
	if err != nil {
		return nil, err
	}
	sink.Start()

	log.Printf("DAC output initialized: %dHz, %d-bit (pulse)", sampleRate, stream.bits)

	return &PulseDAC{DACStream: stream, sink: sink}, nil
}

// Close stops playback and disconnects from the server
func (p *PulseDAC) Close() error {
	return p.sink.Close()
}

// PulseGraph is a StreamGraph rendered through PulseAudio. It also acts as
// the codec: enabling uncorks the stream and the volume is the graph gain.
type PulseGraph struct {
	*StreamGraph
	sink *PulseSink
}

var _ Codec = (*PulseGraph)(nil)

// NewPulseGraph opens a pulse stream with one channel per route at sampleRate
func NewPulseGraph(sampleRate, blocks, blockSamples int, routes ...int) (*PulseGraph, error) {
	graph := NewStreamGraph(blocks, blockSamples, routes...)

	sink, err := NewPulseSink(graph, sampleRate, graph.Channels())
	if err != nil {
		return nil, err
	}

	log.Printf("Audio graph initialized: %dHz, %d channels, %d blocks (pulse)",
		sampleRate, graph.Channels(), blocks)

	return &PulseGraph{StreamGraph: graph, sink: sink}, nil
}

// Enable starts pulling audio from the graph
func (p *PulseGraph) Enable() error {
	p.sink.Start()
	return nil
}

// SetVolume sets the graph gain
func (p *PulseGraph) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume %.2f out of range [0, 1]", volume)
	}
	p.StreamGraph.SetGain(volume)
	return nil
}

// Close stops playback and disconnects from the server
func (p *PulseGraph) Close() error {
	return p.sink.Close()
}
