// ABOUTME: Oto-backed host sinks for the DAC and block-streaming drivers
// ABOUTME: Makes the real-time feed audible on a desktop through the oto library
package output

import (
	"fmt"
	"log"

	"github.com/ebitengine/oto/v3"
)

// OtoDAC is a DAC whose writes are played through oto as mono PCM
type OtoDAC struct {
	*DACStream
	otoCtx *oto.Context
	player *oto.Player
}

// NewOtoDAC opens a mono oto context at sampleRate and starts playing the
// staged DAC values. Only one oto context can exist per process.
func NewOtoDAC(sampleRate int, bits uint, capacity int) (*OtoDAC, error) {
	stream := NewDACStream(bits, capacity)

	otoCtx, err := newOtoContext(sampleRate, 1)
	if err != nil {
		return nil, err
	}

	player := otoCtx.NewPlayer(stream)
	player.Play()

	log.Printf("DAC output initialized: %dHz, %d-bit (oto)", sampleRate, stream.bits)

	return &OtoDAC{
		DACStream: stream,
		otoCtx:    otoCtx,
		player:    player,
	}, nil
}

// Close stops playback and suspends the oto context
func (o *OtoDAC) Close() error {
	return closeOto(o.otoCtx, o.player)
}

// OtoGraph is a StreamGraph rendered through oto. It also acts as the codec:
// enabling starts the oto player and the volume is the player's gain.
type OtoGraph struct {
	*StreamGraph
	otoCtx *oto.Context
	player *oto.Player
}

var _ Codec = (*OtoGraph)(nil)

// NewOtoGraph opens an oto context with one channel per route at sampleRate
func NewOtoGraph(sampleRate, blocks, blockSamples int, routes ...int) (*OtoGraph, error) {
	graph := NewStreamGraph(blocks, blockSamples, routes...)

	otoCtx, err := newOtoContext(sampleRate, graph.Channels())
	if err != nil {
		return nil, err
	}

	log.Printf("Audio graph initialized: %dHz, %d channels, %d blocks of %d samples (oto)",
		sampleRate, graph.Channels(), blocks, len(graph.frames)/(graph.Channels()*2))

	return &OtoGraph{
		StreamGraph: graph,
		otoCtx:      otoCtx,
		player:      otoCtx.NewPlayer(graph),
	}, nil
}

// Enable starts pulling audio from the graph
func (o *OtoGraph) Enable() error {
	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	o.player.Play()
	return nil
}

// SetVolume sets the output gain (0.0-1.0)
func (o *OtoGraph) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume %.2f out of range [0, 1]", volume)
	}
	o.player.SetVolume(volume)
	log.Printf("Codec volume set to %.2f", volume)
	return nil
}

// Close stops playback and suspends the oto context
func (o *OtoGraph) Close() error {
	return closeOto(o.otoCtx, o.player)
}

func newOtoContext(sampleRate, channels int) (*oto.Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan
	return otoCtx, nil
}

func closeOto(otoCtx *oto.Context, player *oto.Player) error {
	if player != nil {
		if err := player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
	}
	if otoCtx != nil {
		if err := otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}
