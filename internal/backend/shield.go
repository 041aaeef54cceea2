//go:build shield

// ABOUTME: Audio shield backend, selected with the shield build tag
// ABOUTME: Streams 128-sample blocks through an oto or pulse rendered audio graph
package backend

import (
	"fmt"
	"io"
	"log"

	"github.com/Profoundic/pmf-go/internal/config"
	"github.com/Profoundic/pmf-go/pkg/audio/output"
	"github.com/Profoundic/pmf-go/pkg/audio/rate"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

// Name is the backend compiled into this binary
const Name = "shield"

// New builds the block-streaming driver reading from buf
func New(cfg *config.Config, buf *ringbuf.Buffer) (*Backend, error) {
	blockCfg := blockConfig(cfg)

	graph, err := openGraph(cfg.Hardware.Sink, int(blockCfg.Rate), cfg.Hardware.Blocks, cfg.Hardware.BlockSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio graph: %w", err)
	}

	log.Printf("Backend %s (%s): fixed %dHz, volume %.2f", Name, cfg.Hardware.Sink, blockCfg.Rate, blockCfg.Volume)

	return &Backend{
		Name:   Name,
		Driver: output.NewBlockStream(buf, graph, graph, graph, blockCfg),
		sink:   graph,
	}, nil
}

// hostGraph is an audio graph the host can play and close. Every host graph
// doubles as the block pool and the codec.
type hostGraph interface {
	output.Graph
	output.BlockPool
	output.Codec
	io.Closer
}

// openGraph routes the mono stream on channel 0 to both outputs
func openGraph(sink string, sampleRate, blocks, blockSamples int) (hostGraph, error) {
	if sink == config.SinkPulse {
		g, err := output.NewPulseGraph(sampleRate, blocks, blockSamples, 0, 0)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	g, err := output.NewOtoGraph(sampleRate, blocks, blockSamples, 0, 0)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func blockConfig(cfg *config.Config) output.BlockConfig {
	return output.BlockConfig{
		SampleBits: cfg.Hardware.SampleBits,
		Volume:     cfg.Hardware.Volume,
		Rate:       rate.AudioShieldRate,
	}
}
