// ABOUTME: Block-streaming output driver for codec sinks
// ABOUTME: Fills one audio block per graph callback and hands it to the codec queue
package output

import (
	"fmt"
	"sync/atomic"

	"github.com/Profoundic/pmf-go/pkg/audio"
	"github.com/Profoundic/pmf-go/pkg/audio/rate"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

const (
	// AudioBlockSamples is the number of samples per audio graph block
	AudioBlockSamples = 128

	// DefaultVolume is the usual codec output gain at session start
	DefaultVolume = 0.6
)

// BlockConfig configures a BlockStream
type BlockConfig struct {
	SampleBits uint    // width read from the ring buffer (default 12)
	Volume     float64 // initial codec gain, 0 mutes (see DefaultVolume)
	Rate       uint32  // fixed hardware rate (default rate.AudioShieldRate)
}

// BlockStream is the Driver for a codec fed in blocks by an audio graph.
// It produces a single mono stream on channel 0; fanning it out to the
// physical channels is up to the graph.
type BlockStream struct {
	buf    *ringbuf.Buffer
	pool   BlockPool
	codec  Codec
	graph  Graph
	quant  rate.Fixed
	bits   uint
	volume float64

	active   atomic.Bool // session lifecycle, owned by Start/Stop
	running  atomic.Bool // feed enabled, checked by Update
	emitted  atomic.Uint64
	dropped  atomic.Uint64
	txErrors atomic.Uint64
}

var _ Driver = (*BlockStream)(nil)

// NewBlockStream creates a stopped block driver reading from buf
func NewBlockStream(buf *ringbuf.Buffer, pool BlockPool, codec Codec, graph Graph, cfg BlockConfig) *BlockStream {
	if cfg.SampleBits == 0 {
		cfg.SampleBits = audio.DefaultSampleBits
	}
	if cfg.Rate == 0 {
		cfg.Rate = rate.AudioShieldRate
	}
	return &BlockStream{
		buf:    buf,
		pool:   pool,
		codec:  codec,
		graph:  graph,
		quant:  rate.Fixed{Rate: cfg.Rate},
		bits:   cfg.SampleBits,
		volume: cfg.Volume,
	}
}

// SamplingFreq returns the codec's fixed rate for any request
func (s *BlockStream) SamplingFreq(requested uint32) uint32 {
	return s.quant.Quantize(requested)
}

// Start attaches to the graph, enables the codec and sets the initial
// volume. The feed is only enabled once all three succeeded; on failure the
// graph is detached again.
func (s *BlockStream) Start(uint32) error {
	if !s.active.CompareAndSwap(false, true) {
		return ErrRunning
	}

	if err := s.graph.Attach(s.Update); err != nil {
		s.active.Store(false)
		return fmt.Errorf("failed to attach to audio graph: %w", err)
	}
	if err := s.codec.Enable(); err != nil {
		s.abortStart()
		return fmt.Errorf("failed to enable codec: %w", err)
	}
	if err := s.codec.SetVolume(s.volume); err != nil {
		s.abortStart()
		return fmt.Errorf("failed to set codec volume: %w", err)
	}

	s.running.Store(true)
	return nil
}

func (s *BlockStream) abortStart() {
	s.graph.Detach()
	s.active.Store(false)
}

// Stop detaches from the graph; callbacks after this return do nothing
func (s *BlockStream) Stop() {
	if !s.active.Swap(false) {
		return
	}
	s.running.Store(false)
	s.graph.Detach()
}

// Stats returns the driver counters
func (s *BlockStream) Stats() DriverStats {
	return DriverStats{
		Emitted:        s.emitted.Load(),
		DroppedBlocks:  s.dropped.Load(),
		TransmitErrors: s.txErrors.Load(),
		Running:        s.running.Load(),
	}
}

// Update is the graph callback. It runs in the audio interrupt.
func (s *BlockStream) Update() {
	if !s.running.Load() {
		return
	}

	block := s.pool.Allocate()
	if block == nil {
		s.dropped.Add(1)
		return
	}
	defer s.pool.Release(block)

	for i := range block.Data {
		v := s.buf.ReadSample(s.bits)
		block.Data[i] = audio.ToSigned16(v, s.bits)
	}

	if err := s.pool.Transmit(block, 0); err != nil {
		s.txErrors.Add(1)
		return
	}
	s.emitted.Add(uint64(len(block.Data)))
}
