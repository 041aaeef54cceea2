// ABOUTME: Host stand-ins for the DAC register and the audio graph
// ABOUTME: Expose what the drivers write as 16-bit little-endian PCM readers
package output

import (
	"encoding/binary"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Profoundic/pmf-go/pkg/audio"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

// ErrNoChannel is returned when a block is transmitted on an unrouted channel
var ErrNoChannel = errors.New("output: no such graph channel")

// DACStream records DAC writes into a staging buffer and plays them back as
// signed 16-bit mono PCM through Read.
type DACStream struct {
	bits     uint
	staging  *ringbuf.Buffer
	overflow atomic.Uint64
}

var _ DAC = (*DACStream)(nil)

// NewDACStream creates a stream for a DAC of the given width buffering up to
// capacity samples
func NewDACStream(bits uint, capacity int) *DACStream {
	if bits == 0 {
		bits = audio.DefaultSampleBits
	}
	return &DACStream{
		bits:    bits,
		staging: ringbuf.New(capacity),
	}
}

// WriteDAC stages one DAC value. Values that do not fit are counted and dropped.
func (s *DACStream) WriteDAC(value uint16) {
	mb := s.staging.MixerBuffer()
	if mb.Len() == 0 {
		s.overflow.Add(1)
		return
	}
	mb.Samples[0] = audio.ToSigned16(value, s.bits)
	mb.Commit(1)
}

// Read fills p with little-endian signed 16-bit samples. It never blocks;
// when nothing is staged the last value is held.
func (s *DACStream) Read(p []byte) (int, error) {
	n := len(p) / 2
	for i := 0; i < n; i++ {
		v := audio.ToSigned16(s.staging.ReadSample(audio.MaxSampleBits), audio.MaxSampleBits)
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}
	return n * 2, nil
}

// Buffered returns the number of staged samples
func (s *DACStream) Buffered() int {
	return s.staging.Len()
}

// Overflows returns how many DAC writes were dropped
func (s *DACStream) Overflows() uint64 {
	return s.overflow.Load()
}

// StreamGraph is a minimal audio graph: a fixed pool of blocks, one update
// callback and a routing table mapping each output channel to a source
// channel. Read renders interleaved little-endian 16-bit frames.
type StreamGraph struct {
	mu     sync.Mutex
	update func()
	gain   float64

	blocks []*Block
	inUse  []bool

	routes  []int
	sources [][]int16
	valid   []bool

	frames []byte
	off    int
}

var (
	_ Graph     = (*StreamGraph)(nil)
	_ BlockPool = (*StreamGraph)(nil)
)

// NewStreamGraph creates a graph with the given number of blocks of
// blockSamples each. routes lists the source channel for every output
// channel; with no routes source 0 is sent to two outputs.
func NewStreamGraph(blocks, blockSamples int, routes ...int) *StreamGraph {
	if blockSamples <= 0 {
		blockSamples = AudioBlockSamples
	}
	if len(routes) == 0 {
		routes = []int{0, 0}
	}

	routes = append([]int(nil), routes...)
	numSources := 1
	for i, r := range routes {
		if r < 0 {
			routes[i], r = 0, 0
		}
		if r+1 > numSources {
			numSources = r + 1
		}
	}

	g := &StreamGraph{
		gain:    1,
		blocks:  make([]*Block, blocks),
		inUse:   make([]bool, blocks),
		routes:  routes,
		sources: make([][]int16, numSources),
		valid:   make([]bool, numSources),
		frames:  make([]byte, blockSamples*len(routes)*2),
	}
	g.off = len(g.frames)
	for i := range g.blocks {
		g.blocks[i] = &Block{Data: make([]int16, blockSamples)}
	}
	for i := range g.sources {
		g.sources[i] = make([]int16, blockSamples)
	}
	return g
}

// Channels returns the number of output channels
func (g *StreamGraph) Channels() int {
	return len(g.routes)
}

// Attach installs the update callback
func (g *StreamGraph) Attach(update func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.update != nil {
		return errors.New("output: graph already has an update callback")
	}
	g.update = update
	return nil
}

// Detach removes the update callback; the graph renders silence afterwards
func (g *StreamGraph) Detach() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.update = nil
}

// SetGain sets the amplifier stage applied to every rendered sample
func (g *StreamGraph) SetGain(gain float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gain = gain
}

// Allocate, Release and Transmit are the pool side used by the update
// callback. They run under the graph lock held by Read and must not be called
// concurrently with it from elsewhere.

// Allocate returns a free block or nil
func (g *StreamGraph) Allocate() *Block {
	for i, used := range g.inUse {
		if !used {
			g.inUse[i] = true
			return g.blocks[i]
		}
	}
	return nil
}

// Release returns a block to the pool
func (g *StreamGraph) Release(b *Block) {
	for i := range g.blocks {
		if g.blocks[i] == b {
			g.inUse[i] = false
			return
		}
	}
}

// Transmit queues a block on a source channel for the next rendered frame set
func (g *StreamGraph) Transmit(b *Block, channel int) error {
	if channel < 0 || channel >= len(g.sources) {
		return ErrNoChannel
	}
	copy(g.sources[channel], b.Data)
	g.valid[channel] = true
	return nil
}

// InUse returns the number of allocated blocks. It takes the graph lock,
// so it must not be called from the update callback.
func (g *StreamGraph) InUse() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, used := range g.inUse {
		if used {
			n++
		}
	}
	return n
}

// Read renders as many frames as needed to fill p
func (g *StreamGraph) Read(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for n < len(p) {
		if g.off >= len(g.frames) {
			g.render()
		}
		c := copy(p[n:], g.frames[g.off:])
		n += c
		g.off += c
	}
	return n, nil
}

// render runs one graph cycle; must hold g.mu
func (g *StreamGraph) render() {
	for i := range g.valid {
		g.valid[i] = false
	}
	if g.update != nil {
		g.update()
	}

	channels := len(g.routes)
	samples := len(g.frames) / (channels * 2)
	for f := 0; f < samples; f++ {
		for out, src := range g.routes {
			var s int16
			if g.valid[src] {
				s = g.sources[src][f]
				if g.gain != 1 {
					s = audio.SampleToInt16(int32(float64(s) * g.gain))
				}
			}
			binary.LittleEndian.PutUint16(g.frames[(f*channels+out)*2:], uint16(s))
		}
	}
	g.off = 0
}
