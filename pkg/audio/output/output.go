// ABOUTME: Output driver contract and hardware ports
// ABOUTME: Common interface for the interrupt DAC and block-streaming backends
package output

import "errors"

// ErrRunning is returned when Start is called on a running driver
var ErrRunning = errors.New("output: driver already running")

// Driver feeds samples from the ring buffer to a hardware sink at a fixed rate.
// Exactly one driver is active per build.
type Driver interface {
	// SamplingFreq returns the rate the driver will actually play a request at
	SamplingFreq(requested uint32) uint32

	// Start arms the periodic feed. The ring buffer must already be reset.
	Start(requested uint32) error

	// Stop disables the periodic feed. Safe to call when stopped.
	Stop()

	// Stats returns counters maintained by the real-time path
	Stats() DriverStats
}

// DriverStats holds counters updated from the real-time context
type DriverStats struct {
	Emitted        uint64 // samples written to the sink
	DroppedBlocks  uint64 // callbacks that could not get a block
	TransmitErrors uint64 // blocks the sink refused
	Running        bool
}

// DAC is a single-sample output register
type DAC interface {
	WriteDAC(value uint16)
}

// IntervalTimer calls isr every period+1 bus cycles until End
type IntervalTimer interface {
	Begin(isr func(), period uint32) error
	End()
}

// Block is a fixed-size chunk of signed 16-bit samples owned by a BlockPool
type Block struct {
	Data []int16
}

// BlockPool hands out blocks to the graph callback and transmits them
type BlockPool interface {
	Allocate() *Block
	Transmit(b *Block, channel int) error
	Release(b *Block)
}

// Codec is the external codec behind a block-streaming sink
type Codec interface {
	Enable() error
	SetVolume(volume float64) error
}

// Graph invokes an update callback whenever the sink needs another block
type Graph interface {
	Attach(update func()) error
	Detach()
}
