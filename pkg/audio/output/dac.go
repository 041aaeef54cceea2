// ABOUTME: Interrupt-driven single-sample DAC output driver
// ABOUTME: Reads one sample per timer tick and writes it to the DAC register
package output

import (
	"fmt"
	"sync/atomic"

	"github.com/Profoundic/pmf-go/pkg/audio"
	"github.com/Profoundic/pmf-go/pkg/audio/rate"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

// DACConfig configures an InterruptDAC
type DACConfig struct {
	BusClock   uint32
	MaxPeriod  uint32
	SampleBits uint // width read from the ring buffer (default 12)
	DACBits    uint // native width of the DAC register (default SampleBits)
}

// InterruptDAC is the Driver for a DAC fed from a periodic timer interrupt
type InterruptDAC struct {
	buf     *ringbuf.Buffer
	dac     DAC
	timer   IntervalTimer
	quant   rate.Timer
	bits    uint
	dacBits uint

	running atomic.Bool
	emitted atomic.Uint64
}

var _ Driver = (*InterruptDAC)(nil)

// NewInterruptDAC creates a stopped DAC driver reading from buf
func NewInterruptDAC(buf *ringbuf.Buffer, dac DAC, timer IntervalTimer, cfg DACConfig) *InterruptDAC {
	if cfg.SampleBits == 0 {
		cfg.SampleBits = audio.DefaultSampleBits
	}
	if cfg.DACBits == 0 {
		cfg.DACBits = cfg.SampleBits
	}
	return &InterruptDAC{
		buf:     buf,
		dac:     dac,
		timer:   timer,
		quant:   rate.Timer{BusClock: cfg.BusClock, MaxPeriod: cfg.MaxPeriod},
		bits:    cfg.SampleBits,
		dacBits: cfg.DACBits,
	}
}

// SamplingFreq returns the timer rate nearest to requested
func (d *InterruptDAC) SamplingFreq(requested uint32) uint32 {
	return d.quant.Quantize(requested)
}

// Start enables the playback interrupt at the quantized rate
func (d *InterruptDAC) Start(requested uint32) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	if err := d.timer.Begin(d.tick, d.quant.Period(requested)); err != nil {
		d.running.Store(false)
		return fmt.Errorf("failed to start playback timer: %w", err)
	}
	return nil
}

// Stop disables the playback interrupt. An interrupt already in flight may
// still emit one sample; none are emitted once Stop returns.
func (d *InterruptDAC) Stop() {
	if !d.running.Swap(false) {
		return
	}
	d.timer.End()
}

// Stats returns the driver counters
func (d *InterruptDAC) Stats() DriverStats {
	return DriverStats{
		Emitted: d.emitted.Load(),
		Running: d.running.Load(),
	}
}

// tick runs in interrupt context: no allocation, no locks, no logging
func (d *InterruptDAC) tick() {
	if !d.running.Load() {
		return
	}
	v := d.buf.ReadSample(d.bits)
	d.dac.WriteDAC(audio.Rescale(v, d.bits, d.dacBits))
	d.emitted.Add(1)
}
