// ABOUTME: Audio output interface tests and shared hardware fakes
// ABOUTME: Verifies Driver implementations and provides fake ports for driver tests
package output

import (
	"errors"
	"testing"
)

func TestDriversImplementDriver(t *testing.T) {
	var _ Driver = (*InterruptDAC)(nil)
	var _ Driver = (*BlockStream)(nil)
}

func TestHostStandInsImplementPorts(t *testing.T) {
	var _ IntervalTimer = (*SoftTimer)(nil)
	var _ DAC = (*DACStream)(nil)
	var _ Graph = (*StreamGraph)(nil)
	var _ BlockPool = (*StreamGraph)(nil)
	var _ Codec = (*OtoGraph)(nil)
	var _ Codec = (*PulseGraph)(nil)
	var _ DAC = (*PulseDAC)(nil)
	var _ BlockPool = (*PulseGraph)(nil)
}

// fakeDAC records every value written to it
type fakeDAC struct {
	values []uint16
}

func (d *fakeDAC) WriteDAC(v uint16) {
	d.values = append(d.values, v)
}

// fakeTimer captures the ISR so tests can fire ticks by hand
type fakeTimer struct {
	isr      func()
	period   uint32
	begins   int
	ends     int
	beginErr error
}

func (t *fakeTimer) Begin(isr func(), period uint32) error {
	if t.beginErr != nil {
		return t.beginErr
	}
	t.isr = isr
	t.period = period
	t.begins++
	return nil
}

func (t *fakeTimer) End() {
	t.ends++
}

func (t *fakeTimer) fire(n int) {
	for i := 0; i < n; i++ {
		t.isr()
	}
}

// fakeCodec records enable and volume calls
type fakeCodec struct {
	enabled   int
	volume    float64
	enableErr error
	volumeErr error
}

func (c *fakeCodec) Enable() error {
	if c.enableErr != nil {
		return c.enableErr
	}
	c.enabled++
	return nil
}

func (c *fakeCodec) SetVolume(v float64) error {
	if c.volumeErr != nil {
		return c.volumeErr
	}
	c.volume = v
	return nil
}

// fakePool hands out a limited number of blocks and records transmissions
type fakePool struct {
	free        int
	size        int
	allocated   int
	released    int
	transmitted [][]int16
	channels    []int
	txErr       error
}

func (p *fakePool) Allocate() *Block {
	if p.free == 0 {
		return nil
	}
	p.free--
	p.allocated++
	return &Block{Data: make([]int16, p.size)}
}

func (p *fakePool) Transmit(b *Block, channel int) error {
	if p.txErr != nil {
		return p.txErr
	}
	p.transmitted = append(p.transmitted, append([]int16(nil), b.Data...))
	p.channels = append(p.channels, channel)
	return nil
}

func (p *fakePool) Release(*Block) {
	p.free++
	p.released++
}

// fakeGraph captures the update callback
type fakeGraph struct {
	update   func()
	attaches int
	detaches int
}

func (g *fakeGraph) Attach(update func()) error {
	if g.update != nil {
		return errors.New("already attached")
	}
	g.update = update
	g.attaches++
	return nil
}

func (g *fakeGraph) Detach() {
	g.update = nil
	g.detaches++
}
