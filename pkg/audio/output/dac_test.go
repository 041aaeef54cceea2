// ABOUTME: Tests for the interrupt-driven DAC driver
// ABOUTME: Covers lifecycle, FIFO emission, underrun output and stop ordering
package output

import (
	"errors"
	"testing"

	"github.com/Profoundic/pmf-go/pkg/audio"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

func newTestDAC(cfg DACConfig) (*InterruptDAC, *ringbuf.Buffer, *fakeDAC, *fakeTimer) {
	buf := ringbuf.New(2048)
	dac := &fakeDAC{}
	timer := &fakeTimer{}
	if cfg.BusClock == 0 {
		cfg.BusClock = 16000000
	}
	return NewInterruptDAC(buf, dac, timer, cfg), buf, dac, timer
}

func TestInterruptDACSamplingFreq(t *testing.T) {
	d, _, _, _ := newTestDAC(DACConfig{})
	if got := d.SamplingFreq(44100); got != 44077 {
		t.Errorf("expected 44077, got %d", got)
	}
}

func TestInterruptDACStartProgramsTimer(t *testing.T) {
	d, _, _, timer := newTestDAC(DACConfig{})

	if err := d.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if timer.period != 362 {
		t.Errorf("expected period 362, got %d", timer.period)
	}
	if !d.Stats().Running {
		t.Error("expected driver to be running")
	}

	if err := d.Start(44100); !errors.Is(err, ErrRunning) {
		t.Errorf("expected ErrRunning, got %v", err)
	}
	if timer.begins != 1 {
		t.Errorf("expected timer started once, got %d", timer.begins)
	}
}

func TestInterruptDACStartTimerFailure(t *testing.T) {
	d, _, _, timer := newTestDAC(DACConfig{})
	timer.beginErr = errors.New("no timer available")

	err := d.Start(44100)
	if err == nil {
		t.Fatal("expected error from Start")
	}
	if !errors.Is(err, timer.beginErr) {
		t.Errorf("expected wrapped timer error, got %v", err)
	}
	if d.Stats().Running {
		t.Error("expected driver to stay stopped")
	}
}

func TestInterruptDACEmitsInOrder(t *testing.T) {
	d, buf, dac, timer := newTestDAC(DACConfig{})

	samples := []int16{-32768, -1000, 0, 1000, 32767}
	buf.Write(samples)

	if err := d.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	timer.fire(len(samples))

	if len(dac.values) != len(samples) {
		t.Fatalf("expected %d DAC writes, got %d", len(samples), len(dac.values))
	}
	for i, s := range samples {
		if want := audio.Quantize(s, 12); dac.values[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, dac.values[i])
		}
	}
	if d.Stats().Emitted != uint64(len(samples)) {
		t.Errorf("expected %d emitted, got %d", len(samples), d.Stats().Emitted)
	}
}

func TestInterruptDACWidensToDACRange(t *testing.T) {
	d, buf, dac, timer := newTestDAC(DACConfig{SampleBits: 12, DACBits: 16})

	buf.Write([]int16{32767})
	if err := d.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	timer.fire(1)

	if dac.values[0] != 0xFFF0 {
		t.Errorf("expected 0xFFF0, got %#x", dac.values[0])
	}
}

func TestInterruptDACUnderrunOutputsSilence(t *testing.T) {
	d, buf, dac, timer := newTestDAC(DACConfig{})

	if err := d.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	timer.fire(3)

	for i, v := range dac.values {
		if v != audio.Silence(12) {
			t.Errorf("tick %d: expected silence %d, got %d", i, audio.Silence(12), v)
		}
	}
	if buf.ReadPos() != 0 {
		t.Errorf("expected read cursor 0, got %d", buf.ReadPos())
	}
	if buf.Underruns() != 3 {
		t.Errorf("expected 3 underruns, got %d", buf.Underruns())
	}
}

func TestInterruptDACStopDisablesFeed(t *testing.T) {
	d, buf, dac, timer := newTestDAC(DACConfig{})
	buf.Write([]int16{1, 2, 3, 4})

	if err := d.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	timer.fire(1)
	d.Stop()

	if timer.ends != 1 {
		t.Errorf("expected timer ended once, got %d", timer.ends)
	}

	// an interrupt arriving after Stop must not consume or emit
	readPos := buf.ReadPos()
	timer.fire(2)
	if buf.ReadPos() != readPos {
		t.Errorf("expected read cursor %d, got %d", readPos, buf.ReadPos())
	}
	if len(dac.values) != 1 {
		t.Errorf("expected 1 DAC write, got %d", len(dac.values))
	}
	if buf.Len() != 3 {
		t.Errorf("expected residual samples kept, got %d", buf.Len())
	}
}

func TestInterruptDACStopWhenStopped(t *testing.T) {
	d, _, _, timer := newTestDAC(DACConfig{})
	d.Stop()
	d.Stop()
	if timer.ends != 0 {
		t.Errorf("expected no timer calls, got %d", timer.ends)
	}
}
