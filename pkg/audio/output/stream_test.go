// ABOUTME: Tests for the host DAC stream and audio graph stand-ins
// ABOUTME: Verifies PCM rendering, channel fan-out and block pool accounting
package output

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

func TestDACStreamRendersPCM(t *testing.T) {
	s := NewDACStream(12, 16)
	s.WriteDAC(0)
	s.WriteDAC(2048)
	s.WriteDAC(4095)

	p := make([]byte, 8)
	n, err := s.Read(p)
	if err != nil || n != 8 {
		t.Fatalf("expected 8 bytes, got %d (%v)", n, err)
	}

	expected := []int16{-32768, 0, 32752, 32752} // last value held on underrun
	for i, want := range expected {
		if got := int16(binary.LittleEndian.Uint16(p[i*2:])); got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestDACStreamCountsOverflow(t *testing.T) {
	s := NewDACStream(12, 2)
	s.WriteDAC(1)
	s.WriteDAC(2)
	s.WriteDAC(3)

	if s.Buffered() != 2 {
		t.Errorf("expected 2 buffered, got %d", s.Buffered())
	}
	if s.Overflows() != 1 {
		t.Errorf("expected 1 overflow, got %d", s.Overflows())
	}
}

func TestStreamGraphPoolAccounting(t *testing.T) {
	g := NewStreamGraph(2, 4)

	a := g.Allocate()
	b := g.Allocate()
	if a == nil || b == nil {
		t.Fatal("expected two blocks")
	}
	if g.Allocate() != nil {
		t.Error("expected pool exhausted")
	}
	if g.InUse() != 2 {
		t.Errorf("expected 2 in use, got %d", g.InUse())
	}

	g.Release(a)
	if g.InUse() != 1 {
		t.Errorf("expected 1 in use, got %d", g.InUse())
	}
	if err := g.Transmit(b, 5); !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
}

func TestStreamGraphSilenceWhenDetached(t *testing.T) {
	g := NewStreamGraph(2, 4)

	p := make([]byte, 32)
	for i := range p {
		p[i] = 0xAA
	}
	if _, err := g.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d: expected silence, got %#x", i, b)
		}
	}
}

func TestStreamGraphFansOutMonoStream(t *testing.T) {
	g := NewStreamGraph(2, 4)
	buf := ringbuf.New(64)
	codec := &fakeCodec{}
	s := NewBlockStream(buf, g, codec, g, BlockConfig{})

	buf.Write([]int16{-32768, 0, 16384, 32767, 100, 200})
	if err := s.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// one block of 4 stereo frames
	p := make([]byte, 4*2*2)
	if _, err := g.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	expected := []int16{-32768, 0, 16384, 32752}
	for f, want := range expected {
		left := int16(binary.LittleEndian.Uint16(p[f*4:]))
		right := int16(binary.LittleEndian.Uint16(p[f*4+2:]))
		if left != want || right != want {
			t.Errorf("frame %d: expected %d/%d, got %d/%d", f, want, want, left, right)
		}
	}
	if g.InUse() != 0 {
		t.Errorf("expected all blocks released, got %d in use", g.InUse())
	}

	s.Stop()
	if _, err := g.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if buf.Len() != 2 {
		t.Errorf("expected 2 residual samples after stop, got %d", buf.Len())
	}
}

func TestStreamGraphPartialReads(t *testing.T) {
	g := NewStreamGraph(1, 2, 0)
	calls := 0
	if err := g.Attach(func() { calls++ }); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := g.Attach(func() {}); err == nil {
		t.Error("expected second Attach to fail")
	}

	p := make([]byte, 3)
	g.Read(p)
	g.Read(p)

	// 2 mono frames = 4 bytes per render; 6 bytes read needs two renders
	if calls != 2 {
		t.Errorf("expected 2 updates, got %d", calls)
	}
}

func TestStreamGraphAppliesGain(t *testing.T) {
	g := NewStreamGraph(1, 2, 0)
	g.SetGain(0.5)
	if err := g.Attach(func() {
		b := g.Allocate()
		defer g.Release(b)
		b.Data[0], b.Data[1] = 1000, -32768
		_ = g.Transmit(b, 0)
	}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	p := make([]byte, 4)
	if _, err := g.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	expected := []int16{500, -16384}
	for i, want := range expected {
		if got := int16(binary.LittleEndian.Uint16(p[i*2:])); got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestStreamGraphInUseWhileRendering(t *testing.T) {
	g := NewStreamGraph(2, 4)
	buf := ringbuf.New(64)
	s := NewBlockStream(buf, g, &fakeCodec{}, g, BlockConfig{Volume: DefaultVolume})
	if err := s.Start(44100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p := make([]byte, 64)
		for i := 0; i < 200; i++ {
			_, _ = g.Read(p)
		}
	}()

	for i := 0; i < 200; i++ {
		if n := g.InUse(); n != 0 {
			t.Errorf("expected no block held between renders, got %d", n)
			break
		}
	}
	<-done
}
