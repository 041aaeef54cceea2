// ABOUTME: Lock-free single-producer single-consumer sample ring buffer
// ABOUTME: Written by the mixer, read one sample at a time by the real-time output path
package ringbuf

import (
	"sync/atomic"

	"github.com/Profoundic/pmf-go/pkg/audio"
)

// Buffer is a fixed-capacity circular store of signed 16-bit PCM samples.
//
// The write cursor is owned by the producer (mixer) and the read cursor by
// the consumer (timer interrupt or graph callback). Both cursors increase
// monotonically and are masked on access, so written-read is the fill level.
// The producer stores its cursor after the sample data and the consumer
// loads it before reading, which is enough for the data to be visible.
//
// Producer side: MixerBuffer, Write, Free.
// Consumer side: ReadSample.
type Buffer struct {
	writePos atomic.Uint32
	_pad1    [60]byte
	readPos  atomic.Uint32
	_pad2    [60]byte

	// last sample handed to the consumer, repeated on underrun
	last      int16
	underruns atomic.Uint64

	data []int16
	mask uint32
}

// New creates a buffer with capacity rounded up to the next power of two
func New(capacity int) *Buffer {
	size := 2
	for size < capacity {
		size <<= 1
	}
	return &Buffer{
		data: make([]int16, size),
		mask: uint32(size - 1),
	}
}

// Reset discards all unread samples and zeroes both cursors.
// Must not be called while a consumer is running.
func (rb *Buffer) Reset() {
	rb.readPos.Store(0)
	rb.writePos.Store(0)
	rb.last = 0
	rb.underruns.Store(0)
}

// ReadSample returns the next sample quantized to an unsigned value of the
// given width. It never blocks: when no sample is available the previous
// sample is repeated (silence right after Reset) and the read cursor stays put.
func (rb *Buffer) ReadSample(bits uint) uint16 {
	r := rb.readPos.Load()
	w := rb.writePos.Load()
	if r == w {
		rb.underruns.Add(1)
		return audio.Quantize(rb.last, bits)
	}

	s := rb.data[r&rb.mask]
	rb.last = s
	rb.readPos.Store(r + 1)
	return audio.Quantize(s, bits)
}

// MixerBuffer returns a writable view of the contiguous free region starting
// at the write cursor. The view can be shorter than Free when the free region
// wraps around the end of the storage.
func (rb *Buffer) MixerBuffer() MixerBuffer {
	w := rb.writePos.Load()
	r := rb.readPos.Load()

	free := uint32(len(rb.data)) - (w - r)
	pos := w & rb.mask
	if tail := uint32(len(rb.data)) - pos; free > tail {
		free = tail
	}
	return MixerBuffer{
		Samples: rb.data[pos : pos+free],
		rb:      rb,
	}
}

// Write copies as many samples from p as fit and returns the count.
// Unread samples are never overwritten.
func (rb *Buffer) Write(p []int16) int {
	written := 0
	for written < len(p) {
		mb := rb.MixerBuffer()
		if len(mb.Samples) == 0 {
			break
		}
		n := copy(mb.Samples, p[written:])
		mb.Commit(n)
		written += n
	}
	return written
}

// Cap returns the buffer capacity in samples
func (rb *Buffer) Cap() int {
	return len(rb.data)
}

// Len returns the number of unread samples
func (rb *Buffer) Len() int {
	return int(rb.writePos.Load() - rb.readPos.Load())
}

// Free returns the number of samples that can be written
func (rb *Buffer) Free() int {
	return len(rb.data) - rb.Len()
}

// ReadPos returns the consumer cursor
func (rb *Buffer) ReadPos() uint32 {
	return rb.readPos.Load()
}

// WritePos returns the producer cursor
func (rb *Buffer) WritePos() uint32 {
	return rb.writePos.Load()
}

// Underruns returns how many reads found the buffer empty since the last Reset
func (rb *Buffer) Underruns() uint64 {
	return rb.underruns.Load()
}

// MixerBuffer is a producer-side window into a Buffer. The storage stays
// owned by the Buffer; samples become visible to the consumer on Commit.
type MixerBuffer struct {
	Samples []int16
	rb      *Buffer
}

// Len returns the number of writable samples in the view
func (mb MixerBuffer) Len() int {
	return len(mb.Samples)
}

// Commit publishes the first n samples of the view
func (mb MixerBuffer) Commit(n int) {
	if mb.rb == nil || n <= 0 {
		return
	}
	if n > len(mb.Samples) {
		n = len(mb.Samples)
	}
	mb.rb.writePos.Add(uint32(n))
}
