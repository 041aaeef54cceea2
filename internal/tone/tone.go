// ABOUTME: Test tone mixer for the playback controller
// ABOUTME: Generates a sine wave at the nominal rate and resamples it to the output rate
package tone

import (
	"math"

	"github.com/Profoundic/pmf-go/pkg/audio"
	"github.com/Profoundic/pmf-go/pkg/audio/resample"
)

// DefaultFrequency is A4
const DefaultFrequency = 440.0

// Tone is a mono sine generator usable as a player.Mixer. It renders at the
// nominal rate and resamples to the rate the output actually plays, so the
// pitch stays correct when the hardware quantizes the rate.
type Tone struct {
	frequency   float64
	amplitude   float64
	nominalRate int

	sampleIndex uint64
	resampler   *resample.Resampler

	in  []int32
	out []int32
}

// New creates a tone at frequency Hz and amplitude (0-1) for a mixer running
// at nominalRate that will be played back at actualRate
func New(frequency, amplitude float64, nominalRate, actualRate uint32) *Tone {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 1 {
		amplitude = 1
	}
	if nominalRate == 0 {
		nominalRate = actualRate
	}
	return &Tone{
		frequency:   frequency,
		amplitude:   amplitude,
		nominalRate: int(nominalRate),
		resampler:   resample.New(int(nominalRate), int(actualRate), 1),
	}
}

// Mix renders up to len(dst) samples
func (t *Tone) Mix(dst []int16) int {
	if len(dst) == 0 {
		return 0
	}

	// +2 frames so the interpolator always has a right-hand neighbour
	inputLen := t.resampler.InputSamplesNeeded(len(dst)) + 2
	if cap(t.in) < inputLen {
		t.in = make([]int32, inputLen)
	}
	if cap(t.out) < len(dst) {
		t.out = make([]int32, len(dst))
	}
	in, out := t.in[:inputLen], t.out[:len(dst)]

	for i := range in {
		in[i] = audio.SampleFromInt16(t.sample(t.sampleIndex + uint64(i)))
	}

	n := t.resampler.Resample(in, out)
	t.sampleIndex += uint64(t.resampler.Consumed())

	for i := 0; i < n; i++ {
		dst[i] = audio.SampleToInt16(out[i])
	}
	return n
}

func (t *Tone) sample(index uint64) int16 {
	tm := float64(index) / float64(t.nominalRate)
	return int16(math.Sin(2*math.Pi*t.frequency*tm) * 32767.0 * t.amplitude)
}
