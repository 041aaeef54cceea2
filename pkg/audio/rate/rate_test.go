// ABOUTME: Tests for sample rate quantization
// ABOUTME: Verifies exact scenarios, clamping and optimality of the chosen divisor
package rate

import (
	"math"
	"testing"
)

func TestTimerQuantize44100On16MHz(t *testing.T) {
	q := Timer{BusClock: 16000000}

	if p := q.Period(44100); p != 362 {
		t.Errorf("expected period 362, got %d", p)
	}
	if a := q.Quantize(44100); a != 44077 {
		t.Errorf("expected 44077Hz, got %d", a)
	}
}

func TestTimerQuantizeScenarios(t *testing.T) {
	tests := []struct {
		name      string
		bus       uint32
		requested uint32
		expected  uint32
	}{
		{"exact divisor", 48000000, 48000, 48000},
		{"teensy 3.2 bus", 48000000, 44100, 44118},
		{"teensy 3.6 bus", 60000000, 22050, 22051},
		{"zero request", 16000000, 0, 1},
		{"above bus clock", 16000000, 20000000, 16000000},
		{"at bus clock", 16000000, 16000000, 16000000},
		{"half bus clock", 16000000, 8000000, 8000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Timer{BusClock: tt.bus}
			if a := q.Quantize(tt.requested); a != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, a)
			}
		})
	}
}

func TestTimerMaxPeriodClamps(t *testing.T) {
	q := Timer{BusClock: 16000000, MaxPeriod: 0xFFFF}

	if p := q.Period(1); p != 0xFFFF {
		t.Errorf("expected period 0xFFFF, got %d", p)
	}
	if a := q.Quantize(1); a != 244 {
		t.Errorf("expected 244Hz, got %d", a)
	}
}

func TestTimerZeroBusClock(t *testing.T) {
	q := Timer{}
	if p := q.Period(44100); p != 0 {
		t.Errorf("expected period 0, got %d", p)
	}
}

func TestTimerQuantizeIsOptimal(t *testing.T) {
	buses := []uint32{16000000, 24000000, 36000000, 48000000, 60000000}

	for _, bus := range buses {
		q := Timer{BusClock: bus}
		for requested := uint32(4000); requested <= 96000; requested += 97 {
			d := uint64(q.Period(requested)) + 1
			chosen := math.Abs(float64(bus)/float64(d) - float64(requested))

			for delta := -2; delta <= 2; delta++ {
				other := int64(d) + int64(delta)
				if delta == 0 || other <= 0 {
					continue
				}
				alt := math.Abs(float64(bus)/float64(other) - float64(requested))
				if alt < chosen {
					t.Fatalf("bus=%d requested=%d: divisor %d beats chosen %d (%f < %f)",
						bus, requested, other, d, alt, chosen)
				}
			}
		}
	}
}

func TestFixedIgnoresRequest(t *testing.T) {
	q := Fixed{Rate: AudioShieldRate}

	for _, requested := range []uint32{0, 8000, 22050, 44100, 48000, 192000} {
		if a := q.Quantize(requested); a != AudioShieldRate {
			t.Errorf("requested %d: expected %d, got %d", requested, AudioShieldRate, a)
		}
	}
}

func TestAudioShieldRateRounding(t *testing.T) {
	exact := float64(AudioShieldExactRate)
	if got := uint32(exact + 0.5); got != AudioShieldRate {
		t.Errorf("expected %d, got %d", AudioShieldRate, got)
	}
}

func TestQuantizersImplementInterface(t *testing.T) {
	var _ Quantizer = Timer{}
	var _ Quantizer = Fixed{}
}
