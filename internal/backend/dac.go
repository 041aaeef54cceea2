//go:build !shield

// ABOUTME: Interrupt DAC backend, the default build
// ABOUTME: Drives a software interval timer into a mono oto or pulse sink
package backend

import (
	"fmt"
	"io"
	"log"

	"github.com/Profoundic/pmf-go/internal/config"
	"github.com/Profoundic/pmf-go/pkg/audio/output"
	"github.com/Profoundic/pmf-go/pkg/audio/rate"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
)

// Name is the backend compiled into this binary
const Name = "dac"

// sinkSamples is how many DAC values the host sink stages
const sinkSamples = 4096

// New builds the interrupt DAC driver reading from buf. The host sink is
// opened at the rate the timer will actually run at for the configured
// request; host sinks cannot change rate once open.
func New(cfg *config.Config, buf *ringbuf.Buffer) (*Backend, error) {
	dacCfg := dacConfig(cfg)
	actual := rate.Timer{BusClock: dacCfg.BusClock, MaxPeriod: dacCfg.MaxPeriod}.Quantize(cfg.Playback.SampleRate)

	sink, err := openDAC(cfg.Hardware.Sink, int(actual), dacCfg.DACBits)
	if err != nil {
		return nil, fmt.Errorf("failed to open DAC sink: %w", err)
	}

	timer := output.NewSoftTimer(dacCfg.BusClock)
	log.Printf("Backend %s (%s): bus clock %dHz, %d-bit samples into %d-bit DAC",
		Name, cfg.Hardware.Sink, dacCfg.BusClock, dacCfg.SampleBits, dacCfg.DACBits)

	return &Backend{
		Name:   Name,
		Driver: output.NewInterruptDAC(buf, sink, timer, dacCfg),
		sink:   sink,
	}, nil
}

// hostDAC is a DAC the host can play and close
type hostDAC interface {
	output.DAC
	io.Closer
}

func openDAC(sink string, sampleRate int, bits uint) (hostDAC, error) {
	if sink == config.SinkPulse {
		d, err := output.NewPulseDAC(sampleRate, bits, sinkSamples)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	d, err := output.NewOtoDAC(sampleRate, bits, sinkSamples)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func dacConfig(cfg *config.Config) output.DACConfig {
	return output.DACConfig{
		BusClock:   cfg.Hardware.BusClock,
		MaxPeriod:  cfg.Hardware.MaxPeriod,
		SampleBits: cfg.Hardware.SampleBits,
		DACBits:    cfg.Hardware.DACBits,
	}
}
