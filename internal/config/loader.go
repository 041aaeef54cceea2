// ABOUTME: YAML config loading and validation
// ABOUTME: Decodes over defaults with strict fields and joins all validation errors
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path on top of [Default] and
// returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults and
// validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Playback.SampleRate == 0 {
		errs = append(errs, errors.New("playback.sample_rate must be positive"))
	}
	if cfg.Playback.BufferSamples < 2 {
		errs = append(errs, fmt.Errorf("playback.buffer_samples %d is too small; minimum 2", cfg.Playback.BufferSamples))
	}
	if cfg.Playback.BufferSamples&(cfg.Playback.BufferSamples-1) != 0 {
		log.Printf("Warning: playback.buffer_samples %d is not a power of two; it will be rounded up", cfg.Playback.BufferSamples)
	}
	if cfg.Playback.MixInterval <= 0 {
		errs = append(errs, fmt.Errorf("playback.mix_interval %v must be positive", cfg.Playback.MixInterval))
	}

	switch cfg.Hardware.Sink {
	case SinkOto, SinkPulse:
	default:
		errs = append(errs, fmt.Errorf("hardware.sink %q is not one of %q, %q", cfg.Hardware.Sink, SinkOto, SinkPulse))
	}
	if cfg.Hardware.BusClock == 0 {
		errs = append(errs, errors.New("hardware.bus_clock must be positive"))
	}
	if cfg.Hardware.SampleBits < 1 || cfg.Hardware.SampleBits > 16 {
		errs = append(errs, fmt.Errorf("hardware.sample_bits %d is out of range [1, 16]", cfg.Hardware.SampleBits))
	}
	if cfg.Hardware.DACBits < 1 || cfg.Hardware.DACBits > 16 {
		errs = append(errs, fmt.Errorf("hardware.dac_bits %d is out of range [1, 16]", cfg.Hardware.DACBits))
	}
	if cfg.Hardware.BlockSamples <= 0 {
		errs = append(errs, fmt.Errorf("hardware.block_samples %d must be positive", cfg.Hardware.BlockSamples))
	}
	if cfg.Hardware.Blocks <= 0 {
		errs = append(errs, fmt.Errorf("hardware.blocks %d must be positive", cfg.Hardware.Blocks))
	}
	if cfg.Hardware.Volume < 0 || cfg.Hardware.Volume > 1 {
		errs = append(errs, fmt.Errorf("hardware.volume %.2f is out of range [0, 1]", cfg.Hardware.Volume))
	}

	if cfg.Tone.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("tone.frequency %.1f must be positive", cfg.Tone.Frequency))
	} else if uint32(cfg.Tone.Frequency*2) > cfg.Playback.SampleRate {
		log.Printf("Warning: tone.frequency %.1fHz is above the Nyquist limit of %dHz", cfg.Tone.Frequency, cfg.Playback.SampleRate/2)
	}
	if cfg.Tone.Amplitude < 0 || cfg.Tone.Amplitude > 1 {
		errs = append(errs, fmt.Errorf("tone.amplitude %.2f is out of range [0, 1]", cfg.Tone.Amplitude))
	}

	return errors.Join(errs...)
}
