// ABOUTME: Configuration schema and defaults for the host player
// ABOUTME: Covers playback, hardware, tone, logging and metrics settings
// Package config provides the configuration schema and loader for the
// pmf-go host player.
package config

import "time"

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Hardware HardwareConfig `yaml:"hardware"`
	Tone     ToneConfig     `yaml:"tone"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PlaybackConfig holds the settings of the application-side mixer loop.
type PlaybackConfig struct {
	// SampleRate is the requested rate; the output may quantize it.
	SampleRate uint32 `yaml:"sample_rate"`

	// BufferSamples is the ring buffer capacity, rounded up to a power of two.
	BufferSamples int `yaml:"buffer_samples"`

	// MixInterval is how often the mixer tops up the ring buffer.
	MixInterval time.Duration `yaml:"mix_interval"`
}

// Host sinks that make the emulated hardware audible.
const (
	SinkOto   = "oto"
	SinkPulse = "pulse"
)

// HardwareConfig describes the output hardware. Which backend is used is
// fixed at build time; fields for the other backend are ignored.
type HardwareConfig struct {
	// Sink is the host audio library: "oto" or "pulse".
	Sink string `yaml:"sink"`

	// BusClock is the timer input clock in Hz (interrupt DAC backend).
	BusClock uint32 `yaml:"bus_clock"`

	// MaxPeriod bounds the timer reload value; 0 means 32-bit.
	MaxPeriod uint32 `yaml:"max_period"`

	// SampleBits is the width read from the ring buffer.
	SampleBits uint `yaml:"sample_bits"`

	// DACBits is the native DAC width.
	DACBits uint `yaml:"dac_bits"`

	// BlockSamples and Blocks size the audio graph (block backend).
	BlockSamples int `yaml:"block_samples"`
	Blocks       int `yaml:"blocks"`

	// Volume is the initial codec gain (block backend); 0 mutes.
	Volume float64 `yaml:"volume"`
}

// ToneConfig configures the built-in test tone mixer.
type ToneConfig struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

// LogConfig controls where log output goes.
type LogConfig struct {
	File   string `yaml:"file"`
	Stdout bool   `yaml:"stdout"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given. The values
// match a Teensy 3.2 at 96MHz (48MHz bus) with the 12-bit DAC.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			SampleRate:    44100,
			BufferSamples: 2048,
			MixInterval:   5 * time.Millisecond,
		},
		Hardware: HardwareConfig{
			Sink:         SinkOto,
			BusClock:     48000000,
			SampleBits:   12,
			DACBits:      12,
			BlockSamples: 128,
			Blocks:       2,
			Volume:       0.6,
		},
		Tone: ToneConfig{
			Frequency: 440,
			Amplitude: 0.5,
		},
		Log: LogConfig{
			File: "pmf-player.log",
		},
	}
}
