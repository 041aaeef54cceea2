//go:build shield

// ABOUTME: Tests for the audio shield backend
// ABOUTME: Checks the fixed rate and volume mapping without opening a host sink
package backend

import (
	"testing"

	"github.com/Profoundic/pmf-go/internal/config"
	"github.com/Profoundic/pmf-go/pkg/audio/rate"
)

func TestBlockConfigUsesShieldRate(t *testing.T) {
	cfg := config.Default()
	cfg.Hardware.Volume = 0.8

	got := blockConfig(cfg)
	if got.Rate != rate.AudioShieldRate {
		t.Errorf("expected %d, got %d", rate.AudioShieldRate, got.Rate)
	}
	if got.Volume != 0.8 {
		t.Errorf("expected volume 0.8, got %f", got.Volume)
	}
}

func TestBackendName(t *testing.T) {
	if Name != "shield" {
		t.Errorf("expected shield backend, got %s", Name)
	}
}

func TestBlockConfigKeepsMute(t *testing.T) {
	cfg := config.Default()
	cfg.Hardware.Volume = 0

	if got := blockConfig(cfg); got.Volume != 0 {
		t.Errorf("expected volume 0, got %f", got.Volume)
	}
}
