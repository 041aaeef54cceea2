// ABOUTME: Entry point for the pmf-go host player
// ABOUTME: Parses CLI flags, wires the output backend and plays a test tone
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Profoundic/pmf-go/internal/backend"
	"github.com/Profoundic/pmf-go/internal/config"
	"github.com/Profoundic/pmf-go/internal/observe"
	"github.com/Profoundic/pmf-go/internal/tone"
	"github.com/Profoundic/pmf-go/internal/version"
	"github.com/Profoundic/pmf-go/pkg/audio/ringbuf"
	"github.com/Profoundic/pmf-go/pkg/player"
)

var (
	configPath  = flag.String("config", "", "YAML config file (defaults apply when empty)")
	sampleRate  = flag.Uint("rate", 0, "Requested sample rate in Hz (overrides config)")
	frequency   = flag.Float64("tone", 0, "Test tone frequency in Hz (overrides config)")
	duration    = flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	logFile     = flag.String("log-file", "", "Log file path (overrides config)")
	streamLogs  = flag.Bool("stream-logs", false, "Also log to stdout")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus listen address, e.g. :9464 (overrides config)")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Set up logging
	f, err := os.OpenFile(cfg.Log.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if cfg.Log.Stdout {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		log.SetOutput(f)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	buf := ringbuf.New(cfg.Playback.BufferSamples)

	out, err := backend.New(cfg, buf)
	if err != nil {
		log.Fatalf("Failed to open output: %v", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Printf("Error closing output: %v", err)
		}
	}()

	requested := cfg.Playback.SampleRate
	actual := out.Driver.SamplingFreq(requested)

	p, err := player.NewPlayer(player.Config{
		Driver: out.Driver,
		Buffer: buf,
		Mixer:  tone.New(cfg.Tone.Frequency, cfg.Tone.Amplitude, requested, actual),
		OnRateChange: func(requested, actual uint32) {
			log.Printf("Output cannot play %dHz exactly, mixing for %dHz", requested, actual)
		},
	})
	if err != nil {
		log.Fatalf("Failed to create player: %v", err)
	}

	mp, shutdown, err := observe.InitProvider(observe.ProviderConfig{
		ServiceName:    "pmf-player",
		ServiceVersion: version.Version,
	})
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	metrics, err := observe.NewMetrics(mp, p, out.Name)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}
	defer func() { _ = metrics.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	// Prime the buffer so the first interrupts have real samples
	if err := p.StartPlayback(requested); err != nil {
		log.Fatalf("Failed to start playback: %v", err)
	}
	p.Pump()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(gctx, cfg.Playback.MixInterval)
	})
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.Handler()}
		g.Go(func() error {
			log.Printf("Metrics listening on %s", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		log.Printf("Player error: %v", err)
	}
	log.Printf("Shutdown signal received")

	p.StopPlayback()

	stats := p.Stats()
	log.Printf("Player stopped: emitted=%d underruns=%d dropped_blocks=%d transmit_errors=%d sessions=%d",
		stats.Emitted, stats.Underruns, stats.DroppedBlocks, stats.TransmitErrors, stats.Sessions)
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cfg *config.Config) {
	if *sampleRate != 0 {
		cfg.Playback.SampleRate = uint32(*sampleRate)
	}
	if *frequency != 0 {
		cfg.Tone.Frequency = *frequency
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *streamLogs {
		cfg.Log.Stdout = true
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
}
