// ABOUTME: OpenTelemetry instruments for playback statistics
// ABOUTME: Observable counters and gauges read from the player at collection time
// Package observe exports playback counters as OpenTelemetry metrics.
//
// The real-time output path only bumps atomic counters. The instruments here
// are asynchronous: the SDK reads the counters from its own goroutine at
// collection time, so nothing in the interrupt path touches OTel. A
// Prometheus exporter bridge is available via [InitProvider].
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Profoundic/pmf-go/pkg/player"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/Profoundic/pmf-go"

// StatsSource provides playback statistics. [player.Player] implements it.
type StatsSource interface {
	Stats() player.Stats
}

// Metrics holds the registered instruments. Call [Metrics.Close] to
// unregister the collection callback.
type Metrics struct {
	Emitted        metric.Int64ObservableCounter
	Underruns      metric.Int64ObservableCounter
	DroppedBlocks  metric.Int64ObservableCounter
	TransmitErrors metric.Int64ObservableCounter
	Sessions       metric.Int64ObservableCounter
	Buffered       metric.Int64ObservableGauge
	Playing        metric.Int64ObservableGauge

	registration metric.Registration
}

// NewMetrics registers the playback instruments on mp, reading values from
// src at every collection. backend is attached to every observation.
func NewMetrics(mp metric.MeterProvider, src StatsSource, backend string) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Emitted, err = m.Int64ObservableCounter("pmf.output.samples",
		metric.WithDescription("Samples written to the hardware sink."),
		metric.WithUnit("{sample}"),
	); err != nil {
		return nil, err
	}
	if met.Underruns, err = m.Int64ObservableCounter("pmf.output.underruns",
		metric.WithDescription("Real-time reads that found the ring buffer empty."),
		metric.WithUnit("{sample}"),
	); err != nil {
		return nil, err
	}
	if met.DroppedBlocks, err = m.Int64ObservableCounter("pmf.output.dropped_blocks",
		metric.WithDescription("Graph callbacks that could not allocate a block."),
		metric.WithUnit("{block}"),
	); err != nil {
		return nil, err
	}
	if met.TransmitErrors, err = m.Int64ObservableCounter("pmf.output.transmit_errors",
		metric.WithDescription("Blocks the sink refused to transmit."),
		metric.WithUnit("{block}"),
	); err != nil {
		return nil, err
	}
	if met.Sessions, err = m.Int64ObservableCounter("pmf.playback.sessions",
		metric.WithDescription("Playback sessions started."),
		metric.WithUnit("{session}"),
	); err != nil {
		return nil, err
	}
	if met.Buffered, err = m.Int64ObservableGauge("pmf.buffer.fill",
		metric.WithDescription("Unread samples in the ring buffer."),
		metric.WithUnit("{sample}"),
	); err != nil {
		return nil, err
	}
	if met.Playing, err = m.Int64ObservableGauge("pmf.playback.active",
		metric.WithDescription("1 while a playback session is active."),
	); err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("backend", backend))
	met.registration, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := src.Stats()
		o.ObserveInt64(met.Emitted, int64(s.Emitted), attrs)
		o.ObserveInt64(met.Underruns, int64(s.Underruns), attrs)
		o.ObserveInt64(met.DroppedBlocks, int64(s.DroppedBlocks), attrs)
		o.ObserveInt64(met.TransmitErrors, int64(s.TransmitErrors), attrs)
		o.ObserveInt64(met.Sessions, int64(s.Sessions), attrs)
		o.ObserveInt64(met.Buffered, int64(s.Buffered), attrs)
		playing := int64(0)
		if s.Playing {
			playing = 1
		}
		o.ObserveInt64(met.Playing, playing, attrs)
		return nil
	}, met.Emitted, met.Underruns, met.DroppedBlocks, met.TransmitErrors, met.Sessions, met.Buffered, met.Playing)
	if err != nil {
		return nil, err
	}

	return met, nil
}

// Close unregisters the collection callback
func (m *Metrics) Close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
