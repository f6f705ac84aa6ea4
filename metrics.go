package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "saucer-server/sim"

// Metrics counts simulation activity. Counters report through the global
// meter provider; without an SDK installed they are no-ops.
type Metrics struct {
	frames     metric.Int64Counter
	spawned    metric.Int64Counter
	abductions metric.Int64Counter
	hits       metric.Int64Counter
	emitters   metric.Int64Counter
}

// NewMetrics registers the simulation counters
func NewMetrics() (*Metrics, error) {
	return newMetrics(otel.Meter(instrumentationName))
}

func newMetrics(m metric.Meter) (*Metrics, error) {
	var (
		mt  Metrics
		err error
	)

	mt.frames, err = m.Int64Counter(
		"sim.frames",
		metric.WithDescription("Simulation frames executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	mt.spawned, err = m.Int64Counter(
		"sim.attackers.spawned",
		metric.WithDescription("Attackers introduced by the spawn scheduler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}

	mt.abductions, err = m.Int64Counter(
		"sim.abductions",
		metric.WithDescription("Creatures abducted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating abductions counter: %w", err)
	}

	mt.hits, err = m.Int64Counter(
		"sim.hits",
		metric.WithDescription("Hits taken by the player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}

	mt.emitters, err = m.Int64Counter(
		"sim.emitters.created",
		metric.WithDescription("Particle emitters created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating emitters counter: %w", err)
	}

	return &mt, nil
}

// noopMetrics is used when counter registration fails
func noopMetrics() *Metrics {
	mt, _ := newMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	return mt
}

func (m *Metrics) frame() {
	m.frames.Add(context.Background(), 1)
}

func (m *Metrics) attackerSpawned() {
	m.spawned.Add(context.Background(), 1)
}

func (m *Metrics) abducted() {
	m.abductions.Add(context.Background(), 1)
}

func (m *Metrics) hit(source EntityKind) {
	m.hits.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("source", source.String())))
}

func (m *Metrics) emitterCreated(profile string) {
	m.emitters.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("profile", profile)))
}
