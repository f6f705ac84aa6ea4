package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSpawnSchedulingScenario(t *testing.T) {
	cfg := testConfig()
	cfg.SpawnBaseInterval = 5000
	s := NewSpawnScheduler(cfg)

	for now := 1.0; now <= 5000; now++ {
		if !assert.False(t, s.Update(now), "spawned early at %v", now) {
			return
		}
	}
	assert.True(t, s.Update(5001))
	assert.False(t, s.Update(5002))
	assert.True(t, s.Update(10002))
}

func TestSpawnIntervalShrinksMonotonically(t *testing.T) {
	cfg := testConfig()
	s := NewSpawnScheduler(cfg)
	prev := s.Interval()
	for i := 0; i < 100; i++ {
		s.Tighten()
		assert.LessOrEqual(t, s.Interval(), prev)
		assert.GreaterOrEqual(t, s.Interval(), cfg.SpawnMinInterval)
		prev = s.Interval()
	}
	assert.Equal(t, cfg.SpawnMinInterval, s.Interval())
}

func TestSpawnResetRestoresBase(t *testing.T) {
	cfg := testConfig()
	s := NewSpawnScheduler(cfg)
	s.Tighten()
	s.Tighten()
	s.Reset(300)
	assert.Equal(t, cfg.SpawnBaseInterval, s.Interval())
	assert.False(t, s.Update(300+cfg.SpawnBaseInterval))
	assert.True(t, s.Update(301+cfg.SpawnBaseInterval))
}

func TestSpawnPointOnRingAroundPlayer(t *testing.T) {
	cfg := testConfig()
	rng := testRand()
	center := mgl64.Vec3{20, 12, -30}
	for i := 0; i < 200; i++ {
		p := SpawnPoint(center, cfg, rng)
		assert.InDelta(t, cfg.GameBounds+cfg.SpawnMargin, HorizontalDistance(center, p), 1e-9)
		assert.InDelta(t, center.Y(), p.Y(), cfg.SpawnAltitudeJitter)
		assert.GreaterOrEqual(t, p.Y(), cfg.FloorHeight)
		assert.Less(t, p.Sub(center).Len(), cfg.OutOfBounds())
	}
}
