package main

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// SpawnScheduler decides when the next attacker appears. The interval only
// shrinks during a run and is restored by Reset.
type SpawnScheduler struct {
	base      float64
	min       float64
	rate      float64
	interval  float64
	lastSpawn float64
}

// NewSpawnScheduler creates a scheduler whose clock starts at zero
func NewSpawnScheduler(cfg Config) *SpawnScheduler {
	s := &SpawnScheduler{
		base: cfg.SpawnBaseInterval,
		min:  cfg.SpawnMinInterval,
		rate: cfg.SpawnRateIncrease,
	}
	s.Reset(0)
	return s
}

// Interval returns the current time between spawns
func (s *SpawnScheduler) Interval() float64 { return s.interval }

// Update returns true when more than the current interval has passed since the last spawn
func (s *SpawnScheduler) Update(now float64) bool {
	if now-s.lastSpawn > s.interval {
		s.lastSpawn = now
		return true
	}
	return false
}

// Tighten shortens the interval after an abduction, never below the minimum
func (s *SpawnScheduler) Tighten() {
	s.interval = math.Max(s.min, s.interval*(1-s.rate))
}

// Reset restores the base interval and restarts the clock at now
func (s *SpawnScheduler) Reset(now float64) {
	s.interval = s.base
	s.lastSpawn = now
}

// SpawnPoint picks a point on a ring just outside the play area around center,
// at an altitude near the center's
func SpawnPoint(center mgl64.Vec3, cfg Config, rng *rand.Rand) mgl64.Vec3 {
	angle := rng.Float64() * 2 * math.Pi
	dist := cfg.GameBounds + cfg.SpawnMargin
	y := center.Y() + (rng.Float64()*2-1)*cfg.SpawnAltitudeJitter
	if y < cfg.FloorHeight {
		y = cfg.FloorHeight
	}
	return mgl64.Vec3{
		center.X() + math.Cos(angle)*dist,
		y,
		center.Z() + math.Sin(angle)*dist,
	}
}
