package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestNewAttackerWithinBands(t *testing.T) {
	cfg := testConfig()
	rng := testRand()
	for i := 0; i < 50; i++ {
		a := NewAttacker(mgl64.Vec3{}, 100, cfg, rng)
		assert.GreaterOrEqual(t, a.Speed, cfg.AttackerSpeedMin)
		assert.LessOrEqual(t, a.Speed, cfg.AttackerSpeedMax)
		assert.GreaterOrEqual(t, a.FireInterval, cfg.FireIntervalMin)
		assert.LessOrEqual(t, a.FireInterval, cfg.FireIntervalMax)
		assert.Equal(t, 100.0, a.LastFired)
		assert.Equal(t, cfg.AttackerRadius, a.Radius)
	}
}

func TestAttackerHomesOnTarget(t *testing.T) {
	cfg := testConfig()
	a := NewAttacker(mgl64.Vec3{0, 10, 50}, 0, cfg, testRand())
	target := mgl64.Vec3{0, 10, 0}
	before := a.Position.Sub(target).Len()

	a.Update(target, 0, cfg)

	assert.InDelta(t, before-a.Speed, a.Position.Sub(target).Len(), 1e-9)
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, a.Heading)
	assert.InDelta(t, math.Pi, math.Abs(a.Yaw), 1e-9)
	assert.Zero(t, a.Pitch)
}

func TestAttackerPitchFollowsClimb(t *testing.T) {
	cfg := testConfig()
	a := NewAttacker(mgl64.Vec3{0, 0, 0}, 0, cfg, testRand())
	a.Update(mgl64.Vec3{0, 10, 0}, 0, cfg)
	assert.InDelta(t, cfg.AttackerTilt, a.Pitch, 1e-9)
}

func TestAttackerFiresAfterInterval(t *testing.T) {
	cfg := testConfig()
	a := NewAttacker(mgl64.Vec3{0, 10, 50}, 0, cfg, testRand())
	a.FireInterval = 2000
	target := mgl64.Vec3{}

	assert.False(t, a.Update(target, 1000, cfg))
	assert.False(t, a.Update(target, 2000, cfg))
	assert.True(t, a.Update(target, 2000.1, cfg))
	assert.Equal(t, 2000.1, a.LastFired)
	assert.False(t, a.Update(target, 3000, cfg))
}

func TestAttackerOutOfBounds(t *testing.T) {
	cfg := testConfig()
	a := NewAttacker(mgl64.Vec3{0, 0, 149}, 0, cfg, testRand())
	assert.False(t, a.OutOfBounds(mgl64.Vec3{}, cfg.OutOfBounds()))
	a.Position = mgl64.Vec3{0, 0, 151}
	assert.True(t, a.OutOfBounds(mgl64.Vec3{}, cfg.OutOfBounds()))
}

func TestAttackerSitsOnTarget(t *testing.T) {
	cfg := testConfig()
	a := NewAttacker(mgl64.Vec3{1, 2, 3}, 0, cfg, testRand())
	a.Update(mgl64.Vec3{1, 2, 3}, 0, cfg)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, a.Position)
}
