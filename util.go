package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// HorizontalDistance returns the distance between a and b on the XZ plane
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	dx := b.X() - a.X()
	dz := b.Z() - a.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates between two angles taking the short path
func LerpAngle(from, to, t float64) float64 {
	diff := NormalizeAngle(to - from)
	return from + diff*t
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Direction returns the unit vector from -> to, or zero when the points coincide
func Direction(from, to mgl64.Vec3) mgl64.Vec3 {
	d := to.Sub(from)
	if d.Len() == 0 {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
