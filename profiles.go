package main

// Particle profile names
const (
	ProfileExhaust   = "exhaust"
	ProfileTrail     = "trail"
	ProfileExplosion = "explosion"
	ProfileSparkle   = "sparkle"
)

// ParticleProfile describes how an emitter's particles look and move.
// Lifetime is in frames; speeds and gravity are per frame.
type ParticleProfile struct {
	Color        [3]float64
	Size         float64
	Count        int
	Lifetime     float64
	Speed        float64
	Spread       float64
	Gravity      float64
	Opacity      float64
	FadeRate     float64
	OneShot      bool
	EmissionRate int // frames between respawns of expired particles
}

var ParticleProfiles = map[string]ParticleProfile{
	// Thruster flame, recycled while the owner lives
	ProfileExhaust: {
		Color: [3]float64{1.0, 0.5, 0.1}, Size: 0.3, Count: 30, Lifetime: 30,
		Speed: 0.1, Spread: 0.3, Opacity: 0.8, FadeRate: 0.05, EmissionRate: 2,
	},
	// Projectile smoke
	ProfileTrail: {
		Color: [3]float64{0.8, 0.8, 0.8}, Size: 0.2, Count: 20, Lifetime: 20,
		Speed: 0.05, Spread: 0.2, Opacity: 0.6, FadeRate: 0.05, EmissionRate: 1,
	},
	ProfileExplosion: {
		Color: [3]float64{1.0, 0.6, 0.2}, Size: 0.8, Count: 60, Lifetime: 60,
		Speed: 0.3, Spread: 2.0, Gravity: 0.005, Opacity: 1.0, FadeRate: 0.04,
		OneShot: true, EmissionRate: 1,
	},
	// Abduction reward burst, drifts upward
	ProfileSparkle: {
		Color: [3]float64{0.4, 0.8, 1.0}, Size: 0.4, Count: 40, Lifetime: 45,
		Speed: 0.15, Spread: 2.0, Gravity: -0.002, Opacity: 1.0, FadeRate: 0.05,
		OneShot: true, EmissionRate: 1,
	},
}

// ProfileOption overrides one field of a profile for a single emitter
type ProfileOption func(*ParticleProfile)

func WithCount(n int) ProfileOption {
	return func(p *ParticleProfile) { p.Count = n }
}

func WithColor(r, g, b float64) ProfileOption {
	return func(p *ParticleProfile) { p.Color = [3]float64{r, g, b} }
}

func WithSize(s float64) ProfileOption {
	return func(p *ParticleProfile) { p.Size = s }
}

func WithSpeed(s float64) ProfileOption {
	return func(p *ParticleProfile) { p.Speed = s }
}

func WithLifetime(frames float64) ProfileOption {
	return func(p *ParticleProfile) { p.Lifetime = frames }
}

func WithSpread(s float64) ProfileOption {
	return func(p *ParticleProfile) { p.Spread = s }
}

func WithGravity(g float64) ProfileOption {
	return func(p *ParticleProfile) { p.Gravity = g }
}

func WithOpacity(o float64) ProfileOption {
	return func(p *ParticleProfile) { p.Opacity = o }
}

func WithOneShot(oneShot bool) ProfileOption {
	return func(p *ParticleProfile) { p.OneShot = oneShot }
}

func WithEmissionRate(frames int) ProfileOption {
	return func(p *ParticleProfile) { p.EmissionRate = frames }
}

// resolveProfile merges options into a copy of the named profile
func resolveProfile(name string, opts []ProfileOption) (ParticleProfile, bool) {
	p, ok := ParticleProfiles[name]
	if !ok {
		return ParticleProfile{}, false
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Count < 0 {
		p.Count = 0
	}
	if p.EmissionRate < 1 {
		p.EmissionRate = 1
	}
	p.Opacity = Clamp(p.Opacity, 0, 1)
	return p, true
}
