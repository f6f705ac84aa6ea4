package main

// Sound categories and names understood by the presentation layer
const (
	SoundCategoryEffects = "effects"
	SoundCategoryEngines = "engines"

	SoundAbduct    = "abduct"
	SoundExplosion = "explosion"
	SoundBeam      = "beam"
	SoundLaser     = "laser"
	SoundEngine    = "fighter_engine"
)

// SoundID identifies a looping sound attached to an entity. Zero means none.
type SoundID uint32

// Audio plays sounds. Calls are fire-and-forget.
type Audio interface {
	PlayEffect(category, name string)
	StopEffect(category, name string)
	AttachLoop(entityID, category, name string, maxDistance float64) SoundID
	StopLoop(id SoundID)
}

// Effects triggers screen-space feedback
type Effects interface {
	ScreenShake(intensity float64)
}

// Terrain reports the ground height under a point
type Terrain interface {
	HeightAt(x, z float64) float64
}

// StatusSource gates the simulation: frames only run while it reports active
type StatusSource interface {
	IsActive() bool
}

// Collaborators bundles everything the simulation talks to outside itself.
// Nil members are replaced with silent defaults.
type Collaborators struct {
	Audio   Audio
	Effects Effects
	Terrain Terrain
	Status  StatusSource
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Audio == nil {
		c.Audio = nopAudio{}
	}
	if c.Effects == nil {
		c.Effects = nopEffects{}
	}
	if c.Terrain == nil {
		c.Terrain = FlatTerrain{}
	}
	if c.Status == nil {
		c.Status = alwaysActive{}
	}
	return c
}

type nopAudio struct{}

func (nopAudio) PlayEffect(string, string)                         {}
func (nopAudio) StopEffect(string, string)                         {}
func (nopAudio) AttachLoop(string, string, string, float64) SoundID { return 0 }
func (nopAudio) StopLoop(SoundID)                                  {}

type nopEffects struct{}

func (nopEffects) ScreenShake(float64) {}

// FlatTerrain is level ground at a fixed height
type FlatTerrain struct {
	Height float64
}

func (t FlatTerrain) HeightAt(x, z float64) float64 { return t.Height }

type alwaysActive struct{}

func (alwaysActive) IsActive() bool { return true }
