package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configName = "saucer.cfg.json"

// Config holds the simulation tuning and the server settings.
// Distances are world units, speeds are units per frame, times are milliseconds.
type Config struct {
	// World
	GameBounds  float64 `mapstructure:"gameBounds"`
	FloorHeight float64 `mapstructure:"floorHeight"`
	FrameMillis float64 `mapstructure:"frameMillis"`

	// Player craft
	PlayerStartHeight float64 `mapstructure:"playerStartHeight"`
	PlayerAccel       float64 `mapstructure:"playerAccel"`
	PlayerDrag        float64 `mapstructure:"playerDrag"`
	PlayerMaxSpeed    float64 `mapstructure:"playerMaxSpeed"`
	PlayerRadius      float64 `mapstructure:"playerRadius"`
	PlayerHealth      int     `mapstructure:"playerHealth"`
	HoverAmplitude    float64 `mapstructure:"hoverAmplitude"`
	HoverSpeed        float64 `mapstructure:"hoverSpeed"`
	TurnLerp          float64 `mapstructure:"turnLerp"`
	BankFactor        float64 `mapstructure:"bankFactor"`

	// Beam
	BeamRange        float64 `mapstructure:"beamRange"`
	BeamStrength     float64 `mapstructure:"beamStrength"`
	AbductionPull    float64 `mapstructure:"abductionPull"`
	AbductionSpin    float64 `mapstructure:"abductionSpin"`
	CompletionRadius float64 `mapstructure:"completionRadius"`
	AbductionScore   int     `mapstructure:"abductionScore"`

	// Creatures
	CreatureCount  int     `mapstructure:"creatureCount"`
	CreatureRadius float64 `mapstructure:"creatureRadius"`
	CreatureHeight float64 `mapstructure:"creatureHeight"`
	IdleBob        float64 `mapstructure:"idleBob"`

	// Attackers
	AttackerRadius   float64 `mapstructure:"attackerRadius"`
	AttackerSpeedMin float64 `mapstructure:"attackerSpeedMin"`
	AttackerSpeedMax float64 `mapstructure:"attackerSpeedMax"`
	FireIntervalMin  float64 `mapstructure:"fireIntervalMin"`
	FireIntervalMax  float64 `mapstructure:"fireIntervalMax"`
	AttackerTilt     float64 `mapstructure:"attackerTilt"`
	SoundDistance    float64 `mapstructure:"soundDistance"`

	// Projectiles
	ProjectileSpeed  float64 `mapstructure:"projectileSpeed"`
	ProjectileRadius float64 `mapstructure:"projectileRadius"`
	ProjectileMaxAge int     `mapstructure:"projectileMaxAge"`

	// Spawning
	SpawnBaseInterval   float64 `mapstructure:"spawnBaseInterval"`
	SpawnMinInterval    float64 `mapstructure:"spawnMinInterval"`
	SpawnRateIncrease   float64 `mapstructure:"spawnRateIncrease"`
	SpawnMargin         float64 `mapstructure:"spawnMargin"`
	SpawnAltitudeJitter float64 `mapstructure:"spawnAltitudeJitter"`

	// Effects
	ShakeIntensity float64 `mapstructure:"shakeIntensity"`
	EffectsVolume  float64 `mapstructure:"effectsVolume"`

	// Server
	Addr           string        `mapstructure:"addr"`
	ClientDir      string        `mapstructure:"client"`
	DBPath         string        `mapstructure:"db"`
	LogLevel       string        `mapstructure:"logLevel"`
	TickRate       int           `mapstructure:"tickRate"`
	BroadcastRate  int           `mapstructure:"broadcastRate"`
	PairingTTL     time.Duration `mapstructure:"pairingTTL"`
	HighScoreLimit int           `mapstructure:"highScoreLimit"`
	Seed           uint64        `mapstructure:"seed"`
}

var configDefaults = map[string]any{
	"gameBounds":  100.0,
	"floorHeight": 3.0,
	"frameMillis": 1000.0 / 60.0,

	"playerStartHeight": 10.0,
	"playerAccel":       0.02,
	"playerDrag":        0.96,
	"playerMaxSpeed":    0.6,
	"playerRadius":      1.5,
	"playerHealth":      3,
	"hoverAmplitude":    0.2,
	"hoverSpeed":        0.05,
	"turnLerp":          0.1,
	"bankFactor":        1.0,

	"beamRange":        10.0,
	"beamStrength":     0.05,
	"abductionPull":    0.05,
	"abductionSpin":    0.1,
	"completionRadius": 3.0,
	"abductionScore":   100,

	"creatureCount":  10,
	"creatureRadius": 1.0,
	"creatureHeight": 1.0,
	"idleBob":        0.1,

	"attackerRadius":   2.0,
	"attackerSpeedMin": 0.15,
	"attackerSpeedMax": 0.3,
	"fireIntervalMin":  2000.0,
	"fireIntervalMax":  4000.0,
	"attackerTilt":     0.5,
	"soundDistance":    50.0,

	"projectileSpeed":  0.5,
	"projectileRadius": 0.5,
	"projectileMaxAge": 500,

	"spawnBaseInterval":   5000.0,
	"spawnMinInterval":    1000.0,
	"spawnRateIncrease":   0.1,
	"spawnMargin":         10.0,
	"spawnAltitudeJitter": 5.0,

	"shakeIntensity": 0.5,
	"effectsVolume":  0.8,

	"addr":           ":8080",
	"client":         "../client",
	"db":             "saucer.db",
	"logLevel":       "info",
	"tickRate":       60,
	"broadcastRate":  30,
	"pairingTTL":     "10m",
	"highScoreLimit": 10,
	"seed":           0,
}

// DefaultConfig returns the built-in settings without reading any file
func DefaultConfig() Config {
	cfg, err := decodeConfig(newViper())
	if err != nil {
		panic("invalid config defaults: " + err.Error())
	}
	return cfg
}

// LoadConfig reads configuration from an optional JSON file in dir,
// SAUCER_* environment variables and command-line flags, in increasing priority.
func LoadConfig(dir string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()
	v.SetConfigName(configName)
	v.SetConfigType("json")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := f.Name
			if k, ok := flagKeys[f.Name]; ok {
				key = k
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("binding flags: %w", bindErr)
		}
	}
	return decodeConfig(v)
}

// flagKeys maps dashed flag names onto config keys
var flagKeys = map[string]string{
	"log-level": "logLevel",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range configDefaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("SAUCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decodeConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps out-of-range values instead of rejecting them
func (c *Config) Normalize() {
	c.ShakeIntensity = Clamp(c.ShakeIntensity, 0, 1)
	c.EffectsVolume = Clamp(c.EffectsVolume, 0, 1)
	c.PlayerDrag = Clamp(c.PlayerDrag, 0, 1)
	c.SpawnRateIncrease = Clamp(c.SpawnRateIncrease, 0, 1)
	if c.SpawnMinInterval < 0 {
		c.SpawnMinInterval = 0
	}
	if c.SpawnBaseInterval < c.SpawnMinInterval {
		c.SpawnBaseInterval = c.SpawnMinInterval
	}
	if c.AttackerSpeedMax < c.AttackerSpeedMin {
		c.AttackerSpeedMax = c.AttackerSpeedMin
	}
	if c.FireIntervalMax < c.FireIntervalMin {
		c.FireIntervalMax = c.FireIntervalMin
	}
	if c.PlayerHealth < 1 {
		c.PlayerHealth = 1
	}
	if c.TickRate <= 0 {
		c.TickRate = 60
	}
	if c.BroadcastRate <= 0 || c.BroadcastRate > c.TickRate {
		c.BroadcastRate = c.TickRate
	}
	if c.FrameMillis <= 0 {
		c.FrameMillis = 1000 / float64(c.TickRate)
	}
}

// OutOfBounds is the despawn distance from the player for attackers and projectiles
func (c Config) OutOfBounds() float64 {
	return c.GameBounds * 1.5
}

// BroadcastEvery returns how many ticks pass between state broadcasts
func (c Config) BroadcastEvery() int {
	return c.TickRate / c.BroadcastRate
}
